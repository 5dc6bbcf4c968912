package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/proto"

	"github.com/zachmoshe/neopixeld/fxpb"
)

var (
	streamURL = "ws://127.0.0.1:9000/ws/strip1"
	verbose   = false
)

func init() {
	pflag.StringVarP(&streamURL, "url", "u", streamURL, "frame stream websocket URL")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05 PM", // extended time.Kitchen
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, _, _, err := ws.Dial(ctx, streamURL)
	if err != nil {
		return fmt.Errorf("failed to dial %q: %w", streamURL, err)
	}
	defer conn.Close()

	// Unblock the read loop when the context goes away.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	b, err := wsutil.ReadServerBinary(conn)
	if err != nil {
		return fmt.Errorf("failed to read hello: %w", err)
	}

	hello := &fxpb.Hello{}
	if err := proto.Unmarshal(b, hello); err != nil {
		return fmt.Errorf("failed to unmarshal hello: %w", err)
	}

	logger.Info(
		"connected to frame stream",
		"device", hello.GetDevice(),
		"pixels", hello.GetNumPixels(),
		"channels", hello.GetNumChannels())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	go func() {
		defer cancel()
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			case nil:
				// Screen was finalized.
				return
			}
		}
	}()

	for {
		b, err := wsutil.ReadServerBinary(conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read frame: %w", err)
		}

		frame := &fxpb.Frame{}
		if err := proto.Unmarshal(b, frame); err != nil {
			return fmt.Errorf("failed to unmarshal frame: %w", err)
		}

		drawFrame(screen, int(hello.GetNumChannels()), frame.GetPixels())
	}
}

// drawFrame paints the strip as one row of background-colored cells.
// Channels beyond the first three are not representable and ignored.
func drawFrame(screen tcell.Screen, channels int, pixels []byte) {
	if channels <= 0 {
		return
	}

	for i := 0; (i+1)*channels <= len(pixels); i++ {
		px := pixels[i*channels : (i+1)*channels]

		var r, g, b int32
		r = int32(px[0])
		if channels > 1 {
			g = int32(px[1])
		}
		if channels > 2 {
			b = int32(px[2])
		}

		style := tcell.StyleDefault.Background(tcell.NewRGBColor(r, g, b))
		screen.SetContent(i, 0, ' ', nil, style)
	}

	screen.Show()
}
