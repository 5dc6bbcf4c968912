package neopixeld

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"golang.org/x/sync/errgroup"
)

type closeFrame struct {
	Code   ws.StatusCode
	Reason string
}

func (f closeFrame) encode() []byte {
	return ws.NewCloseFrameBody(f.Code, f.Reason)
}

// viewerSession is one websocket viewer of a StreamServer. Traffic is
// one-way: the server pushes binary frames, the viewer sends nothing
// but control frames.
type viewerSession struct {
	// frames holds at most the latest marshaled frame waiting for
	// delivery.
	frames chan []byte

	wsconn io.ReadWriteCloser
	logger *slog.Logger
}

func newViewerSession(wsconn io.ReadWriteCloser, logger *slog.Logger) *viewerSession {
	return &viewerSession{
		frames: make(chan []byte, 1),
		wsconn: wsconn,
		logger: logger,
	}
}

// push queues a marshaled frame for delivery, replacing an undelivered
// one when the viewer cannot keep up. It never blocks the caller.
func (v *viewerSession) push(frame []byte) {
	for {
		select {
		case v.frames <- frame:
			return
		default:
		}
		select {
		case <-v.frames:
		default:
		}
	}
}

// start runs the session until ctx is cancelled or the viewer hangs up.
func (v *viewerSession) start(ctx context.Context, hello []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		<-ctx.Done()

		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			frame := closeFrame{
				Code:   ws.StatusNormalClosure,
				Reason: cause.Error(),
			}

			v.logger.DebugContext(ctx,
				"sending close frame to viewer",
				"code", frame.Code,
				"reason", frame.Reason)

			if err := ws.WriteFrame(v.wsconn, ws.NewCloseFrame(frame.encode())); err != nil {
				v.logger.WarnContext(ctx,
					"failed to write close frame",
					"error", err.Error())
			}
		}

		if closeErr := v.wsconn.Close(); closeErr != nil {
			v.logger.WarnContext(ctx,
				"failed to close websocket",
				"error", closeErr.Error())

			return fmt.Errorf("failed to close websocket: %w", closeErr)
		}

		return nil
	})

	errg.Go(func() error {
		defer cancel()
		return v.readLoop(ctx)
	})

	errg.Go(func() error {
		defer cancel()
		return v.writeLoop(ctx, hello)
	})

	return errg.Wait()
}

// readLoop services control frames so pings and client close frames
// are honored. Viewers have nothing to say; data frames are discarded.
func (v *viewerSession) readLoop(ctx context.Context) error {
	controlHandler := wsutil.ControlFrameHandler(v.wsconn, ws.StateServerSide)
	rd := wsutil.Reader{
		Source:         v.wsconn,
		State:          ws.StateServerSide,
		OnIntermediate: controlHandler,
	}

	for {
		hdr, err := rd.NextFrame()
		if err != nil {
			return v.readErr(ctx, err)
		}
		if hdr.OpCode.IsControl() {
			if err := controlHandler(hdr, &rd); err != nil {
				return v.readErr(ctx, err)
			}
			continue
		}
		if err := rd.Discard(); err != nil {
			return v.readErr(ctx, err)
		}
	}
}

func (v *viewerSession) readErr(ctx context.Context, err error) error {
	var closedErr wsutil.ClosedError
	if errors.As(err, &closedErr) {
		v.logger.DebugContext(ctx,
			"received close frame from viewer")

		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	v.logger.DebugContext(ctx,
		"failed to read from websocket",
		"error", err.Error())

	return fmt.Errorf("failed to read from websocket: %w", err)
}

func (v *viewerSession) writeLoop(ctx context.Context, hello []byte) error {
	if err := wsutil.WriteServerBinary(v.wsconn, hello); err != nil {
		return fmt.Errorf("failed to write hello: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case frame := <-v.frames:
			if err := wsutil.WriteServerBinary(v.wsconn, frame); err != nil {
				return fmt.Errorf("failed to write to websocket: %w", err)
			}
		}
	}
}
