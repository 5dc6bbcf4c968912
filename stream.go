package neopixeld

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gobwas/ws"
	"google.golang.org/protobuf/proto"
	"gopkg.in/typ.v4/sync2"

	"github.com/zachmoshe/neopixeld/fxpb"
)

//go:generate protoc -I=. --go_out=paths=source_relative:. fxpb/neopixel.proto

// StreamServerOpts are options for a StreamServer.
type StreamServerOpts struct {
	// Name is the device name announced to viewers.
	Name string
	// Shape is the stream's output geometry.
	Shape Shape
	// Logger is the logger to use. Defaults to slog.Default().
	Logger *slog.Logger
	// HTTPUpgrader is the HTTP-to-Websocket upgrader to use.
	HTTPUpgrader ws.HTTPUpgrader
}

// StreamServer broadcasts composited frames to websocket viewers. It
// implements both Device and http.Handler, so it can be registered with
// a Controller like any physical output and mounted on a router for
// viewers to connect to. Each viewer receives an fxpb.Hello on connect
// and an fxpb.Frame per controller tick.
type StreamServer struct {
	opts    StreamServerOpts
	hello   []byte
	viewers sync2.Map[*viewerSession, viewerControl]
}

type viewerControl struct {
	cancel context.CancelCauseFunc
}

// NewStreamServer creates a new stream server for the given shape.
func NewStreamServer(opts StreamServerOpts) (*StreamServer, error) {
	if opts.Shape.Pixels <= 0 || opts.Shape.Channels <= 0 {
		return nil, fmt.Errorf("invalid stream shape %s", opts.Shape)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	hello, err := proto.Marshal(&fxpb.Hello{
		Device:      opts.Name,
		NumPixels:   uint32(opts.Shape.Pixels),
		NumChannels: uint32(opts.Shape.Channels),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hello: %w", err)
	}

	return &StreamServer{
		opts:  opts,
		hello: hello,
	}, nil
}

// Shape implements Device.
func (s *StreamServer) Shape() Shape { return s.opts.Shape }

// Update implements Device. The frame is quantized to one byte per
// channel, marshaled once and fanned out to every connected viewer.
// A viewer that cannot keep up skips frames instead of stalling the
// caller's tick.
func (s *StreamServer) Update(frame Frame) error {
	if err := CheckFrame(s.opts.Shape, frame); err != nil {
		return err
	}

	pixels := make([]byte, len(frame))
	for i, val := range frame {
		pixels[i] = uint8(val)
	}

	b, err := proto.Marshal(&fxpb.Frame{
		Device: s.opts.Name,
		Pixels: pixels,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	s.viewers.Range(func(v *viewerSession, _ viewerControl) bool {
		v.push(b)
		return true
	})

	return nil
}

// Viewers returns the number of connected viewers.
func (s *StreamServer) Viewers() int {
	var n int
	s.viewers.Range(func(*viewerSession, viewerControl) bool {
		n++
		return true
	})
	return n
}

// KickAllViewers disconnects all viewers from the stream.
// Optionally, a reason can be provided.
func (s *StreamServer) KickAllViewers(reason string) {
	var err error
	if reason != "" {
		err = fmt.Errorf("kicked: %s", reason)
	} else {
		err = fmt.Errorf("kicked")
	}

	s.viewers.Range(func(v *viewerSession, ctrl viewerControl) bool {
		ctrl.cancel(err)
		return true
	})
}

// ServeHTTP implements http.Handler.
func (s *StreamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsconn, _, _, err := s.opts.HTTPUpgrader.Upgrade(r, w)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to upgrade HTTP: %s", err), http.StatusInternalServerError)
		return
	}

	logger := s.opts.Logger.With("addr", wsconn.RemoteAddr())
	session := newViewerSession(wsconn, logger)

	ctx, cancel := context.WithCancelCause(r.Context())
	s.viewers.Store(session, viewerControl{cancel: cancel})
	defer s.viewers.Delete(session)

	logger.DebugContext(ctx, "viewer connected")

	if err := session.start(ctx, s.hello); err != nil && !errors.Is(err, context.Canceled) {
		logger.DebugContext(ctx,
			"viewer session ended",
			"error", err.Error())
	}
}
