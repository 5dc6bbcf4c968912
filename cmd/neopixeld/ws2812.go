package main

import (
	"fmt"
	"sync"

	"libdb.so/ledctl"

	"github.com/zachmoshe/neopixeld"
)

// RGBController is a controller for RGB LEDs.
type RGBController interface {
	SetRGBAt(i int, color ledctl.RGB)
	Flush() error
}

// ws281xDevice exposes a WS281x strip as a neopixeld.Device.
// Composited float frames are scaled by the intensity factor and
// quantized here, at the hardware boundary.
type ws281xDevice struct {
	ctrl      RGBController
	shape     neopixeld.Shape
	intensity float64
	mu        sync.Mutex
}

var _ neopixeld.Device = (*ws281xDevice)(nil)

func newWS281xDevice(row deviceRow, intensity float64) (*ws281xDevice, error) {
	if row.Channels != 3 {
		return nil, fmt.Errorf("WS281x output is RGB only, not %d channels", row.Channels)
	}

	cfg := ws281xConfig
	cfg.NumPixels = row.Pixels
	cfg.GPIOPins = []int{row.GPIOPin}

	ctrl, err := ledctl.NewWS281x(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create a WS281x controller: %v", err)
	}

	return &ws281xDevice{
		ctrl:      ctrl,
		shape:     neopixeld.Shape{Pixels: row.Pixels, Channels: row.Channels},
		intensity: intensity,
	}, nil
}

func (d *ws281xDevice) Shape() neopixeld.Shape { return d.shape }

func (d *ws281xDevice) Update(frame neopixeld.Frame) error {
	if err := neopixeld.CheckFrame(d.shape, frame); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < d.shape.Pixels; i++ {
		px := frame[i*d.shape.Channels : (i+1)*d.shape.Channels]
		d.ctrl.SetRGBAt(i, ledctl.RGB{
			R: uint8(px[0] * d.intensity),
			G: uint8(px[1] * d.intensity),
			B: uint8(px[2] * d.intensity),
		})
	}

	if err := d.ctrl.Flush(); err != nil {
		return fmt.Errorf("failed to flush WS281x strip: %w", err)
	}
	return nil
}
