package neopixeld

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
)

type fakeDevice struct {
	shape Shape
	fail  error

	mu     sync.Mutex
	frames []Frame
	times  []time.Time
}

func newFakeDevice(pixels, channels int) *fakeDevice {
	return &fakeDevice{shape: Shape{Pixels: pixels, Channels: channels}}
}

func (d *fakeDevice) Shape() Shape { return d.shape }

func (d *fakeDevice) Update(frame Frame) error {
	if err := CheckFrame(d.shape, frame); err != nil {
		return err
	}
	if d.fail != nil {
		return d.fail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	clone := make(Frame, len(frame))
	copy(clone, frame)
	d.frames = append(d.frames, clone)
	d.times = append(d.times, time.Now())
	return nil
}

func (d *fakeDevice) updateCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *fakeDevice) lastFrame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

func (d *fakeDevice) updateTimes() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Time(nil), d.times...)
}

func newTestController(t *testing.T, devices map[string]Device) *Controller {
	t.Helper()
	return NewController(ControllerOpts{
		Devices: devices,
		Logger:  slogt.New(t),
	})
}

func TestAddEffectUnknownDevice(t *testing.T) {
	ctl := newTestController(t, map[string]Device{
		"strip1": newFakeDevice(4, 3),
	})

	_, err := ctl.AddEffect("nope", MovingPixelSpec{})
	if !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("expected ErrUnknownDevice, got %v", err)
	}
	assertEq(t, 0, ctl.devices["strip1"].activeCount())
}

func TestAddEffectInvalidSpec(t *testing.T) {
	ctl := newTestController(t, map[string]Device{
		"strip1": newFakeDevice(4, 3),
	})

	_, err := ctl.AddEffect("strip1", DecaySpec{DecayFactor: 2})
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
	// A rejected spec must leave no trace.
	assertEq(t, 0, ctl.devices["strip1"].activeCount())
}

func TestControllerDevice(t *testing.T) {
	t0 := time.Now()

	t.Run("end_to_end", func(t *testing.T) {
		// Spec: 2-pixel device, a red pixel over 1s. At 0.9s the pixel
		// sits on the last index; at 1.1s the effect is done and the
		// frame dark.
		dev := newFakeDevice(2, 3)
		ctl := newTestController(t, map[string]Device{"strip1": dev})
		cd := ctl.devices["strip1"]

		effect, err := cd.addEffect(MovingPixelSpec{MovingParams{
			Color:    Color{255, 0, 0},
			Duration: time.Second,
		}}, t0)
		if err != nil {
			t.Fatal(err)
		}

		waitErr := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			waitErr <- effect.Wait(ctx)
		}()

		cd.update(t0.Add(900 * time.Millisecond))
		assertEq(t, Frame{0, 0, 0, 255, 0, 0}, dev.lastFrame())
		assertEq(t, false, effect.Completed())

		cd.update(t0.Add(1100 * time.Millisecond))
		assertEq(t, Frame{0, 0, 0, 0, 0, 0}, dev.lastFrame())
		assertEq(t, true, effect.Completed())
		assertEq(t, 0, cd.activeCount())

		if err := <-waitErr; err != nil {
			t.Error("waiter was not released:", err)
		}
	})

	t.Run("completion_tick_contributes_zero", func(t *testing.T) {
		// The tick on which an effect first crosses its duration
		// composites it as zero, not as a last partial frame.
		dev := newFakeDevice(4, 3)
		ctl := newTestController(t, map[string]Device{"strip1": dev})
		cd := ctl.devices["strip1"]

		effect, err := cd.addEffect(MovingPixelSpec{MovingParams{
			Color:    Color{255, 255, 255},
			Duration: time.Second,
		}}, t0)
		if err != nil {
			t.Fatal(err)
		}

		cd.update(t0.Add(2 * time.Second))
		assertEq(t, NewFrame(dev.shape), dev.lastFrame())
		assertEq(t, true, effect.Completed())
		assertEq(t, 0, cd.activeCount())
	})

	t.Run("sum_and_clamp", func(t *testing.T) {
		dev := newFakeDevice(4, 3)
		ctl := newTestController(t, map[string]Device{"strip1": dev})
		cd := ctl.devices["strip1"]

		spec := MovingPixelSpec{MovingParams{
			Color:    Color{200, 100, 0},
			Duration: time.Second,
		}}
		for i := 0; i < 2; i++ {
			if _, err := cd.addEffect(spec, t0); err != nil {
				t.Fatal(err)
			}
		}

		// Both effects light pixel 2; channel sums are clamped to 255.
		cd.update(t0.Add(500 * time.Millisecond))
		want := NewFrame(dev.shape)
		copy(want.pixel(dev.shape, 2), Color{255, 200, 0})
		assertEq(t, want, dev.lastFrame())
	})

	t.Run("commutative", func(t *testing.T) {
		specA := MovingPixelSpec{MovingParams{Color: Color{100, 0, 0}, Duration: time.Second}}
		specB := GaussianSpec{
			MovingParams: MovingParams{Color: Color{0, 100, 0}, Duration: 2 * time.Second},
			Sigma:        1.5,
		}

		composite := func(specs ...EffectSpec) Frame {
			dev := newFakeDevice(8, 3)
			ctl := newTestController(t, map[string]Device{"strip1": dev})
			cd := ctl.devices["strip1"]
			for _, spec := range specs {
				if _, err := cd.addEffect(spec, t0); err != nil {
					t.Fatal(err)
				}
			}
			cd.update(t0.Add(700 * time.Millisecond))
			return dev.lastFrame()
		}

		assertEq(t, composite(specA, specB), composite(specB, specA))
	})

	t.Run("cancel_removes_next_tick", func(t *testing.T) {
		dev := newFakeDevice(4, 3)
		ctl := newTestController(t, map[string]Device{"strip1": dev})
		cd := ctl.devices["strip1"]

		effect, err := cd.addEffect(SineSpec{}, t0)
		if err != nil {
			t.Fatal(err)
		}

		cd.update(t0.Add(100 * time.Millisecond))
		if frame := dev.lastFrame(); frame[0] == 0 {
			t.Error("sine effect contributed nothing before cancel")
		}

		effect.Cancel()
		effect.Cancel() // idempotent
		assertEq(t, true, effect.Completed())

		cd.update(t0.Add(200 * time.Millisecond))
		assertEq(t, NewFrame(dev.shape), dev.lastFrame())
		assertEq(t, 0, cd.activeCount())
	})

	t.Run("zero_effects_still_updates", func(t *testing.T) {
		dev := newFakeDevice(4, 3)
		ctl := newTestController(t, map[string]Device{"strip1": dev})

		ctl.devices["strip1"].update(t0)
		assertEq(t, 1, dev.updateCount())
		assertEq(t, NewFrame(dev.shape), dev.lastFrame())
	})
}

func TestDeviceFaultIsolation(t *testing.T) {
	bad := newFakeDevice(4, 3)
	bad.fail = errors.New("hardware went away")
	good := newFakeDevice(4, 3)

	ctl := newTestController(t, map[string]Device{
		// "bad" sorts first, so its fault happens before "good"
		// updates on every tick.
		"bad":  bad,
		"good": good,
	})

	if _, err := ctl.AddEffect("good", SineSpec{}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	for _, name := range ctl.order {
		ctl.devices[name].update(now)
	}
	for _, name := range ctl.order {
		ctl.devices[name].update(now.Add(ctl.period))
	}

	assertEq(t, 2, good.updateCount())
}

func TestStartStop(t *testing.T) {
	ctl := newTestController(t, map[string]Device{
		"strip1": newFakeDevice(4, 3),
	})

	if err := ctl.Start(); err != nil {
		t.Fatal(err)
	}
	if err := ctl.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	ctl.Stop()
	ctl.Stop() // idempotent

	// The controller is restartable after a stop.
	if err := ctl.Start(); err != nil {
		t.Fatal(err)
	}
	ctl.Stop()
}

func TestSchedulerCadence(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	dev := newFakeDevice(4, 3)
	ctl := NewController(ControllerOpts{
		Devices:         map[string]Device{"strip1": dev},
		UpdateFrequency: 100,
		Logger:          slogt.New(t),
	})

	if err := ctl.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)
	ctl.Stop()

	times := dev.updateTimes()
	if len(times) < 2 {
		t.Fatalf("expected several update ticks, got %d", len(times))
	}

	// With no active effects the measured cadence should track the
	// 10ms period. The bounds are generous to keep CI happy.
	mean := times[len(times)-1].Sub(times[0]) / time.Duration(len(times)-1)
	if mean < 8*time.Millisecond || mean > 30*time.Millisecond {
		t.Errorf("mean tick interval %v too far from 10ms period", mean)
	}
}
