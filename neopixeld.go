package neopixeld

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"
)

// DefaultUpdateFrequency is the update loop rate used when
// ControllerOpts.UpdateFrequency is zero.
const DefaultUpdateFrequency = 50.0

var (
	// ErrAlreadyRunning is returned by Start while the update loop is
	// live.
	ErrAlreadyRunning = errors.New("controller already running")
	// ErrUnknownDevice is wrapped by AddEffect for unregistered device
	// names.
	ErrUnknownDevice = errors.New("unknown device")
)

// ControllerOpts are options for a Controller.
type ControllerOpts struct {
	// Devices maps device names to outputs. The set is fixed for the
	// controller's lifetime.
	Devices map[string]Device
	// UpdateFrequency is the target number of update ticks per second.
	// Defaults to DefaultUpdateFrequency.
	UpdateFrequency float64
	// Logger is the logger to use. Defaults to slog.Default().
	Logger *slog.Logger
}

// Controller owns the effects of all registered devices and drives them
// from a single fixed-rate update loop. Each tick it composites every
// device's active effects into one frame and pushes it to the device.
type Controller struct {
	period  time.Duration
	logger  *slog.Logger
	order   []string
	devices map[string]*controllerDevice

	mu       sync.Mutex
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// NewController creates a stopped controller for the given devices.
func NewController(opts ControllerOpts) *Controller {
	if opts.UpdateFrequency <= 0 {
		opts.UpdateFrequency = DefaultUpdateFrequency
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	devices := make(map[string]*controllerDevice, len(opts.Devices))
	order := make([]string, 0, len(opts.Devices))
	for name, dev := range opts.Devices {
		devices[name] = newControllerDevice(dev, opts.Logger.With("device", name))
		order = append(order, name)
	}
	// Devices update in a stable order, tick after tick.
	sort.Strings(order)

	return &Controller{
		period:  time.Duration(float64(time.Second) / opts.UpdateFrequency),
		logger:  opts.Logger,
		order:   order,
		devices: devices,
	}
}

// Devices returns the registered device names in update order.
func (c *Controller) Devices() []string {
	return slices.Clone(c.order)
}

// Period returns the update loop's target tick period.
func (c *Controller) Period() time.Duration {
	return c.period
}

// AddEffect binds spec to the named device and registers it, started at
// the time of the call. It returns ErrUnknownDevice for unregistered
// names and ErrInvalidParam for out-of-domain spec parameters; neither
// mutates any state. AddEffect is safe to call from any goroutine,
// whether or not the update loop is running.
func (c *Controller) AddEffect(deviceName string, spec EffectSpec) (*Effect, error) {
	d, ok := c.devices[deviceName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", deviceName, ErrUnknownDevice)
	}
	return d.addEffect(spec, time.Now())
}

// Start launches the update loop in its own goroutine. It returns
// ErrAlreadyRunning if the loop is already live.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.loopDone = make(chan struct{})

	c.logger.Debug(
		"starting update loop",
		"period", c.period,
		"devices", len(c.devices))

	go func(done chan struct{}) {
		defer close(done)
		c.run(ctx)
	}(c.loopDone)

	return nil
}

// Stop halts the update loop, interrupting an in-progress sleep, and
// waits for it to exit. Stopping a stopped controller is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.loopDone
	c.cancel = nil
	c.loopDone = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.logger.Debug("update loop stopped")
}

// run drives update ticks until ctx is cancelled. Each tick updates
// every device once, then sleeps for whatever is left of the period.
// A tick that overruns the period starts the next one immediately.
func (c *Controller) run(ctx context.Context) {
	for {
		start := time.Now()

		for _, name := range c.order {
			c.devices[name].update(start)
		}

		sleep := c.period - time.Since(start)
		if sleep < 0 {
			sleep = 0
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// controllerDevice owns the active effects of one device.
type controllerDevice struct {
	device Device
	logger *slog.Logger

	mu      sync.Mutex
	effects map[uint64]activeEffect

	// Reused across ticks; guarded by mu.
	scratch Frame
	acc     Frame
}

type activeEffect struct {
	effect *Effect
	start  time.Time
}

func newControllerDevice(device Device, logger *slog.Logger) *controllerDevice {
	shape := device.Shape()
	return &controllerDevice{
		device:  device,
		logger:  logger,
		effects: make(map[uint64]activeEffect),
		scratch: NewFrame(shape),
		acc:     NewFrame(shape),
	}
}

func (d *controllerDevice) addEffect(spec EffectSpec, start time.Time) (*Effect, error) {
	spec = spec.withDefaults()
	shape := d.device.Shape()
	if err := spec.validate(shape); err != nil {
		return nil, err
	}

	effect := newEffect(spec, shape)

	d.mu.Lock()
	d.effects[effect.id] = activeEffect{effect: effect, start: start}
	d.mu.Unlock()

	return effect, nil
}

// activeCount returns the number of registered effects.
func (d *controllerDevice) activeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.effects)
}

// update runs one aggregation pass at tick time now: evaluate every
// active effect against its own start time, sum the contributions,
// clamp, and push exactly one frame to the device. Effects observed as
// done are swept only after the iteration finishes.
func (d *controllerDevice) update(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.acc.zero()

	var done []uint64
	for id, ae := range d.effects {
		d.scratch.zero()
		if !ae.effect.render(d.scratch, now.Sub(ae.start)) {
			done = append(done, id)
			continue
		}
		d.acc.add(d.scratch)
	}
	for _, id := range done {
		delete(d.effects, id)
	}

	d.acc.clamp(0, MaxIntensity)

	if err := d.device.Update(d.acc); err != nil {
		d.logger.Error(
			"failed to update device",
			"error", err)
	}
}
