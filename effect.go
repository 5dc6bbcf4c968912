package neopixeld

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidParam is wrapped by every spec parameter validation error.
var ErrInvalidParam = errors.New("invalid effect parameter")

// EffectSpec describes one effect family instance before it is bound to
// a device. Specs are immutable value types: registering the same spec
// on two devices yields two fully independent effects.
//
// The set of implementations is closed. Adding a family means adding a
// spec type in effects.go; nothing dispatches on anything but these
// three methods.
type EffectSpec interface {
	// withDefaults returns a copy with zero-value parameters replaced
	// by the family defaults.
	withDefaults() EffectSpec
	// validate checks the parameters against the target device shape.
	validate(shape Shape) error
	// renderInto writes the family's frame for the given elapsed time
	// (seconds since the effect started) into dst, which is pre-zeroed
	// and matches shape. It reports true once the effect has run past
	// its duration; dst is left all-zero in that case.
	renderInto(dst Frame, shape Shape, elapsed float64) (done bool)
}

var lastEffectID atomic.Uint64

// Effect is a live effect registered on one device. It is the caller's
// handle for observing completion and for cancelling.
type Effect struct {
	spec  EffectSpec
	shape Shape
	id    uint64

	doneOnce sync.Once
	done     chan struct{}
}

func newEffect(spec EffectSpec, shape Shape) *Effect {
	return &Effect{
		spec:  spec,
		shape: shape,
		id:    lastEffectID.Add(1),
		done:  make(chan struct{}),
	}
}

// Done returns a channel that is closed once the effect completes or is
// cancelled. Any number of waiters may block on it; none of them polls.
func (e *Effect) Done() <-chan struct{} { return e.done }

// Completed reports whether the effect has completed.
func (e *Effect) Completed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the effect completes or ctx is cancelled.
func (e *Effect) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return nil
	}
}

// Cancel forces the effect to completed. It is idempotent and safe to
// call from any goroutine. The effect contributes nothing from the next
// update tick on; frames already composited are not undone.
func (e *Effect) Cancel() { e.complete() }

func (e *Effect) complete() {
	e.doneOnce.Do(func() { close(e.done) })
}

// render evaluates the effect elapsed time after its start, writing its
// contribution into dst (pre-zeroed). It reports false once the effect
// is done; a done effect has written nothing to dst, so the tick on
// which an effect crosses its duration composites it as zero.
func (e *Effect) render(dst Frame, elapsed time.Duration) bool {
	if e.Completed() {
		return false
	}
	if e.spec.renderInto(dst, e.shape, elapsed.Seconds()) {
		e.complete()
		return false
	}
	return true
}
