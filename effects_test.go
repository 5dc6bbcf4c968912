package neopixeld

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// renderAt evaluates spec at the given elapsed time on a fresh frame.
func renderAt(t *testing.T, spec EffectSpec, shape Shape, elapsed time.Duration) (Frame, bool) {
	t.Helper()

	spec = spec.withDefaults()
	if err := spec.validate(shape); err != nil {
		t.Fatal("invalid spec:", err)
	}

	frame := NewFrame(shape)
	done := spec.renderInto(frame, shape, elapsed.Seconds())
	return frame, done
}

func reversed(frame Frame, shape Shape) Frame {
	rev := make(Frame, len(frame))
	copy(rev, frame)
	rev.reverse(shape)
	return rev
}

func frameWithPixel(shape Shape, i int, color Color) Frame {
	frame := NewFrame(shape)
	copy(frame.pixel(shape, i), color)
	return frame
}

func TestMovingPixel(t *testing.T) {
	shape := Shape{Pixels: 10, Channels: 3}
	spec := MovingPixelSpec{MovingParams{
		Color:    Color{255, 0, 0},
		Duration: time.Second,
	}}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    Frame
		done    bool
	}{
		{
			name:    "start",
			elapsed: 0,
			want:    frameWithPixel(shape, 0, spec.Color),
		},
		{
			name:    "midpoint",
			elapsed: 500 * time.Millisecond,
			want:    frameWithPixel(shape, 5, spec.Color),
		},
		{
			name:    "terminal pixel clamped",
			elapsed: time.Second,
			want:    frameWithPixel(shape, 9, spec.Color),
		},
		{
			name:    "past duration",
			elapsed: 1100 * time.Millisecond,
			want:    NewFrame(shape),
			done:    true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			frame, done := renderAt(t, spec, shape, test.elapsed)
			assertEq(t, test.want, frame)
			assertEq(t, test.done, done)
		})
	}
}

func TestMovingPixelPingPong(t *testing.T) {
	shape := Shape{Pixels: 10, Channels: 3}
	spec := MovingPixelSpec{MovingParams{
		Color:    Color{0, 255, 0},
		Duration: time.Second,
		PingPong: true,
	}}

	// Position reflects at the strip ends with period 2*Duration, so
	// 1.5s mirrors 0.5s.
	forward, done := renderAt(t, spec, shape, 500*time.Millisecond)
	assertEq(t, false, done)

	backward, done := renderAt(t, spec, shape, 1500*time.Millisecond)
	assertEq(t, false, done)

	assertEq(t, forward, backward)

	// A pingpong effect never completes on its own.
	_, done = renderAt(t, spec, shape, time.Hour)
	assertEq(t, false, done)
}

func TestGaussian(t *testing.T) {
	shape := Shape{Pixels: 10, Channels: 3}
	spec := GaussianSpec{
		MovingParams: MovingParams{
			Color:    Color{255, 0, 100},
			Duration: time.Second,
		},
		Sigma: 1,
	}

	frame, done := renderAt(t, spec, shape, 500*time.Millisecond)
	assertEq(t, false, done)

	want := NewFrame(shape)
	for i := 0; i < shape.Pixels; i++ {
		w := math.Exp(-0.5 * (float64(i) - 5) * (float64(i) - 5))
		for c, v := range spec.Color {
			want.pixel(shape, i)[c] = v * w
		}
	}
	assertEq(t, want, frame, cmpopts.EquateApprox(0, 1e-9))
}

func TestDecay(t *testing.T) {
	shape := Shape{Pixels: 10, Channels: 3}
	spec := DecaySpec{
		MovingParams: MovingParams{
			Color:    Color{200, 100, 0},
			Duration: time.Second,
		},
		DecayFactor: 0.5,
	}

	frame, done := renderAt(t, spec, shape, 500*time.Millisecond)
	assertEq(t, false, done)

	// Head at pixel 5, halving per pixel behind it, dark ahead of it.
	want := NewFrame(shape)
	for i := 0; i <= 5; i++ {
		w := math.Pow(0.5, float64(5-i))
		for c, v := range spec.Color {
			want.pixel(shape, i)[c] = v * w
		}
	}
	assertEq(t, want, frame, cmpopts.EquateApprox(0, 1e-9))
}

func TestSine(t *testing.T) {
	shape := Shape{Pixels: 8, Channels: 3}
	spec := SineSpec{
		BaseColor:       Color{10, 10, 10},
		AdditionalColor: Color{20, 20, 20},
		Freq:            1,
		CycleTime:       time.Second,
	}

	frame, done := renderAt(t, spec, shape, 333*time.Millisecond)
	assertEq(t, false, done)

	var distinct bool
	for i := 0; i < shape.Pixels; i++ {
		px := frame.pixel(shape, i)
		for _, v := range px {
			if v < 10 || v > 30 {
				t.Errorf("pixel %d value %v outside [base, base+additional]", i, v)
			}
		}
		if px[0] != frame.pixel(shape, 0)[0] {
			distinct = true
		}
	}
	if !distinct {
		t.Error("sine wave produced a uniform frame")
	}

	// An indefinite effect never completes.
	_, done = renderAt(t, spec, shape, time.Hour)
	assertEq(t, false, done)
}

func TestReversed(t *testing.T) {
	shape := Shape{Pixels: 10, Channels: 3}
	params := MovingParams{
		Color:    Color{255, 128, 64},
		Duration: time.Second,
	}
	reversedParams := params
	reversedParams.Reversed = true

	tests := []struct {
		name     string
		forward  EffectSpec
		backward EffectSpec
	}{
		{
			name:     "moving pixel",
			forward:  MovingPixelSpec{params},
			backward: MovingPixelSpec{reversedParams},
		},
		{
			name:     "gaussian",
			forward:  GaussianSpec{MovingParams: params, Sigma: 2},
			backward: GaussianSpec{MovingParams: reversedParams, Sigma: 2},
		},
		{
			name:     "decay",
			forward:  DecaySpec{MovingParams: params, DecayFactor: 0.5},
			backward: DecaySpec{MovingParams: reversedParams, DecayFactor: 0.5},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, elapsed := range []time.Duration{
				0,
				330 * time.Millisecond,
				750 * time.Millisecond,
			} {
				forward, _ := renderAt(t, test.forward, shape, elapsed)
				backward, _ := renderAt(t, test.backward, shape, elapsed)
				assertEq(t, reversed(forward, shape), backward)
			}
		})
	}
}

func TestSpecDefaults(t *testing.T) {
	shape := Shape{Pixels: 4, Channels: 3}

	// A zero-value spec sweeps a white pixel over one second.
	frame, done := renderAt(t, MovingPixelSpec{}, shape, 500*time.Millisecond)
	assertEq(t, false, done)
	assertEq(t, frameWithPixel(shape, 2, DefaultColor), frame)
}

func TestSpecValidation(t *testing.T) {
	tests := []struct {
		name string
		spec EffectSpec
	}{
		{"negative duration", MovingPixelSpec{MovingParams{Duration: -time.Second}}},
		{"wrong color channels", MovingPixelSpec{MovingParams{Color: Color{255, 0}}}},
		{"nan color", MovingPixelSpec{MovingParams{Color: Color{math.NaN(), 0, 0}}}},
		{"negative sigma", GaussianSpec{Sigma: -1}},
		{"decay factor too large", DecaySpec{DecayFactor: 1.5}},
		{"negative decay factor", DecaySpec{DecayFactor: -0.5}},
		{"negative freq", SineSpec{Freq: -1}},
		{"negative cycle time", SineSpec{CycleTime: -time.Second}},
		{"wrong base color channels", SineSpec{BaseColor: Color{16}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec := test.spec.withDefaults()
			err := spec.validate(Shape{Pixels: 4, Channels: 3})
			if !errors.Is(err, ErrInvalidParam) {
				t.Errorf("expected ErrInvalidParam, got %v", err)
			}
		})
	}
}

func assertEq[T any](t *testing.T, expected, actual T, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Errorf("unexpected diff (-want +got):\n%s", diff)
	}
}
