package neopixeld

import (
	"fmt"
	"math"
	"time"
)

// Family defaults, matching the zero value of each spec field.
const (
	DefaultDuration    = time.Second
	DefaultSigma       = 1.0
	DefaultDecayFactor = 0.25
	DefaultFreq        = 1.0
	DefaultCycleTime   = time.Second
)

var (
	DefaultColor               = Color{255, 255, 255}
	DefaultSineBaseColor       = Color{16, 16, 16}
	DefaultSineAdditionalColor = Color{8, 8, 8}
)

// MovingParams are the parameters shared by every family that sweeps a
// pattern along the pixel axis.
type MovingParams struct {
	// Color is the pattern color, one value per device channel.
	// Defaults to white.
	Color Color
	// Duration is the time of one end-to-end sweep; the effect
	// completes once it elapses. In PingPong mode it is half the
	// reflection period instead and the effect never completes.
	// Defaults to one second.
	Duration time.Duration
	// Reversed flips the pixel axis of every produced frame.
	Reversed bool
	// PingPong makes the sweep bounce between the strip ends
	// indefinitely instead of completing after Duration.
	PingPong bool
}

func (p MovingParams) withDefaults() MovingParams {
	if p.Color == nil {
		p.Color = DefaultColor
	}
	if p.Duration == 0 {
		p.Duration = DefaultDuration
	}
	return p
}

func (p MovingParams) validate(shape Shape) error {
	if !(p.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidParam)
	}
	return validateColor("color", p.Color, shape)
}

// position is the shared sweep rule: a linear ramp over Duration, or an
// indefinite triangle wave with period 2*Duration in PingPong mode. The
// result is clamped to the last pixel so the terminal position still
// indexes the strip.
func (p MovingParams) position(shape Shape, elapsed float64) (pos float64, done bool) {
	total := p.Duration.Seconds()
	if !p.PingPong && elapsed > total {
		return 0, true
	}
	frac := elapsed / total
	if p.PingPong {
		frac = math.Mod(frac, 2)
		frac -= 2 * math.Max(frac-1, 0)
	}
	pos = float64(shape.Pixels) * frac
	return math.Min(pos, float64(shape.Pixels-1)), false
}

func validateColor(name string, c Color, shape Shape) error {
	if len(c) != shape.Channels {
		return fmt.Errorf("%w: %s has %d channels, device has %d",
			ErrInvalidParam, name, len(c), shape.Channels)
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s value %v", ErrInvalidParam, name, v)
		}
	}
	return nil
}

// MovingPixelSpec is a single pixel of Color sweeping from one end of
// the strip to the other.
type MovingPixelSpec struct {
	MovingParams
}

func (s MovingPixelSpec) withDefaults() EffectSpec {
	s.MovingParams = s.MovingParams.withDefaults()
	return s
}

func (s MovingPixelSpec) validate(shape Shape) error {
	return s.MovingParams.validate(shape)
}

func (s MovingPixelSpec) renderInto(dst Frame, shape Shape, elapsed float64) bool {
	pos, done := s.position(shape, elapsed)
	if done {
		return true
	}
	copy(dst.pixel(shape, int(pos)), s.Color)
	if s.Reversed {
		dst.reverse(shape)
	}
	return false
}

// GaussianSpec is a colored gaussian blob sweeping across the strip.
// Each pixel is weighted by an unnormalized gaussian centered on the
// current position.
type GaussianSpec struct {
	MovingParams
	// Sigma is the blob width in pixels. Defaults to 1.
	Sigma float64
}

func (s GaussianSpec) withDefaults() EffectSpec {
	s.MovingParams = s.MovingParams.withDefaults()
	if s.Sigma == 0 {
		s.Sigma = DefaultSigma
	}
	return s
}

func (s GaussianSpec) validate(shape Shape) error {
	if !(s.Sigma > 0) {
		return fmt.Errorf("%w: sigma must be positive", ErrInvalidParam)
	}
	return s.MovingParams.validate(shape)
}

func (s GaussianSpec) renderInto(dst Frame, shape Shape, elapsed float64) bool {
	pos, done := s.position(shape, elapsed)
	if done {
		return true
	}
	for i := 0; i < shape.Pixels; i++ {
		x := (float64(i) - pos) / s.Sigma
		w := math.Exp(-0.5 * x * x)
		px := dst.pixel(shape, i)
		for c, v := range s.Color {
			px[c] = v * w
		}
	}
	if s.Reversed {
		dst.reverse(shape)
	}
	return false
}

// DecaySpec is a moving pixel with an exponentially dimmed trail behind
// it. Pixels ahead of the head stay dark.
type DecaySpec struct {
	MovingParams
	// DecayFactor in (0, 1) is the per-pixel trail attenuation.
	// Defaults to 0.25.
	DecayFactor float64
}

func (s DecaySpec) withDefaults() EffectSpec {
	s.MovingParams = s.MovingParams.withDefaults()
	if s.DecayFactor == 0 {
		s.DecayFactor = DefaultDecayFactor
	}
	return s
}

func (s DecaySpec) validate(shape Shape) error {
	if !(s.DecayFactor > 0 && s.DecayFactor < 1) {
		return fmt.Errorf("%w: decay factor must be in (0, 1)", ErrInvalidParam)
	}
	return s.MovingParams.validate(shape)
}

func (s DecaySpec) renderInto(dst Frame, shape Shape, elapsed float64) bool {
	pos, done := s.position(shape, elapsed)
	if done {
		return true
	}
	for i := 0; i < shape.Pixels; i++ {
		d := pos - float64(i)
		if d < 0 {
			continue
		}
		w := math.Pow(s.DecayFactor, d)
		px := dst.pixel(shape, i)
		for c, v := range s.Color {
			px[c] = v * w
		}
	}
	if s.Reversed {
		dst.reverse(shape)
	}
	return false
}

// SineSpec is an indefinite sine wave travelling along the strip. Each
// pixel oscillates between BaseColor and BaseColor+AdditionalColor. It
// never completes on its own.
type SineSpec struct {
	// BaseColor is the floor color of every pixel.
	// Defaults to (16, 16, 16).
	BaseColor Color
	// AdditionalColor scales the sine sample per pixel.
	// Defaults to (8, 8, 8).
	AdditionalColor Color
	// Freq is the number of full wave cycles across the strip.
	// Defaults to 1.
	Freq float64
	// CycleTime is the travel period of the wave. Defaults to one
	// second.
	CycleTime time.Duration
}

func (s SineSpec) withDefaults() EffectSpec {
	if s.BaseColor == nil {
		s.BaseColor = DefaultSineBaseColor
	}
	if s.AdditionalColor == nil {
		s.AdditionalColor = DefaultSineAdditionalColor
	}
	if s.Freq == 0 {
		s.Freq = DefaultFreq
	}
	if s.CycleTime == 0 {
		s.CycleTime = DefaultCycleTime
	}
	return s
}

func (s SineSpec) validate(shape Shape) error {
	if !(s.Freq > 0) {
		return fmt.Errorf("%w: freq must be positive", ErrInvalidParam)
	}
	if !(s.CycleTime > 0) {
		return fmt.Errorf("%w: cycle time must be positive", ErrInvalidParam)
	}
	if err := validateColor("base color", s.BaseColor, shape); err != nil {
		return err
	}
	return validateColor("additional color", s.AdditionalColor, shape)
}

func (s SineSpec) renderInto(dst Frame, shape Shape, elapsed float64) bool {
	phase := math.Mod(2*math.Pi*elapsed/s.CycleTime.Seconds(), 1.0)
	var step float64
	if shape.Pixels > 1 {
		step = 2 * math.Pi * s.Freq / float64(shape.Pixels-1)
	}
	for i := 0; i < shape.Pixels; i++ {
		sample := 0.5 + 0.5*math.Sin(phase+float64(i)*step)
		px := dst.pixel(shape, i)
		for c := range px {
			px[c] = s.BaseColor[c] + sample*s.AdditionalColor[c]
		}
	}
	return false
}
