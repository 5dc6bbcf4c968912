package neopixeld

import "fmt"

// MaxIntensity is the upper bound of a single channel value. Composited
// frames are clamped to [0, MaxIntensity] before they reach a device.
const MaxIntensity = 255

// Shape describes the output geometry of a Device: Pixels addressable
// pixels of Channels intensity channels each.
type Shape struct {
	Pixels   int
	Channels int
}

// Len returns the number of channel values in a frame of this shape.
func (s Shape) Len() int { return s.Pixels * s.Channels }

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Pixels, s.Channels)
}

// Color is a per-channel intensity vector, conventionally RGB in
// [0, MaxIntensity]. Its length must match the target device's channel
// count. Treat it as read-only once handed to a spec.
type Color []float64

// Frame holds one intensity value per pixel channel, pixel-major.
// Values stay floats while effects are composited; quantizing to device
// integers is the device's business.
type Frame []float64

// NewFrame returns an all-zero frame of the given shape.
func NewFrame(shape Shape) Frame {
	return make(Frame, shape.Len())
}

// pixel returns the channel slice of pixel i.
func (f Frame) pixel(shape Shape, i int) []float64 {
	return f[i*shape.Channels : (i+1)*shape.Channels]
}

func (f Frame) zero() {
	for i := range f {
		f[i] = 0
	}
}

// add accumulates other into f element-wise.
func (f Frame) add(other Frame) {
	for i, v := range other {
		f[i] += v
	}
}

// clamp truncates every value into [lo, hi].
func (f Frame) clamp(lo, hi float64) {
	for i, v := range f {
		if v < lo {
			f[i] = lo
		} else if v > hi {
			f[i] = hi
		}
	}
}

// reverse flips the pixel axis in place.
func (f Frame) reverse(shape Shape) {
	for i, j := 0, shape.Pixels-1; i < j; i, j = i+1, j-1 {
		pi := f.pixel(shape, i)
		pj := f.pixel(shape, j)
		for c := range pi {
			pi[c], pj[c] = pj[c], pi[c]
		}
	}
}
