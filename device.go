package neopixeld

import "fmt"

// Device is an output a Controller renders to, typically a NeoPixel
// strip. Implementations must be safe for use from the controller's
// update loop; Update is never called concurrently for one device.
type Device interface {
	// Shape returns the fixed output geometry.
	Shape() Shape
	// Update replaces the displayed state with frame. The frame must
	// match the device's shape exactly; implementations reject
	// anything else with a ShapeError.
	Update(frame Frame) error
}

// ShapeError reports a frame that does not fit a device's shape.
type ShapeError struct {
	Shape Shape
	Len   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("frame of %d values not compatible with device shape %s (want %d)",
		e.Len, e.Shape, e.Shape.Len())
}

// CheckFrame returns a ShapeError when frame does not fit shape.
// Device implementations call it at the top of Update.
func CheckFrame(shape Shape, frame Frame) error {
	if len(frame) != shape.Len() {
		return &ShapeError{Shape: shape, Len: len(frame)}
	}
	return nil
}
