// Package led drives the key backlight pixels: color wheel, rainbow frames and the buffer
// flushed to the strip.
package led

import (
	"fmt"
	"image/color"

	"github.com/juju/errors"
)

// ErrOutOfRange is the cause of Wheel errors for positions outside 0..255.
var ErrOutOfRange = errors.New("wheel position out of range 0..255")

type RGB struct{ R, G, B uint8 }

func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Wheel maps phase 0..255 to a red->green->blue->red cycle.
func Wheel(pos int) (RGB, error) {
	if pos < 0 || pos > 255 {
		return RGB{}, errors.Annotatef(ErrOutOfRange, "pos=%d", pos)
	}
	return WheelByte(uint8(pos)), nil
}

func IsOutOfRange(err error) bool { return errors.Cause(err) == ErrOutOfRange }

// WheelByte is Wheel for already-wrapped phase. Each band multiplies a value below 85 by 3,
// so channels stay within 0..255.
func WheelByte(pos uint8) RGB {
	inv := 255 - pos
	switch {
	case inv < 85:
		return RGB{R: 255 - inv*3, G: 0, B: inv * 3}
	case inv < 170:
		inv -= 85
		return RGB{R: 0, G: inv * 3, B: 255 - inv*3}
	default:
		inv -= 170
		return RGB{R: inv * 3, G: 255 - inv*3, B: 0}
	}
}
