// Package ssd1306 adapts periph.io SSD1306 I2C OLED driver to tinygo drivers.Displayer,
// so text_display.Canvas draws on Linux SBC same as on MacroPad.
package ssd1306

import (
	"image"
	"image/color"
	"io"

	"github.com/juju/errors"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/devices/ssd1306/image1bit"
	"periph.io/x/periph/host"
)

const (
	DefaultWidth  = 128
	DefaultHeight = 64
)

type Drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

type Display struct {
	dev Drawer
	img *image1bit.VerticalLSB
}

func New(dev Drawer, width, height int) *Display {
	return &Display{
		dev: dev,
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, width, height)),
	}
}

// Open initializes periph host drivers and I2C bus (empty name = first available).
func Open(bus string, width, height int) (*Display, io.Closer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, errors.Annotate(err, "periph host init")
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "i2c bus=%s", bus)
	}
	dev, err := ssd1306.NewI2C(b, &ssd1306.Opts{W: width, H: height})
	if err != nil {
		b.Close()
		return nil, nil, errors.Annotatef(err, "ssd1306 bus=%s", bus)
	}
	return New(dev, width, height), b, nil
}

func (self *Display) Size() (x, y int16) {
	r := self.img.Bounds()
	return int16(r.Dx()), int16(r.Dy())
}

// SetPixel lights any non-black color.
func (self *Display) SetPixel(x, y int16, c color.RGBA) {
	self.img.SetBit(int(x), int(y), image1bit.Bit(c.R|c.G|c.B != 0))
}

func (self *Display) Display() error {
	return errors.Annotate(self.dev.Draw(self.img.Bounds(), self.img, image.Point{}), "ssd1306 draw")
}
