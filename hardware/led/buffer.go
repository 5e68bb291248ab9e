package led

import (
	"image/color"

	"github.com/juju/errors"
	"github.com/temoto/keypad/log2"
)

// DefaultBrightness keeps 12 pixels at full white within USB power budget.
const DefaultBrightness = 0.125

// Writer is a strip driver, e.g. tinygo.org/x/drivers/ws2812.Device.
type Writer interface {
	WriteColors(buf []color.RGBA) error
}

// MemBuffer keeps full-scale colors and applies brightness on Show.
type MemBuffer struct {
	Log        *log2.Log
	pixels     []RGB
	out        []color.RGBA
	brightness float64
	w          Writer
	shows      uint32
	err        error
}

// compile-time interface compliance test
var _ PixelBuffer = new(MemBuffer)

func NewMemBuffer(log *log2.Log, n int, brightness float64, w Writer) *MemBuffer {
	self := &MemBuffer{
		Log:    log,
		pixels: make([]RGB, n),
		out:    make([]color.RGBA, n),
		w:      w,
	}
	self.SetBrightness(brightness)
	return self
}

func (self *MemBuffer) Len() int { return len(self.pixels) }

func (self *MemBuffer) Set(i int, c RGB) {
	if i < 0 || i >= len(self.pixels) {
		self.Log.Errorf("led set index=%d len=%d", i, len(self.pixels))
		return
	}
	self.pixels[i] = c
}

func (self *MemBuffer) Get(i int) RGB { return self.pixels[i] }

// Pixels returns a copy of full-scale colors.
func (self *MemBuffer) Pixels() []RGB { return append([]RGB(nil), self.pixels...) }

func (self *MemBuffer) Fill(c RGB) {
	for i := range self.pixels {
		self.pixels[i] = c
	}
}

func (self *MemBuffer) SetBrightness(b float64) {
	switch {
	case b < 0:
		b = 0
	case b > 1:
		b = 1
	}
	self.brightness = b
}

func (self *MemBuffer) Brightness() float64 { return self.brightness }

// Show scales colors and writes them out. Writer failure is logged and remembered in Err.
func (self *MemBuffer) Show() {
	self.shows++
	for i, c := range self.pixels {
		self.out[i] = color.RGBA{
			R: scale(c.R, self.brightness),
			G: scale(c.G, self.brightness),
			B: scale(c.B, self.brightness),
			A: 0xff,
		}
	}
	if self.w == nil {
		return
	}
	if err := self.w.WriteColors(self.out); err != nil {
		self.err = errors.Annotate(err, "led show")
		self.Log.Error(self.err)
	}
}

// Scaled returns what the last Show sent to the strip.
func (self *MemBuffer) Scaled() []color.RGBA { return append([]color.RGBA(nil), self.out...) }

func (self *MemBuffer) Shows() uint32 { return self.shows }
func (self *MemBuffer) Err() error    { return self.err }

func scale(v uint8, b float64) uint8 {
	return uint8(float64(v)*b + 0.5)
}
