package text_display

import (
	"image/color"

	"github.com/juju/errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const DefaultLineHeight = 12

var (
	ColorBackground = color.RGBA{0, 0, 0, 0xff}
	ColorForeground = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Canvas draws text lines onto pixel display (SH1106 OLED on MacroPad).
// Implements Devicer and Flusher.
type Canvas struct {
	d          drivers.Displayer
	font       tinyfont.Fonter
	charWidth  int16
	lineHeight int16
	baseline   int16
	y, x       uint8
}

// compile-time interface compliance test
var _ Devicer = new(Canvas)
var _ Flusher = new(Canvas)

// NewCanvas with nil font uses proggy TinySZ8pt7b.
func NewCanvas(d drivers.Displayer, font tinyfont.Fonter, lineHeight int16) (*Canvas, error) {
	if font == nil {
		font = &proggy.TinySZ8pt7b
	}
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	if outboxWidth == 0 {
		return nil, errors.NotValidf("font zero width")
	}
	return &Canvas{
		d:          d,
		font:       font,
		charWidth:  int16(outboxWidth),
		lineHeight: lineHeight,
		baseline:   lineHeight - 3,
		y:          1,
		x:          1,
	}, nil
}

// Columns fit into display width.
func (self *Canvas) Columns() uint32 {
	w, _ := self.d.Size()
	return uint32(w / self.charWidth)
}

func (self *Canvas) Clear() {
	w, h := self.d.Size()
	self.fill(0, 0, w, h)
	self.y, self.x = 1, 1
}

func (self *Canvas) CursorYX(y, x uint8) bool {
	_, h := self.d.Size()
	if y < 1 || x < 1 || int16(y)*self.lineHeight > h {
		return false
	}
	self.y, self.x = y, x
	return true
}

// Write draws bytes as single-byte characters at cursor, erasing cell background first.
func (self *Canvas) Write(b []byte) {
	if len(b) == 0 {
		return
	}
	px := int16(self.x-1) * self.charWidth
	py := int16(self.y-1) * self.lineHeight
	self.fill(px, py, px+int16(len(b))*self.charWidth, py+self.lineHeight)
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	tinyfont.WriteLine(self.d, self.font, px, py+self.baseline, string(rs), ColorForeground)
	self.x += uint8(len(b))
}

func (self *Canvas) Flush() error {
	return errors.Annotate(self.d.Display(), "canvas display")
}

func (self *Canvas) fill(x0, y0, x1, y1 int16) {
	w, h := self.d.Size()
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			self.d.SetPixel(x, y, ColorBackground)
		}
	}
}
