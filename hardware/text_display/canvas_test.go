package text_display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

type fakeOLED struct {
	w, h     int16
	pix      []color.RGBA
	displays int
}

func newFakeOLED(w, h int16) *fakeOLED {
	return &fakeOLED{w: w, h: h, pix: make([]color.RGBA, int(w)*int(h))}
}

func (self *fakeOLED) Size() (x, y int16) { return self.w, self.h }
func (self *fakeOLED) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= self.w || y >= self.h {
		return
	}
	self.pix[int(y)*int(self.w)+int(x)] = c
}
func (self *fakeOLED) Display() error { self.displays++; return nil }

func (self *fakeOLED) lit(x0, y0, x1, y1 int16) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if self.pix[int(y)*int(self.w)+int(x)] == ColorForeground {
				n++
			}
		}
	}
	return n
}

func TestCanvas(t *testing.T) {
	t.Parallel()

	oled := newFakeOLED(128, 64)
	c, err := NewCanvas(oled, nil, 0)
	require.NoError(t, err)
	_, outbox := tinyfont.LineWidth(&proggy.TinySZ8pt7b, "0")
	assert.Equal(t, uint32(128/int16(outbox)), c.Columns())

	c.Clear()
	assert.Equal(t, 0, oled.lit(0, 0, 128, 64))
	assert.True(t, c.CursorYX(2, 1))
	c.Write([]byte("Media"))
	assert.Equal(t, 0, oled.lit(0, 0, 128, DefaultLineHeight), "first line untouched")
	assert.NotZero(t, oled.lit(0, DefaultLineHeight, 128, 2*DefaultLineHeight))

	// rewrite with spaces erases
	c.CursorYX(2, 1)
	c.Write([]byte("     "))
	assert.Equal(t, 0, oled.lit(0, 0, 128, 64))

	assert.False(t, c.CursorYX(6, 1))
	assert.False(t, c.CursorYX(0, 1))
	require.NoError(t, c.Flush())
	assert.Equal(t, 1, oled.displays)
}

func TestCanvasTextDisplay(t *testing.T) {
	t.Parallel()

	oled := newFakeOLED(128, 32)
	c, err := NewCanvas(oled, nil, 0)
	require.NoError(t, err)
	d, err := NewTextDisplay(&TextDisplayConfig{Width: c.Columns()})
	require.NoError(t, err)
	d.SetDevice(c)
	d.ShowScreen("Media", "Volume")
	assert.NotZero(t, oled.lit(0, 0, 128, DefaultLineHeight))
	assert.NotZero(t, oled.lit(0, DefaultLineHeight, 128, 2*DefaultLineHeight))
	assert.Equal(t, 1, oled.displays)
}
