package framebuffer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"
)

// compile-time interface compliance test
var _ drivers.Displayer = new(Framebuffer)

func TestRGB565(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  color.RGBA
		expect uint16
	}{
		{color.RGBA{0, 0, 0, 0}, 0},
		{color.RGBA{0, 0, 0, 0xff}, 0},
		{color.RGBA{0xff, 0xff, 0xff, 0xff}, 0xffff},
		{color.RGBA{0xff, 0x00, 0x00, 0xff}, 0xf800},
		{color.RGBA{0x00, 0xff, 0x00, 0xff}, 0x07e0},
		{color.RGBA{0x00, 0x00, 0xff, 0xff}, 0x001f},
		{color.RGBA{0x0c, 0x0c, 0x0c, 0xff}, 0x0861},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, encode565(c.input), c.input)
	}
}

func testVinfo(model variableScreenInfo, w, h, bpp uint32) variableScreenInfo {
	v := model
	v.Xres, v.Yres, v.Bits_per_pixel = w, h, bpp
	return v
}

func TestFramebufferDisplay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		vinfo  variableScreenInfo
		stride uint32
		expect []byte
	}{
		{"rgb565", testVinfo(rgb565, 2, 2, 16), 0,
			[]byte{0, 0, 0x00, 0xf8, 0xe0, 0x07, 0, 0}},
		{"rgb565/padded", testVinfo(rgb565, 2, 2, 16), 6,
			[]byte{0, 0, 0x00, 0xf8, 0, 0, 0xe0, 0x07, 0, 0, 0, 0}},
		{"xrgb8888", testVinfo(xrgb8888, 2, 2, 32), 0,
			[]byte{0, 0, 0, 0, 0, 0, 0xff, 0, 0, 0xff, 0, 0, 0, 0, 0, 0}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "fb")
			f, err := os.Create(path)
			require.NoError(t, err)
			defer f.Close()

			fb, err := newFramebuffer(f, c.vinfo, c.stride)
			require.NoError(t, err)
			x, y := fb.Size()
			assert.Equal(t, int16(2), x)
			assert.Equal(t, int16(2), y)
			fb.SetPixel(1, 0, color.RGBA{0xff, 0, 0, 0xff})
			fb.SetPixel(0, 1, color.RGBA{0, 0xff, 0, 0xff})
			fb.SetPixel(2, 0, color.RGBA{0xff, 0xff, 0xff, 0xff}) // out of bounds ignored
			fb.SetPixel(-1, 1, color.RGBA{0xff, 0xff, 0xff, 0xff})
			require.NoError(t, fb.Display())

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, c.expect, b)
			assert.NoError(t, fb.Close())
		})
	}
}

func TestFramebufferUnsupported(t *testing.T) {
	t.Parallel()

	v := testVinfo(variableScreenInfo{}, 8, 8, 8)
	_, err := newFramebuffer(nil, v, 0)
	require.Error(t, err)
	assert.True(t, errors.IsNotSupported(err))
}
