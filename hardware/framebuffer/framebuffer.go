// Package framebuffer draws onto Linux /dev/fbN, e.g. SPI TFT or OLED with fbtft kernel driver.
// Framebuffer implements tinygo drivers.Displayer so text_display.Canvas works on Linux hosts.
package framebuffer

import (
	"encoding/binary"
	"image/color"
	"io"

	"github.com/juju/errors"
)

type Framebuffer struct {
	buf    []byte
	dev    io.WriterAt
	closer io.Closer
	vinfo  variableScreenInfo
	stride uint32
	word   uint32
	encode func(b []byte, c color.RGBA)
}

func newFramebuffer(dev io.WriterAt, vinfo variableScreenInfo, lineLength uint32) (*Framebuffer, error) {
	fb := &Framebuffer{
		dev:    dev,
		vinfo:  vinfo,
		stride: lineLength,
		word:   vinfo.Bits_per_pixel / 8,
	}
	switch {
	case vinfo.Red == rgb565.Red && vinfo.Green == rgb565.Green && vinfo.Blue == rgb565.Blue:
		fb.encode = func(b []byte, c color.RGBA) { binary.LittleEndian.PutUint16(b, encode565(c)) }
	case vinfo.Red == xrgb8888.Red && vinfo.Green == xrgb8888.Green && vinfo.Blue == xrgb8888.Blue:
		fb.encode = func(b []byte, c color.RGBA) { binary.LittleEndian.PutUint32(b, encode8888(c)) }
	default:
		return nil, errors.NotSupportedf("framebuffer color model bpp=%d red=%v", vinfo.Bits_per_pixel, vinfo.Red)
	}
	if packed := vinfo.Xres * fb.word; fb.stride < packed {
		fb.stride = packed
	}
	fb.buf = make([]byte, fb.stride*vinfo.Yres)
	return fb, nil
}

func (fb *Framebuffer) Close() error {
	if fb.closer == nil {
		return nil
	}
	return fb.closer.Close()
}

func (fb *Framebuffer) Size() (x, y int16) {
	return int16(fb.vinfo.Xres), int16(fb.vinfo.Yres)
}

// SetPixel changes internal buffer, Display writes it to device.
func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || uint32(x) >= fb.vinfo.Xres || uint32(y) >= fb.vinfo.Yres {
		return
	}
	offset := uint32(y)*fb.stride + uint32(x)*fb.word
	fb.encode(fb.buf[offset:], c)
}

func (fb *Framebuffer) Display() error {
	_, err := fb.dev.WriteAt(fb.buf, 0)
	return errors.Annotate(err, "framebuffer write")
}

var rgb565 = variableScreenInfo{
	Red:   bitField{Offset: 11, Length: 5, Right: 0},
	Green: bitField{Offset: 5, Length: 6, Right: 0},
	Blue:  bitField{Offset: 0, Length: 5, Right: 0},
}

var xrgb8888 = variableScreenInfo{
	Red:   bitField{Offset: 16, Length: 8, Right: 0},
	Green: bitField{Offset: 8, Length: 8, Right: 0},
	Blue:  bitField{Offset: 0, Length: 8, Right: 0},
}

func encode565(c color.RGBA) uint16 {
	return (uint16(c.R) & 0xf8 << 8) | (uint16(c.G) & 0xfc << 3) | (uint16(c.B) & 0xf8 >> 3)
}

func encode8888(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
