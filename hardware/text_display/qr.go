//go:build !tinygo

package text_display

import (
	"image"

	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"
)

// compile-time interface compliance test
var _ Imager = new(Canvas)

func (self *Canvas) QR(text string) error { return self.DrawQR(text, qrcode.Medium) }

// DrawQR draws text as QR code centered on display, lit quiet zone, dark modules.
func (self *Canvas) DrawQR(text string, level qrcode.RecoveryLevel) error {
	qr, err := qrcode.New(text, level)
	if err != nil {
		return errors.Annotate(err, "QR")
	}
	w, h := self.d.Size()
	size := int(w)
	if h < w {
		size = int(h)
	}
	img, ok := qr.Image(size).(*image.Paletted)
	if !ok {
		return errors.NotSupportedf("QR image type")
	}
	if img.Rect.Dx() > int(w) || img.Rect.Dy() > int(h) {
		return errors.Errorf("QR image size=%s > display size=%dx%d", img.Bounds().Max.String(), w, h)
	}

	self.fill(0, 0, w, h)
	dx := (int(w) - img.Rect.Dx()) / 2
	dy := (int(h) - img.Rect.Dy()) / 2
	min, max := img.Bounds().Min, img.Bounds().Max
	for y := min.Y; y < max.Y; y++ {
		for x := min.X; x < max.X; x++ {
			c := ColorForeground
			if img.Pix[img.PixOffset(x, y)] != 0 {
				c = ColorBackground
			}
			self.d.SetPixel(int16(x-min.X+dx), int16(y-min.Y+dy), c)
		}
	}
	return self.Flush()
}
