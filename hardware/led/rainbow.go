package led

import "time"

// PixelBuffer is the strip as seen by effects. Owned by hardware, effects keep a reference.
type PixelBuffer interface {
	Len() int
	Set(i int, c RGB)
	Show()
}

const (
	DefaultSpeed    = 2
	DefaultInterval = 50 * time.Millisecond
)

type RainbowConfig struct {
	Speed    int
	Interval time.Duration
	// Hue distance between neighbour pixels, 0 = 256/Len() spreads one full cycle over the strip.
	Stride int
}

// Rainbow is time-gated: Update draws a frame only after Interval since the last one.
type Rainbow struct {
	buf      PixelBuffer
	speed    int
	interval time.Duration
	stride   int
	offset   uint8
	last     time.Time
}

func NewRainbow(buf PixelBuffer, cfg RainbowConfig, now time.Time) *Rainbow {
	stride := cfg.Stride
	if stride == 0 {
		stride = DeriveStride(buf.Len())
	}
	return &Rainbow{
		buf:      buf,
		speed:    cfg.Speed,
		interval: cfg.Interval,
		stride:   stride,
		last:     now,
	}
}

// DeriveStride returns 256/n, 21 for a 12 key pad.
func DeriveStride(n int) int {
	if n <= 0 {
		return 0
	}
	return 256 / n
}

func (self *Rainbow) Offset() uint8   { return self.offset }
func (self *Rainbow) Stride() int     { return self.stride }
func (self *Rainbow) Last() time.Time { return self.last }

// Update returns true when a frame was drawn.
func (self *Rainbow) Update(now time.Time) bool {
	if now.Sub(self.last) < self.interval {
		return false
	}
	self.last = now

	n := self.buf.Len()
	for i := 0; i < n; i++ {
		self.buf.Set(i, WheelByte(uint8((int(self.offset)+i*self.stride)&255)))
	}
	self.buf.Show()

	self.offset = uint8((int(self.offset) + self.speed) & 255)
	return true
}
