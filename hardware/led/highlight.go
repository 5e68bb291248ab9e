package led

// White is the held key color.
var White = RGB{R: 255, G: 255, B: 255}

// Highlight is PixelBuffer on top of another one: held pixels show Color over effect frames.
// Effect colors are remembered, so releasing a key restores its pixel without waiting for a frame.
type Highlight struct {
	Color RGB
	buf   PixelBuffer
	base  []RGB
	held  uint64
	dirty bool
}

// compile-time interface compliance test
var _ PixelBuffer = new(Highlight)

func NewHighlight(buf PixelBuffer, c RGB) *Highlight {
	return &Highlight{
		Color: c,
		buf:   buf,
		base:  make([]RGB, buf.Len()),
	}
}

func (self *Highlight) Len() int { return self.buf.Len() }

func (self *Highlight) Set(i int, c RGB) {
	if i >= 0 && i < len(self.base) {
		self.base[i] = c
	}
	self.buf.Set(i, self.color(i))
}

func (self *Highlight) Show() {
	self.dirty = false
	self.buf.Show()
}

// SetHeld replaces held set, pixels beyond 64 are ignored.
// Returns true when any pixel changed, Flush shows it.
func (self *Highlight) SetHeld(keys []int) bool {
	var mask uint64
	for _, k := range keys {
		if k >= 0 && k < 64 && k < len(self.base) {
			mask |= 1 << uint(k)
		}
	}
	changed := mask ^ self.held
	if changed == 0 {
		return false
	}
	self.held = mask
	for i := range self.base {
		if changed&(1<<uint(i)) != 0 {
			self.buf.Set(i, self.color(i))
		}
	}
	self.dirty = true
	return true
}

func (self *Highlight) Held(i int) bool {
	return i >= 0 && i < 64 && self.held&(1<<uint(i)) != 0
}

// Invalidate makes next Flush show the strip, e.g. after brightness change.
func (self *Highlight) Invalidate() { self.dirty = true }

// Flush shows pending changes, if any.
func (self *Highlight) Flush() bool {
	if !self.dirty {
		return false
	}
	self.Show()
	return true
}

func (self *Highlight) color(i int) RGB {
	if i < 0 || i >= len(self.base) {
		return RGB{}
	}
	if self.Held(i) {
		return self.Color
	}
	return self.base[i]
}
