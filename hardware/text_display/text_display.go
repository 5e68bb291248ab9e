// Package text_display shows current screen name and encoder mode
// on a two-line character display. Names longer than display width scroll.
package text_display

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keypad/log2"
)

const MaxWidth = 40
const DefaultWidth = 16

var spaceBytes = bytes.Repeat([]byte{' '}, MaxWidth)

type TextDisplay struct { //nolint:maligned
	Log   *log2.Log
	alive *alive.Alive
	mu    sync.Mutex
	dev   Devicer
	tr    atomic.Value
	width uint32
	state State
	text  [2]string
	// image replaced text, next flush clears device first
	image bool

	tickd time.Duration
	tick  uint32
	upd   chan<- State
}

type TextDisplayConfig struct {
	Codepage    string
	ScrollDelay time.Duration
	Width       uint32
}

type Devicer interface {
	Clear()
	CursorYX(y, x uint8) bool
	Write(b []byte)
}

// Flusher is optional Devicer extension for framebuffer devices,
// called once after both lines are written.
type Flusher interface {
	Flush() error
}

// Imager is optional Devicer extension for graphic displays.
type Imager interface {
	QR(text string) error
}

func NewTextDisplay(opt *TextDisplayConfig) (*TextDisplay, error) {
	if opt == nil {
		opt = &TextDisplayConfig{}
	}
	width := opt.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width > MaxWidth {
		return nil, errors.NotValidf("display width=%d max=%d", width, MaxWidth)
	}
	self := &TextDisplay{
		alive: alive.NewAlive(),
		dev:   nullDevicer{},
		tickd: opt.ScrollDelay,
		width: width,
	}

	if opt.Codepage != "" {
		if err := self.SetCodepage(opt.Codepage); err != nil {
			return nil, errors.Annotatef(err, "display codepage=%s", opt.Codepage)
		}
	}

	return self, nil
}

func (self *TextDisplay) SetCodepage(cp string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return err
	}
	self.tr.Store(tr)
	return nil
}
func (self *TextDisplay) SetDevice(dev Devicer) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.dev = dev
}

func (self *TextDisplay) Width() uint32 { return atomic.LoadUint32(&self.width) }

func (self *TextDisplay) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.state.Clear()
	self.text = [2]string{}
	self.flush()
}

// Message temporarily replaces both lines while wait() runs, e.g. greeting during startup melody.
func (self *TextDisplay) Message(s1, s2 string, wait func()) {
	next := State{
		L1: self.Translate(s1),
		L2: self.Translate(s2),
	}

	self.mu.Lock()
	prev := self.state
	self.state = next
	self.flush()
	self.mu.Unlock()

	wait()

	self.mu.Lock()
	self.state = prev
	self.flush()
	self.mu.Unlock()
}

// nil: don't change
// len=0: set empty
func (self *TextDisplay) SetLinesBytes(b1, b2 []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if b1 != nil {
		self.state.L1 = b1
	}
	if b2 != nil {
		self.state.L2 = b2
	}
	atomic.StoreUint32(&self.tick, 0)
	self.flush()
}

func (self *TextDisplay) SetLines(line1, line2 string) {
	self.SetLinesBytes(
		self.Translate(line1),
		self.Translate(line2))

	self.mu.Lock()
	defer self.mu.Unlock()
	if self.text[0] != line1 {
		self.text[0] = line1
		self.Log.Debugf("display.L1=%s", line1)
	}
	if self.text[1] != line2 {
		self.text[1] = line2
		self.Log.Debugf("display.L2=%s", line2)
	}
}

// ShowScreen puts screen name centered on first line and encoder mode on second.
func (self *TextDisplay) ShowScreen(name, mode string) {
	self.SetLinesBytes(
		self.JustCenter(self.Translate(name+"\x00")),
		self.Translate("mode: "+mode))

	self.mu.Lock()
	self.text = [2]string{name, mode}
	self.mu.Unlock()
	self.Log.Debugf("display screen=%s mode=%s", name, mode)
}

// ShowQR replaces text with QR code until next text update.
// Character devices return NotSupported error.
func (self *TextDisplay) ShowQR(text string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	im, ok := self.dev.(Imager)
	if !ok {
		return errors.NotSupportedf("display QR")
	}
	self.image = true
	self.Log.Debugf("display qr=%s", text)
	return im.QR(text)
}

func (self *TextDisplay) Tick() {
	self.mu.Lock()
	defer self.mu.Unlock()

	atomic.AddUint32(&self.tick, 1)
	if !self.image {
		self.flush()
	}
}

// Run scrolls long lines until Stop. Zero scroll delay disables scrolling.
func (self *TextDisplay) Run() {
	self.mu.Lock()
	delay := self.tickd
	self.mu.Unlock()
	if delay == 0 {
		return
	}
	tmr := time.NewTicker(delay)
	defer tmr.Stop()
	stopch := self.alive.StopChan()

	for self.alive.IsRunning() {
		select {
		case <-tmr.C:
			self.Tick()
		case <-stopch:
			return
		}
	}
}

func (self *TextDisplay) Alive() *alive.Alive { return self.alive }
func (self *TextDisplay) Stop()               { self.alive.Stop() }

// sometimes returns slice into shared spaceBytes
// sometimes returns `b` (len>=width-1)
// sometimes allocates new buffer
func (self *TextDisplay) JustCenter(b []byte) []byte {
	l := len(b)
	w := int(atomic.LoadUint32(&self.width))

	if l == 0 {
		return spaceBytes[:w]
	}
	if l >= w-1 {
		return b
	}
	padtotal := w - l
	n := padtotal / 2
	buf := make([]byte, 0, w)
	buf = append(append(append(buf, spaceBytes[:n]...), b...), spaceBytes[:n+padtotal%2]...)
	return buf
}

// returns `b` when len>=width
// otherwise pads with spaces
func (self *TextDisplay) PadRight(b []byte) []byte {
	return PadSpace(b, self.Width())
}

// Translate converts to display codepage and pads to width.
// Trailing \x00 disables padding.
func (self *TextDisplay) Translate(s string) []byte {
	if len(s) == 0 {
		return spaceBytes[:0]
	}

	pad := true
	if s[len(s)-1] == '\x00' {
		pad = false
		s = s[:len(s)-1]
	}

	result := []byte(s)
	tr, ok := self.tr.Load().(charset.Translator)
	if ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			self.Log.Errorf("display translate s=%q err=%v", s, err)
		} else {
			// translator reuses single internal buffer, make a copy
			result = append([]byte(nil), tb...)
		}
	}

	if pad {
		result = self.PadRight(result)
	}
	return result
}

func (self *TextDisplay) SetUpdateChan(ch chan<- State) {
	self.mu.Lock()
	self.upd = ch
	self.mu.Unlock()
}

func (self *TextDisplay) State() State {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.state.Copy()
}

func (self *TextDisplay) flush() {
	var buf1 [MaxWidth]byte
	var buf2 [MaxWidth]byte
	b1 := buf1[:self.width]
	b2 := buf2[:self.width]
	tick := atomic.LoadUint32(&self.tick)
	n1 := scrollWrap(b1, self.state.L1, tick)
	if self.image {
		self.image = false
		self.dev.Clear()
	}
	n2 := scrollWrap(b2, self.state.L2, tick)

	// rewrite without clear, looks smoother
	if n1 < self.width {
		self.dev.CursorYX(1, 1)
		self.dev.Write(spaceBytes[:self.width])
	}
	if len(self.state.L1) > 0 {
		self.dev.CursorYX(1, 1)
		self.dev.Write(b1[:n1])
	}
	if n2 < self.width {
		self.dev.CursorYX(2, 1)
		self.dev.Write(spaceBytes[:self.width])
	}
	if len(self.state.L2) > 0 {
		self.dev.CursorYX(2, 1)
		self.dev.Write(b2[:n2])
	}
	if f, ok := self.dev.(Flusher); ok {
		if err := f.Flush(); err != nil {
			self.Log.Errorf("display flush err=%v", err)
		}
	}

	if self.upd != nil {
		self.upd <- self.state.Copy()
	}
}

type State struct {
	L1, L2 []byte
}

func (s *State) Clear() {
	s.L1 = nil
	s.L2 = nil
}

func (s State) Copy() State {
	return State{
		L1: append([]byte(nil), s.L1...),
		L2: append([]byte(nil), s.L2...),
	}
}

func (s State) Format(width uint32) string {
	return fmt.Sprintf("%s\n%s",
		PadSpace(s.L1, width),
		PadSpace(s.L2, width),
	)
}

func (s State) String() string {
	return fmt.Sprintf("%s\n%s", s.L1, s.L2)
}

func PadSpace(b []byte, width uint32) []byte {
	l := uint32(len(b))

	if l == 0 {
		return spaceBytes[:width]
	}
	if l >= width {
		return b
	}
	buf := make([]byte, 0, width)
	buf = append(append(buf, b...), spaceBytes[:width-l]...)
	return buf
}

// relies that len(buf) == display width
func scrollWrap(buf []byte, content []byte, tick uint32) uint32 {
	length := uint32(len(content))
	width := uint32(len(buf))
	gap := width / 2
	n := 0
	if length <= width {
		n = copy(buf, content)
		copy(buf[n:], spaceBytes)
		return uint32(n)
	}

	offset := tick % (length + gap)
	if offset < length {
		n = copy(buf, content[offset:])
	} else {
		gap = gap - (offset - length)
	}
	n += copy(buf[n:], spaceBytes[:gap])
	n += copy(buf[n:], content[0:])
	return uint32(n)
}

type nullDevicer struct{}

func (nullDevicer) Clear()                   {}
func (nullDevicer) CursorYX(y, x uint8) bool { return true }
func (nullDevicer) Write(b []byte)           {}
