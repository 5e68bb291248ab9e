package hid

import (
	"io"
	"os"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/keypad/helpers"
	"github.com/temoto/keypad/log2"
)

// Keyboard sends key actions to the host computer.
type Keyboard interface {
	Press(c Chord) error
	Release(c Chord) error
	// Volume taps volume up (delta>0) or down |delta| times.
	Volume(delta int) error
}

// ReportWriter writes boot keyboard reports, e.g. into Linux USB gadget /dev/hidg0.
// Held chords are merged, so overlapping key presses produce correct reports.
type ReportWriter struct {
	mu   sync.Mutex
	w    io.Writer
	held []Chord
}

// compile-time interface compliance test
var _ Keyboard = new(ReportWriter)

func NewReportWriter(w io.Writer) *ReportWriter { return &ReportWriter{w: w} }

func OpenGadget(path string) (*ReportWriter, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "hid gadget open path=%s", path)
	}
	return NewReportWriter(f), f, nil
}

func (self *ReportWriter) Press(c Chord) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.held = append(self.held, c)
	return self.flush()
}

func (self *ReportWriter) Release(c Chord) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	for i := range self.held {
		if chordEqual(self.held[i], c) {
			self.held = append(self.held[:i], self.held[i+1:]...)
			break
		}
	}
	return self.flush()
}

func (self *ReportWriter) Volume(delta int) error {
	key := KeyVolumeUp
	if delta < 0 {
		key = KeyVolumeDown
		delta = -delta
	}
	c := Chord{Keys: []byte{key}}
	for i := 0; i < delta; i++ {
		if err := self.Press(c); err != nil {
			return err
		}
		if err := self.Release(c); err != nil {
			return err
		}
	}
	return nil
}

// merged report of all held chords, key slots beyond 6 are dropped
func (self *ReportWriter) flush() error {
	var r Report
	slot := 2
	for _, c := range self.held {
		r[0] |= c.Modifiers
		for _, k := range c.Keys {
			if slot < ReportSize {
				r[slot] = k
				slot++
			}
		}
	}
	if err := helpers.WriteAll(self.w, r[:]); err != nil {
		return errors.Annotate(err, "hid report write")
	}
	return nil
}

func chordEqual(a, b Chord) bool {
	if a.Modifiers != b.Modifiers || len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		if a.Keys[i] != b.Keys[i] {
			return false
		}
	}
	return true
}

// LogKeyboard only logs, for simulator and hosts without USB gadget.
type LogKeyboard struct {
	Log *log2.Log
}

// compile-time interface compliance test
var _ Keyboard = LogKeyboard{}

func (self LogKeyboard) Press(c Chord) error {
	self.Log.Infof("hid press %s", c)
	return nil
}
func (self LogKeyboard) Release(c Chord) error {
	self.Log.Debugf("hid release %s", c)
	return nil
}
func (self LogKeyboard) Volume(delta int) error {
	self.Log.Infof("hid volume %+d", delta)
	return nil
}
