//go:build !tinygo

package input

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const (
	evKey   uint16 = 0x01
	evRel   uint16 = 0x02
	relDial uint16 = 0x07
	relWhl  uint16 = 0x08
)

// DevInput reads a Linux input device, e.g. USB macropad in HID mode or GPIO keys with
// rotary-encoder overlay. Mapped key codes become KeyEvents, RelCodes move encoder position,
// SwitchCode press is encoder push edge.
type DevInput struct {
	f          io.ReadCloser
	name       string
	keymap     map[uint16]int
	switchCode uint16
	relCodes   map[uint16]struct{}
	pos        int64
	edges      int32
	down       int32
}

type DevInputConfig struct {
	// Keymap[i] is evdev key code of key number i.
	Keymap     []uint16
	SwitchCode uint16
	// Zero value selects REL_DIAL and REL_WHEEL.
	RelCodes []uint16
}

// compile-time interface compliance test
var _ Source = new(DevInput)
var _ EncoderSource = new(DevInput)
var _ SwitchHolder = new(DevInput)

func OpenDevInput(device string, cfg DevInputConfig) (*DevInput, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open", DevInputEventTag)
	}
	return NewDevInput(f, device, cfg), nil
}

func NewDevInput(r io.ReadCloser, name string, cfg DevInputConfig) *DevInput {
	self := &DevInput{
		f:          r,
		name:       name,
		keymap:     make(map[uint16]int, len(cfg.Keymap)),
		switchCode: cfg.SwitchCode,
		relCodes:   make(map[uint16]struct{}, 2),
	}
	for i, code := range cfg.Keymap {
		self.keymap[code] = i
	}
	rels := cfg.RelCodes
	if len(rels) == 0 {
		rels = []uint16{relDial, relWhl}
	}
	for _, code := range rels {
		self.relCodes[code] = struct{}{}
	}
	return self
}

func (self *DevInput) String() string { return fmt.Sprintf("%s:%s", DevInputEventTag, self.name) }

func (self *DevInput) Close() error { return self.f.Close() }

// Read blocks until next mapped key event. Encoder events are absorbed into
// Position and SwitchEdge while reading.
func (self *DevInput) Read() (KeyEvent, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return KeyEvent{}, errors.Trace(err)
		}
		switch ie.Type {
		case evKey:
			state := inputevent.KeyEventState(ie.Value)
			if state == inputevent.KeyStateHold {
				continue
			}
			down := state == inputevent.KeyStateDown
			if self.switchCode != 0 && ie.Code == self.switchCode {
				if down {
					atomic.AddInt32(&self.edges, 1)
					atomic.StoreInt32(&self.down, 1)
				} else {
					atomic.StoreInt32(&self.down, 0)
				}
				continue
			}
			if key, ok := self.keymap[ie.Code]; ok {
				return KeyEvent{Key: key, Pressed: down}, nil
			}
		case evRel:
			if _, ok := self.relCodes[ie.Code]; ok {
				atomic.AddInt64(&self.pos, int64(ie.Value))
			}
		}
	}
}

func (self *DevInput) Position() int    { return int(atomic.LoadInt64(&self.pos)) }
func (self *DevInput) SwitchEdge() bool { return takeEdge(&self.edges) }
func (self *DevInput) SwitchDown() bool { return atomic.LoadInt32(&self.down) != 0 }
