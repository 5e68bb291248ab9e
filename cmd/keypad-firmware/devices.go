//go:build tinygo

package main

import (
	"machine"
	"machine/usb/hid/keyboard"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/keypad/hardware/hid"
	"github.com/temoto/keypad/hardware/input"
	"tinygo.org/x/drivers/encoders"
	drivers_tone "tinygo.org/x/drivers/tone"
)

// pinKeys samples key switches (pressed = low, internal pull-up) and encoder push switch.
type pinKeys struct {
	pins    []machine.Pin
	sw      machine.Pin
	scanner *input.Scanner
	swDeb   *input.Switch
	edges   int
}

func newPinKeys(pins []machine.Pin, sw machine.Pin, debounce time.Duration) *pinKeys {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	sw.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &pinKeys{
		pins:    pins,
		sw:      sw,
		scanner: input.NewScanner(len(pins), debounce),
		swDeb:   input.NewSwitch(debounce),
	}
}

func (self *pinKeys) Scan(now time.Time) error {
	var raw uint64
	for i, p := range self.pins {
		if !p.Get() {
			raw |= 1 << uint(i)
		}
	}
	self.scanner.Scan(now, raw)
	if self.swDeb.Update(now, !self.sw.Get()) {
		self.edges++
	}
	return nil
}

func (self *pinKeys) PollKey() *input.KeyEvent { return self.scanner.PollKey() }

func (self *pinKeys) SwitchEdge() bool {
	if self.edges > 0 {
		self.edges--
		return true
	}
	return false
}

type pinEncoder struct {
	rot  *encoders.QuadratureDevice
	keys *pinKeys
}

// MacroPad encoder counts up counter-clockwise
func (self *pinEncoder) Position() int    { return -self.rot.Position() }
func (self *pinEncoder) SwitchEdge() bool { return self.keys.SwitchEdge() }
func (self *pinEncoder) SwitchDown() bool { return self.keys.swDeb.IsDown() }

// usbKeyboard sends chords through TinyGo USB HID keyboard.
type usbKeyboard struct {
	k *keyboard.Keyboard
}

var _ hid.Keyboard = usbKeyboard{}

func newUSBKeyboard() usbKeyboard { return usbKeyboard{k: keyboard.Port()} }

func chordCodes(c hid.Chord) []keyboard.Keycode {
	codes := make([]keyboard.Keycode, 0, 8+len(c.Keys))
	for bit := 0; bit < 8; bit++ {
		if c.Modifiers&(1<<uint(bit)) != 0 {
			codes = append(codes, keyboard.Keycode(0xE000|1<<uint(bit)))
		}
	}
	for _, k := range c.Keys {
		codes = append(codes, keyboard.Keycode(0xF000|uint16(k)))
	}
	return codes
}

func (self usbKeyboard) Press(c hid.Chord) error {
	for _, code := range chordCodes(c) {
		if err := self.k.Down(code); err != nil {
			return errors.Annotatef(err, "usb hid down code=%04x", uint16(code))
		}
	}
	return nil
}

func (self usbKeyboard) Release(c hid.Chord) error {
	codes := chordCodes(c)
	for i := len(codes) - 1; i >= 0; i-- {
		if err := self.k.Up(codes[i]); err != nil {
			return errors.Annotatef(err, "usb hid up code=%04x", uint16(codes[i]))
		}
	}
	return nil
}

func (self usbKeyboard) Volume(delta int) error {
	code := keyboard.KeyMediaVolumeInc
	if delta < 0 {
		code = keyboard.KeyMediaVolumeDec
		delta = -delta
	}
	for i := 0; i < delta; i++ {
		if err := self.k.Press(code); err != nil {
			return errors.Annotate(err, "usb hid volume")
		}
	}
	return nil
}

// speaker plays square wave through PWM, amplifier is enabled only while playing.
type speaker struct {
	s      drivers_tone.Speaker
	enable machine.Pin
}

func newSpeaker(pin, enable machine.Pin) (*speaker, error) {
	enable.Configure(machine.PinConfig{Mode: machine.PinOutput})
	enable.Low()
	s, err := drivers_tone.New(machine.PWM0, pin)
	if err != nil {
		return nil, errors.Annotate(err, "tone pwm")
	}
	return &speaker{s: s, enable: enable}, nil
}

func (self *speaker) Play(freq float64, d time.Duration) {
	if freq > 0 {
		self.enable.High()
		self.s.SetPeriod(uint64(1e9 / freq))
	}
	time.Sleep(d)
	self.s.Stop()
	self.enable.Low()
}
