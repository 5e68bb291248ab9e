//go:build !tinygo

package text_display

import (
	"time"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
)

type Command byte

const (
	CommandClear   Command = 0x01
	CommandControl Command = 0x08
	CommandAddress Command = 0x80
)

type Control byte

const (
	ControlOn         Control = 0x04
	ControlUnderscore Control = 0x02
	ControlBlink      Control = 0x01
)
const ddramWidth = 0x40

const lcdConsumer = "keypad-lcd"

// HD44780 is character LCD in 4-bit mode wired to Linux GPIO lines.
// Pin errors are remembered and reported by Flush.
type HD44780 struct {
	control Control
	width   uint8
	lines   gpio.Lineser
	err     error
	sleep   func(time.Duration)
	pin_rs  gpio.LineSetFunc // command/data, aliases: A0, RS
	pin_rw  gpio.LineSetFunc // read/write
	pin_e   gpio.LineSetFunc // enable
	pin_d4  gpio.LineSetFunc
	pin_d5  gpio.LineSetFunc
	pin_d6  gpio.LineSetFunc
	pin_d7  gpio.LineSetFunc
}

// compile-time interface compliance test
var _ Devicer = new(HD44780)
var _ Flusher = new(HD44780)

// NewHD44780 requests output lines, call Init before use.
func NewHD44780(chip gpio.Chiper, pinmap PinMap, width uint8) (*HD44780, error) {
	if width == 0 || width > MaxWidth {
		return nil, errors.NotValidf("hd44780 width=%d max=%d", width, MaxWidth)
	}
	offsets, err := pinmap.Offsets()
	if err != nil {
		return nil, err
	}
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, lcdConsumer, offsets...)
	if err != nil {
		return nil, errors.Annotatef(err, "hd44780 open lines=%v", offsets)
	}
	self := &HD44780{
		width:  width,
		lines:  lines,
		sleep:  time.Sleep,
		pin_rs: lines.SetFunc(offsets[0]),
		pin_rw: lines.SetFunc(offsets[1]),
		pin_e:  lines.SetFunc(offsets[2]),
		pin_d4: lines.SetFunc(offsets[3]),
		pin_d5: lines.SetFunc(offsets[4]),
		pin_d6: lines.SetFunc(offsets[5]),
		pin_d7: lines.SetFunc(offsets[6]),
	}
	return self, nil
}

// Init runs 4-bit initialization sequence.
// page1 selects second font table on displays that have one (cyrillic).
func (self *HD44780) Init(page1 bool) error {
	self.sleep(20 * time.Millisecond)

	// special sequence
	self.Command(0x33)
	self.Command(0x32)

	self.SetFunction(false, page1)
	self.SetControl(0) // off
	self.SetControl(ControlOn)
	self.Clear()
	self.SetEntryMode(true, false)
	return errors.Annotate(self.Flush(), "hd44780 init")
}

func (self *HD44780) Close() error { return self.lines.Close() }

// Flush returns first pin error since last call.
func (self *HD44780) Flush() error {
	err := self.err
	self.err = nil
	return err
}

func (self *HD44780) flushPins() {
	if err := self.lines.Flush(); err != nil && self.err == nil {
		self.err = errors.Annotate(err, "hd44780 flush")
	}
}

func (self *HD44780) setAllPins(b byte) {
	self.pin_rs(b)
	self.pin_rw(b)
	self.pin_e(b)
	self.pin_d4(b)
	self.pin_d5(b)
	self.pin_d6(b)
	self.pin_d7(b)
	self.flushPins()
}

func (self *HD44780) blinkE() {
	self.pin_e(1)
	self.flushPins()
	self.sleep(1 * time.Microsecond)
	self.pin_e(0)
	self.flushPins()
	self.sleep(1 * time.Microsecond)
}

func (self *HD44780) send4(rs, d4, d5, d6, d7 byte) {
	self.pin_rs(rs)
	self.pin_d4(d4)
	self.pin_d5(d5)
	self.pin_d6(d6)
	self.pin_d7(d7)
	self.blinkE()
}

func bb(b, bit byte) byte {
	if b&(1<<bit) == 0 {
		return 0
	}
	return 1
}

func (self *HD44780) Command(c Command) {
	b := byte(c)
	self.send4(0, bb(b, 4), bb(b, 5), bb(b, 6), bb(b, 7))
	self.send4(0, bb(b, 0), bb(b, 1), bb(b, 2), bb(b, 3))
	// TODO poll busy flag, needs RW line switched to input
	self.sleep(40 * time.Microsecond)
	self.setAllPins(0)
}

func (self *HD44780) Data(b byte) {
	self.send4(1, bb(b, 4), bb(b, 5), bb(b, 6), bb(b, 7))
	self.send4(1, bb(b, 0), bb(b, 1), bb(b, 2), bb(b, 3))
	self.sleep(40 * time.Microsecond)
	self.setAllPins(0)
}

func (self *HD44780) Write(bs []byte) {
	for _, b := range bs {
		self.Data(b)
	}
}

func (self *HD44780) Clear() {
	self.Command(CommandClear)
	self.sleep(2 * time.Millisecond)
}

func (self *HD44780) SetEntryMode(right, shift bool) {
	var cmd Command = 0x04
	if right {
		cmd |= 0x02
	}
	if shift {
		cmd |= 0x01
	}
	self.Command(cmd)
}

func (self *HD44780) Control() Control {
	return self.control
}
func (self *HD44780) SetControl(new Control) Control {
	old := self.control
	self.control = new
	self.Command(CommandControl | Command(new))
	return old
}

func (self *HD44780) SetFunction(bits8, page1 bool) {
	var cmd Command = 0x28
	if bits8 {
		cmd |= 0x10
	}
	if page1 {
		cmd |= 0x02
	}
	self.Command(cmd)
}

func (self *HD44780) CursorYX(row uint8, column uint8) bool {
	if !(row > 0 && row <= 2) {
		return false
	}
	if !(column > 0 && column <= self.width) {
		return false
	}
	addr := (row-1)*ddramWidth + (column - 1)
	self.Command(CommandAddress | Command(addr))
	return true
}
