//go:build !tinygo

package input

import (
	"time"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/temoto/keypad/log2"
)

const GPIOConsumer = "keypad"

// GPIOKeys reads key switches wired to Linux GPIO lines, pressed pulls line low.
// Optional switch line serves as encoder push button.
type GPIOKeys struct {
	Log     *log2.Log
	lines   gpio.Lineser
	n       int
	hasSw   bool
	scanner *Scanner
	sw      *Switch
	edges   int32
}

// compile-time interface compliance test
var _ KeySource = new(GPIOKeys)
var _ SwitchHolder = new(GPIOKeys)

// NewGPIOKeys requests keyLines (key number = index) and switchLine (<0 to skip) as inputs.
func NewGPIOKeys(log *log2.Log, chip gpio.Chiper, keyLines []uint32, switchLine int, debounce time.Duration) (*GPIOKeys, error) {
	offsets := append([]uint32(nil), keyLines...)
	hasSw := switchLine >= 0
	if hasSw {
		offsets = append(offsets, uint32(switchLine))
	}
	if len(offsets) > gpio.GPIOHANDLES_MAX || len(keyLines) > MaxScanKeys {
		return nil, errors.NotValidf("gpio keys=%d too many lines", len(keyLines))
	}
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_INPUT|gpio.GPIOHANDLE_REQUEST_ACTIVE_LOW, GPIOConsumer, offsets...)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open lines=%v", offsets)
	}
	self := &GPIOKeys{
		Log:     log,
		lines:   lines,
		n:       len(keyLines),
		hasSw:   hasSw,
		scanner: NewScanner(len(keyLines), debounce),
		sw:      NewSwitch(debounce),
	}
	return self, nil
}

func (self *GPIOKeys) Close() error { return self.lines.Close() }

// Scan samples all lines once, call every loop iteration before polling.
func (self *GPIOKeys) Scan(now time.Time) error {
	data, err := self.lines.Read()
	if err != nil {
		return errors.Annotate(err, "gpio keys read")
	}
	var raw uint64
	for i := 0; i < self.n; i++ {
		if data.Values[i] != 0 {
			raw |= 1 << uint(i)
		}
	}
	self.scanner.Scan(now, raw)
	if self.hasSw && self.sw.Update(now, data.Values[self.n] != 0) {
		self.edges++
	}
	return nil
}

func (self *GPIOKeys) PollKey() *KeyEvent { return self.scanner.PollKey() }

// SwitchEdge reports one pending push per call.
func (self *GPIOKeys) SwitchEdge() bool {
	if self.edges > 0 {
		self.edges--
		return true
	}
	return false
}

func (self *GPIOKeys) SwitchDown() bool { return self.hasSw && self.sw.IsDown() }
