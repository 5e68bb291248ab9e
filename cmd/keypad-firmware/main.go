//go:build tinygo

// Firmware for Adafruit MacroPad RP2040: 12 keys with NeoPixels, rotary encoder with push switch,
// SH1106 128x64 OLED, speaker. Build: tinygo flash -target macropad-rp2040 ./cmd/keypad-firmware
package main

import (
	_ "embed"
	"machine"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/hardware/led"
	"github.com/temoto/keypad/hardware/text_display"
	"github.com/temoto/keypad/head"
	"github.com/temoto/keypad/log2"
	"tinygo.org/x/drivers/encoders"
	"tinygo.org/x/drivers/sh1106"
	"tinygo.org/x/drivers/ws2812"
)

//go:embed keypad.hcl
var configSource string

var log = log2.NewStderr(log2.LInfo)

var keyPins = []machine.Pin{
	machine.GPIO1, machine.GPIO2, machine.GPIO3,
	machine.GPIO4, machine.GPIO5, machine.GPIO6,
	machine.GPIO7, machine.GPIO8, machine.GPIO9,
	machine.GPIO10, machine.GPIO11, machine.GPIO12,
}

const (
	pinSwitch        = machine.GPIO0
	pinRotA          = machine.GPIO17
	pinRotB          = machine.GPIO18
	pinNeoPixel      = machine.GPIO19
	pinSpeaker       = machine.GPIO16
	pinSpeakerEnable = machine.GPIO14
	pinOledCS        = machine.GPIO22
	pinOledReset     = machine.GPIO23
	pinOledDC        = machine.GPIO24
)

func main() {
	log.SetFlags(0)
	// USB CDC console needs a moment after reset
	time.Sleep(time.Second)

	c, err := config.ReadConfig(log, config.NewMockFullReader(map[string]string{"keypad.hcl": configSource}), "keypad.hcl")
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	pinNeoPixel.Configure(machine.PinConfig{Mode: machine.PinOutput})
	strip := ws2812.New(pinNeoPixel)

	rot := encoders.NewQuadratureViaInterrupt(pinRotA, pinRotB)
	rot.Configure(encoders.QuadratureConfig{Precision: 4})

	keys := newPinKeys(keyPins, pinSwitch, c.Debounce())

	hw := head.Hardware{
		Keys:     keys,
		Encoder:  &pinEncoder{rot: rot, keys: keys},
		Pixels:   led.NewMemBuffer(log, c.Device.KeyCount, c.Device.Brightness, strip),
		Keyboard: newUSBKeyboard(),
	}
	if c.Tone.Enable {
		sp, err := newSpeaker(pinSpeaker, pinSpeakerEnable)
		if err != nil {
			log.Error(errors.Annotate(err, "speaker"))
		} else {
			hw.Tone = sp
		}
	}
	if c.Display.Enable {
		d, err := newOLED(c)
		if err != nil {
			log.Error(errors.Annotate(err, "display"))
		} else {
			hw.Display = d
			go d.Run()
		}
	}

	kp := head.NewKeypad(log, c, hw, time.Now())
	kp.Start()
	kp.Run(alive.NewAlive(), c.PollInterval())
}

func newOLED(c *config.Config) (*text_display.TextDisplay, error) {
	err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GPIO26,
		SDO:       machine.GPIO27,
		SDI:       machine.GPIO28,
		Frequency: 8_000_000,
	})
	if err != nil {
		return nil, errors.Annotate(err, "spi1 configure")
	}
	oled := sh1106.NewSPI(machine.SPI1, pinOledDC, pinOledReset, pinOledCS)
	oled.Configure(sh1106.Config{Width: 128, Height: 64})
	oled.ClearDisplay()

	canvas, err := text_display.NewCanvas(&oled, nil, 0)
	if err != nil {
		return nil, err
	}
	width := canvas.Columns()
	if c.Display.Width > 0 && uint32(c.Display.Width) < width {
		width = uint32(c.Display.Width)
	}
	d, err := text_display.NewTextDisplay(&text_display.TextDisplayConfig{
		Codepage:    c.Display.Codepage,
		ScrollDelay: c.ScrollDelay(),
		Width:       width,
	})
	if err != nil {
		return nil, err
	}
	d.Log = log
	d.SetDevice(canvas)
	return d, nil
}
