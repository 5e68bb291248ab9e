package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/temoto/keypad/cmd/keypad/subcmd"
	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/hardware/framebuffer"
	"github.com/temoto/keypad/hardware/hid"
	"github.com/temoto/keypad/hardware/input"
	"github.com/temoto/keypad/hardware/led"
	"github.com/temoto/keypad/hardware/ssd1306"
	"github.com/temoto/keypad/hardware/text_display"
	"github.com/temoto/keypad/hardware/tone"
	"github.com/temoto/keypad/head"
	"github.com/temoto/keypad/helpers"
	"github.com/temoto/keypad/log2"
)

func runMain(ctx context.Context, log *log2.Log, c *config.Config) error {
	a := alive.NewAlive()
	errCount := &errorCounter{}
	log.SetErrorFunc(errCount.Add)
	closers := make([]io.Closer, 0, 4)
	defer func() {
		for _, x := range closers {
			_ = x.Close()
		}
	}()

	hw := head.Hardware{
		Pixels:   led.NewMemBuffer(log, c.Device.KeyCount, c.Device.Brightness, nil),
		Keyboard: hid.LogKeyboard{Log: log},
		Tone:     tone.LogPlayer{Log: log},
	}
	if c.Hid.Device != "" {
		kb, f, err := hid.OpenGadget(c.Hid.Device)
		if err != nil {
			return errors.Annotate(err, "config: hid.device")
		}
		closers = append(closers, f)
		hw.Keyboard = kb
	}
	if !c.Tone.Enable {
		hw.Tone = nil
	}

	encoder := input.SplitEncoder{}
	queue := input.NewQueue(log, input.DefaultQueueSize)
	hw.Keys = queue
	sources := make([]input.Source, 0, 1)
	if di := c.Input.DevInputEvent; di.Enable {
		dev, err := input.OpenDevInput(di.Device, input.DevInputConfig{
			Keymap:     toUint16s(di.Keymap),
			SwitchCode: uint16(di.SwitchCode),
			RelCodes:   toUint16s(di.RelCodes),
		})
		if err != nil {
			return errors.Annotate(err, "config: input.dev_input_event")
		}
		closers = append(closers, dev)
		sources = append(sources, dev)
		encoder.Rotation = dev
		encoder.Switch = dev
	}
	if g := c.Input.Gpio; g.Enable {
		chip, err := gpio.Open(g.Chip, input.GPIOConsumer)
		if err != nil {
			return errors.Annotatef(err, "config: input.gpio.chip=%s", g.Chip)
		}
		closers = append(closers, chip)
		switchLine := -1
		if g.Switch != nil {
			switchLine = *g.Switch
		}
		lines := make([]uint32, len(g.Keys))
		for i, l := range g.Keys {
			lines[i] = uint32(l)
		}
		keys, err := input.NewGPIOKeys(log, chip, lines, switchLine, c.Debounce())
		if err != nil {
			return errors.Annotate(err, "config: input.gpio")
		}
		closers = append(closers, keys)
		// evdev keys still arrive through queue
		hw.Keys = input.MergeKeys{keys, queue}
		if switchLine >= 0 {
			encoder.Switch = keys
		}
	}
	hw.Encoder = encoder

	if c.Display.Enable {
		d, err := openDisplay(log, c, &closers)
		if err != nil {
			return errors.Annotatef(err, "config: display device=%s", c.Display.Device)
		}
		hw.Display = d
		go d.Run()
		go helpers.AliveSub(a, d.Alive())
	}

	queue.Run(a, sources)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigch
		log.Infof("signal=%v stopping", sig)
		a.Stop()
	}()

	kp := head.NewKeypad(log, c, hw, time.Now())
	kp.Start()
	if subcmd.SdNotify(log, daemon.SdNotifyReady) {
		go reportStatus(log, a, kp, errCount, statusInterval)
	}
	kp.Run(a, c.PollInterval())
	subcmd.SdNotify(log, daemon.SdNotifyStopping)
	// evdev readers stay blocked in read(), process exit ends them
	return nil
}

func openDisplay(log *log2.Log, c *config.Config, closers *[]io.Closer) (*text_display.TextDisplay, error) {
	width := uint32(c.Display.Width)
	var dev text_display.Devicer
	var canvas *text_display.Canvas
	switch c.Display.Device {
	case config.DisplayHD44780:
		h := c.Display.Hd44780
		if width == 0 {
			width = text_display.DefaultWidth
		}
		chip, err := gpio.Open(h.Chip, input.GPIOConsumer)
		if err != nil {
			return nil, errors.Annotatef(err, "chip=%s", h.Chip)
		}
		*closers = append(*closers, chip)
		lcd, err := text_display.NewHD44780(chip, h.Pins, uint8(width))
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, lcd)
		if err = lcd.Init(h.Page1); err != nil {
			return nil, err
		}
		dev = lcd

	case config.DisplayFramebuffer:
		fb, err := framebuffer.Open(c.Display.Framebuffer.Path)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, fb)
		if canvas, err = text_display.NewCanvas(fb, nil, 0); err != nil {
			return nil, err
		}

	case config.DisplaySSD1306:
		s := c.Display.Ssd1306
		oled, bus, err := ssd1306.Open(s.Bus, s.Width, s.Height)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, bus)
		if canvas, err = text_display.NewCanvas(oled, nil, 0); err != nil {
			return nil, err
		}
	}
	if canvas != nil {
		dev = canvas
		if width == 0 || width > canvas.Columns() {
			width = canvas.Columns()
		}
		if width > text_display.MaxWidth {
			width = text_display.MaxWidth
		}
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
	if dev != nil {
		d.SetDevice(dev)
	}
	return d, nil
}

func toUint16s(xs []int) []uint16 {
	if len(xs) == 0 {
		return nil
	}
	us := make([]uint16, len(xs))
	for i, x := range xs {
		us[i] = uint16(x)
	}
	return us
}
