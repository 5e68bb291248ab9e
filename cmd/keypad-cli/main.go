// Interactive keypad simulator: type commands to press keys and turn encoder,
// see HID actions in log, LED colors and display lines with `show`.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/hardware/hid"
	"github.com/temoto/keypad/hardware/input"
	"github.com/temoto/keypad/hardware/led"
	"github.com/temoto/keypad/hardware/text_display"
	"github.com/temoto/keypad/hardware/tone"
	"github.com/temoto/keypad/head"
	"github.com/temoto/keypad/helpers/cli"
	"github.com/temoto/keypad/log2"
)

const usage = `commands:
- press N    key N down
- release N  key N up
- tap N      press and release
- turn D     rotate encoder by D detents
- click      push encoder button
- hold 1|0   hold or let go encoder button, LEDs brighten while held
- tick MS    advance clock, animate LEDs
- show       print screen, LEDs, display
`

var log = log2.NewStderr(log2.LDebug)

var suggests = []prompt.Suggest{
	{Text: "press", Description: "key N down"},
	{Text: "release", Description: "key N up"},
	{Text: "tap", Description: "press and release key N"},
	{Text: "turn", Description: "rotate encoder by D"},
	{Text: "click", Description: "push encoder button"},
	{Text: "hold", Description: "hold encoder button 1, let go 0"},
	{Text: "tick", Description: "advance clock by MS"},
	{Text: "show", Description: "print state"},
	{Text: "help"},
}

type sim struct {
	kp      *head.Keypad
	queue   *input.Queue
	enc     *input.ManualEncoder
	pixels  *led.MemBuffer
	lcd     *text_display.MemDevicer
	period  time.Duration
	now     time.Time
	out     io.Writer
	color   bool
	columns int
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "keypad.hcl", "")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(0)
	c := config.MustReadConfig(log, config.NewOsFullReader(), *flagConfig)
	s := newSim(log, c, os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	fmt.Fprint(s.out, usage)
	s.kp.Start()
	cli.MainLoop("keypad", s.exec, func(d prompt.Document) []prompt.Suggest {
		return cli.SuggestPrefix(d, suggests)
	})
}

func newSim(log *log2.Log, c *config.Config, out io.Writer, color bool) *sim {
	display, lcd := text_display.NewMockTextDisplay(&text_display.TextDisplayConfig{
		Codepage: c.Display.Codepage,
		Width:    uint32(c.Display.Width),
	})
	display.Log = log
	s := &sim{
		queue:   input.NewQueue(log, input.DefaultQueueSize),
		enc:     &input.ManualEncoder{},
		pixels:  led.NewMemBuffer(log, c.Device.KeyCount, c.Device.Brightness, nil),
		lcd:     lcd,
		period:  c.PollInterval(),
		now:     time.Now(),
		out:     out,
		color:   color,
		columns: 3,
	}
	hw := head.Hardware{
		Keys:     s.queue,
		Encoder:  s.enc,
		Pixels:   s.pixels,
		Keyboard: hid.LogKeyboard{Log: log},
		Display:  display,
	}
	if c.Tone.Enable {
		hw.Tone = tone.LogPlayer{Log: log}
	}
	s.kp = head.NewKeypad(log, c, hw, s.now)
	return s
}

func (self *sim) exec(line string) {
	if err := self.execErr(line); err != nil {
		fmt.Fprintf(self.out, "error: %v\n", err)
	}
}

func (self *sim) execErr(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	arg := func() (int, error) {
		if len(parts) < 2 {
			return 0, errors.Errorf("%s: argument required", parts[0])
		}
		n, err := strconv.Atoi(parts[1])
		return n, errors.Annotatef(err, "%s: argument", parts[0])
	}

	switch parts[0] {
	case "press", "release", "tap":
		key, err := arg()
		if err != nil {
			return err
		}
		if parts[0] != "release" {
			self.queue.Push(input.KeyEvent{Key: key, Pressed: true})
			self.step()
		}
		if parts[0] != "press" {
			self.queue.Push(input.KeyEvent{Key: key, Pressed: false})
			self.step()
		}
	case "turn":
		d, err := arg()
		if err != nil {
			return err
		}
		self.enc.Turn(d)
		self.step()
	case "click":
		self.enc.Click()
		self.step()
	case "hold":
		down, err := arg()
		if err != nil {
			return err
		}
		self.enc.Hold(down != 0)
		self.step()
	case "tick":
		ms, err := arg()
		if err != nil {
			return err
		}
		self.tick(time.Duration(ms) * time.Millisecond)
	case "show":
		self.show()
	case "help", "?":
		fmt.Fprint(self.out, usage)
	default:
		return errors.Errorf("unknown command=%s", parts[0])
	}
	return nil
}

func (self *sim) step() {
	self.now = self.now.Add(self.period)
	self.kp.Step(self.now)
}

func (self *sim) tick(d time.Duration) {
	for end := self.now.Add(d); self.now.Before(end); {
		self.step()
	}
}

func (self *sim) show() {
	screens := self.kp.Screens()
	fmt.Fprintf(self.out, "screen %d/%d %s mode=%s pressed=%v offset=%d\n",
		screens.Index()+1, screens.Len(), screens.Name(), self.kp.Encoder().Mode(),
		self.kp.Keys().Pressed(), self.kp.Rainbow().Offset())
	for i, c := range self.pixels.Pixels() {
		label := ""
		if a, ok := screens.KeyAction(i); ok {
			label = a.String()
		}
		if self.color {
			fmt.Fprintf(self.out, "\x1b[48;2;%d;%d;%dm  \x1b[0m %-12.12s", c.R, c.G, c.B, label)
		} else {
			fmt.Fprintf(self.out, "%s %-12.12s", c, label)
		}
		if (i+1)%self.columns == 0 {
			fmt.Fprintln(self.out)
		}
	}
	fmt.Fprintf(self.out, "\n[%s]\n", strings.Join(self.lcd.Lines(), "]\n["))
}
