// Package head is the keypad main loop: poll keys and encoder,
// dispatch key actions of current screen, animate LEDs.
package head

import (
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"
	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/hardware/hid"
	"github.com/temoto/keypad/hardware/input"
	"github.com/temoto/keypad/hardware/led"
	"github.com/temoto/keypad/hardware/text_display"
	"github.com/temoto/keypad/hardware/tone"
	"github.com/temoto/keypad/keymap"
	"github.com/temoto/keypad/log2"
	"github.com/temoto/keypad/screen"
)

// Scanner is optional KeySource extension for sources sampled by the loop, like GPIO lines.
type Scanner interface {
	Scan(now time.Time) error
}

// Dimmer is optional PixelBuffer extension, e.g. led.MemBuffer.
type Dimmer interface {
	Brightness() float64
	SetBrightness(float64)
}

// BoostBrightness is used while encoder switch is held.
const BoostBrightness = 1.0

// Hardware is everything Keypad talks to. Tone and Display may be nil.
type Hardware struct {
	Keys     input.KeySource
	Encoder  input.EncoderSource
	Pixels   led.PixelBuffer
	Keyboard hid.Keyboard
	Tone     tone.Player
	Display  *text_display.TextDisplay
}

type Keypad struct {
	Log *log2.Log

	hw       Hardware
	keys     *input.KeyHandler
	encoder  *input.EncoderHandler
	screens  *screen.Manager[keymap.Action]
	rainbow  *led.Rainbow
	overlay  *led.Highlight
	dimmer   Dimmer
	held     map[int]hid.Chord
	toneFreq float64
	toneDur  time.Duration
	startup  bool
	// QR shown by this key
	qrKey int
	// brightness before boost
	brightness float64
	boosted    bool

	// last key or encoder event, read by status reporter goroutine
	lastInput atomic_clock.Clock
	idleOff   time.Duration
	idle      bool
}

func NewKeypad(log *log2.Log, c *config.Config, hw Hardware, now time.Time) *Keypad {
	if hw.Keys == nil || hw.Encoder == nil || hw.Pixels == nil || hw.Keyboard == nil {
		panic("code error keypad hardware keys, encoder, pixels, keyboard are required")
	}
	overlay := led.NewHighlight(hw.Pixels, led.White)
	self := &Keypad{
		Log:      log,
		hw:       hw,
		keys:     input.NewKeyHandler(),
		encoder:  input.NewEncoderHandler(hw.Encoder.Position()),
		screens:  screen.NewManager(c.Screens()...),
		rainbow:  led.NewRainbow(overlay, c.RainbowConfig(), now),
		overlay:  overlay,
		held:     make(map[int]hid.Chord),
		toneFreq: c.ToneFrequency(),
		toneDur:  c.ToneDuration(),
		startup:  c.Tone.Startup,
		qrKey:    -1,
		idleOff:  c.IdleOff(),
	}
	self.dimmer, _ = hw.Pixels.(Dimmer)
	self.lastInput.Set(now.UnixNano())
	return self
}

func (self *Keypad) Keys() *input.KeyHandler                 { return self.keys }
func (self *Keypad) Encoder() *input.EncoderHandler          { return self.encoder }
func (self *Keypad) Screens() *screen.Manager[keymap.Action] { return self.screens }
func (self *Keypad) Rainbow() *led.Rainbow                   { return self.rainbow }
func (self *Keypad) Idle() bool                              { return self.idle }

// IdleFor is time since last input event, safe to call from any goroutine.
func (self *Keypad) IdleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, self.lastInput.UnixNano()))
}

// Start plays startup melody (with greeting on display) and shows current screen.
func (self *Keypad) Start() {
	if self.startup && self.hw.Tone != nil {
		play := func() { tone.PlayMelody(self.hw.Tone, tone.Startup) }
		if self.hw.Display != nil {
			self.hw.Display.Message("keypad", "hello", play)
		} else {
			play()
		}
	}
	self.Log.Infof("keypad start screens=%d current=%s mode=%s",
		self.screens.Len(), self.screens.Name(), self.encoder.Mode())
	self.refreshDisplay()
}

// Step is one loop iteration, all work is synchronous.
func (self *Keypad) Step(now time.Time) {
	if s, ok := self.hw.Keys.(Scanner); ok {
		if err := s.Scan(now); err != nil {
			self.Log.Error(err)
		}
	}

	e := self.hw.Keys.PollKey()
	self.keys.Update(e)
	toggle, rotate := self.encoder.Update(self.hw.Encoder.SwitchEdge(), self.hw.Encoder.Position())
	if e != nil || toggle.Kind != input.EventNone || rotate.Kind != input.EventNone {
		self.lastInput.Set(now.UnixNano())
		if self.idle {
			self.wake()
		}
	}

	if e != nil {
		if e.Pressed {
			self.onPress(e.Key)
		} else {
			self.onRelease(e.Key)
		}
	}

	if toggle.Kind == input.EventModeChanged {
		self.Log.Infof("encoder mode=%s", toggle.Mode)
		self.refreshDisplay()
	}
	switch rotate.Kind {
	case input.EventVolumeDelta:
		if err := self.hw.Keyboard.Volume(rotate.Delta); err != nil {
			self.Log.Errorf("volume delta=%d err=%v", rotate.Delta, err)
		}
	case input.EventScreenDelta:
		self.screens.Change(rotate.Delta)
		self.Log.Infof("screen=%s index=%d", self.screens.Name(), self.screens.Index())
		self.refreshDisplay()
	}

	if !self.idle && self.idleOff > 0 && self.IdleFor(now) >= self.idleOff {
		self.sleep()
	}
	if !self.idle {
		// held keys lit over rainbow
		self.overlay.SetHeld(self.keys.Pressed())
		self.boost()
		if !self.rainbow.Update(now) {
			self.overlay.Flush()
		}
	}
}

// boost raises LED brightness while encoder switch is held.
func (self *Keypad) boost() {
	h, ok := self.hw.Encoder.(input.SwitchHolder)
	if !ok || self.dimmer == nil {
		return
	}
	down := h.SwitchDown()
	if down == self.boosted {
		return
	}
	self.boosted = down
	if down {
		self.brightness = self.dimmer.Brightness()
		self.dimmer.SetBrightness(BoostBrightness)
	} else {
		self.dimmer.SetBrightness(self.brightness)
	}
	self.overlay.Invalidate()
}

// sleep turns LEDs and display off until next input.
func (self *Keypad) sleep() {
	self.Log.Infof("idle for %v, lights off", self.idleOff)
	self.idle = true
	for i := 0; i < self.hw.Pixels.Len(); i++ {
		self.hw.Pixels.Set(i, led.RGB{})
	}
	self.hw.Pixels.Show()
	if self.hw.Display != nil {
		self.hw.Display.Clear()
	}
}

func (self *Keypad) wake() {
	self.Log.Debugf("wake")
	self.idle = false
	self.refreshDisplay()
}

// Run calls Step every period until a is stopped, then releases held keys.
func (self *Keypad) Run(a *alive.Alive, period time.Duration) {
	tmr := time.NewTicker(period)
	defer tmr.Stop()
	stopch := a.StopChan()
	for a.IsRunning() {
		select {
		case now := <-tmr.C:
			self.Step(now)
		case <-stopch:
		}
	}
	self.ReleaseAll()
}

func (self *Keypad) ReleaseAll() {
	for key := range self.held {
		self.onRelease(key)
	}
}

func (self *Keypad) onPress(key int) {
	action, ok := self.screens.KeyAction(key)
	freq := self.toneFreq
	if ok && action.Tone != 0 {
		freq = action.Tone
	}
	if self.hw.Tone != nil {
		if ok && len(action.Melody) != 0 {
			// blocks loop until played, like startup melody
			tone.PlayMelody(self.hw.Tone, action.Melody)
		} else if freq != 0 {
			self.hw.Tone.Play(freq, self.toneDur)
		}
	}
	if ok && action.QR != "" && self.hw.Display != nil {
		if err := self.hw.Display.ShowQR(action.QR); err != nil {
			self.Log.Errorf("key=%d qr err=%v", key, err)
		} else {
			self.qrKey = key
		}
	}
	if !ok || action.Chord.IsZero() {
		self.Log.Debugf("key=%d screen=%s no action", key, self.screens.Name())
		return
	}
	self.Log.Infof("key=%d action=%s", key, action)
	// key repeat without release from flaky source
	if prev, ok := self.held[key]; ok {
		if err := self.hw.Keyboard.Release(prev); err != nil {
			self.Log.Errorf("key=%d repeat release err=%v", key, err)
		}
	}
	if err := self.hw.Keyboard.Press(action.Chord); err != nil {
		self.Log.Errorf("key=%d press err=%v", key, err)
		return
	}
	self.held[key] = action.Chord
}

// releases chord pressed by this key, even if screen changed since
func (self *Keypad) onRelease(key int) {
	if key == self.qrKey {
		self.qrKey = -1
		self.refreshDisplay()
	}
	c, ok := self.held[key]
	if !ok {
		return
	}
	delete(self.held, key)
	if err := self.hw.Keyboard.Release(c); err != nil {
		self.Log.Errorf("key=%d release err=%v", key, err)
	}
}

func (self *Keypad) refreshDisplay() {
	if self.hw.Display != nil {
		self.hw.Display.ShowScreen(self.screens.Name(), self.encoder.Mode().String())
	}
}
