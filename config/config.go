// Package config reads keypad HCL configuration.
// Sources may include other sources, later values overwrite earlier,
// screens accumulate in reading order.
package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/keypad/hardware/led"
	"github.com/temoto/keypad/hardware/text_display"
	"github.com/temoto/keypad/hardware/tone"
	"github.com/temoto/keypad/helpers"
	"github.com/temoto/keypad/keymap"
	"github.com/temoto/keypad/log2"
	"github.com/temoto/keypad/screen"
)

const (
	DisplayHD44780     = "hd44780"
	DisplayFramebuffer = "framebuffer"
	DisplaySSD1306     = "ssd1306"
)

const (
	DefaultKeyCount   = 12
	DefaultPollMs     = 5
	DefaultDebounceMs = 10
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []Source       `hcl:"include"`
	XXX_Screen  []ScreenConfig `hcl:"screen"`

	Device struct {
		KeyCount   int     `hcl:"key_count"`
		Brightness float64 `hcl:"brightness"`
		// 0 = never
		IdleOffSec int `hcl:"idle_off_sec"`
	} `hcl:"device"`

	Rainbow struct {
		// absent = led.DefaultSpeed, 0 = static rainbow
		Speed      *int `hcl:"speed"`
		IntervalMs int  `hcl:"interval_ms"`
		// 0 = 256/key_count
		Stride int `hcl:"stride"`
	} `hcl:"rainbow"`

	Tone struct {
		Enable bool `hcl:"enable"`
		// note name "A4" or Hz "440"
		Frequency  string `hcl:"frequency"`
		DurationMs int    `hcl:"duration_ms"`
		Startup    bool   `hcl:"startup"`
	} `hcl:"tone"`

	Display struct {
		Enable bool `hcl:"enable"`
		// 0 = fit graphic display or 16
		Width         int    `hcl:"width"`
		Codepage      string `hcl:"codepage"`
		ScrollDelayMs int    `hcl:"scroll_delay_ms"`
		// empty = log only
		Device  string `hcl:"device"`
		Hd44780 struct {
			Chip  string              `hcl:"chip"`
			Page1 bool                `hcl:"page1"`
			Pins  text_display.PinMap `hcl:"pins"`
		} `hcl:"hd44780"`
		Framebuffer struct {
			Path string `hcl:"path"`
		} `hcl:"framebuffer"`
		Ssd1306 struct {
			Bus    string `hcl:"i2c_bus"`
			Width  int    `hcl:"width"`
			Height int    `hcl:"height"`
		} `hcl:"ssd1306"`
	} `hcl:"display"`

	Input struct {
		PollMs        int `hcl:"poll_ms"`
		DebounceMs    int `hcl:"debounce_ms"`
		DevInputEvent struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
			// event code per key index
			Keymap     []int `hcl:"keymap"`
			SwitchCode int   `hcl:"switch_code"`
			RelCodes   []int `hcl:"rel_codes"`
		} `hcl:"dev_input_event"`
		Gpio struct {
			Enable bool   `hcl:"enable"`
			Chip   string `hcl:"chip"`
			Keys   []int  `hcl:"keys"`
			Switch *int   `hcl:"switch"`
		} `hcl:"gpio"`
	} `hcl:"input"`

	Hid struct {
		// empty = log only
		Device string `hcl:"device"`
	} `hcl:"hid"`

	ScreenConfigs []ScreenConfig `hcl:"-"`
	screens       []screen.Screen[keymap.Action]
	toneFreq      float64

	_copy_guard sync.Mutex //nolint:unused
}

type Source struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type ScreenConfig struct {
	Name string   `hcl:"name,key"`
	Keys []string `hcl:"keys"`
}

func (c *Config) Screens() []screen.Screen[keymap.Action] { return c.screens }

func (c *Config) RainbowConfig() led.RainbowConfig {
	speed := led.DefaultSpeed
	if c.Rainbow.Speed != nil {
		speed = *c.Rainbow.Speed
	}
	return led.RainbowConfig{
		Speed:    speed,
		Interval: helpers.IntMillisecondDefault(c.Rainbow.IntervalMs, led.DefaultInterval),
		Stride:   c.Rainbow.Stride,
	}
}

func (c *Config) ToneFrequency() float64 { return c.toneFreq }
func (c *Config) ToneDuration() time.Duration {
	return helpers.IntMillisecondDefault(c.Tone.DurationMs, tone.DefaultDuration)
}
func (c *Config) PollInterval() time.Duration {
	return helpers.IntMillisecondDefault(c.Input.PollMs, DefaultPollMs*time.Millisecond)
}
func (c *Config) Debounce() time.Duration {
	return helpers.IntMillisecondDefault(c.Input.DebounceMs, DefaultDebounceMs*time.Millisecond)
}
func (c *Config) IdleOff() time.Duration {
	return time.Duration(c.Device.IdleOffSec) * time.Second
}
func (c *Config) ScrollDelay() time.Duration {
	return helpers.IntMillisecondDefault(c.Display.ScrollDelayMs, 0)
}

func (c *Config) read(log *log2.Log, fs FullReader, source Source, errs *[]error) {
	norm := fs.Normalize(source.Name)
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s", source.Name)
		*errs = append(*errs, err)
		return
	}

	var screens []ScreenConfig
	screens, c.XXX_Screen = c.XXX_Screen, nil
	c.ScreenConfigs = append(c.ScreenConfigs, screens...)

	var includes []Source
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func (c *Config) validate() []error {
	errs := make([]error, 0, 8)
	if c.Device.KeyCount == 0 {
		c.Device.KeyCount = DefaultKeyCount
	}
	if c.Device.KeyCount < 0 || c.Device.KeyCount > 64 {
		errs = append(errs, errors.NotValidf("device.key_count=%d", c.Device.KeyCount))
	}
	if c.Device.Brightness == 0 {
		c.Device.Brightness = led.DefaultBrightness
	}
	if c.Device.Brightness < 0 || c.Device.Brightness > 1 {
		errs = append(errs, errors.NotValidf("device.brightness=%v (0..1)", c.Device.Brightness))
	}
	if c.Device.IdleOffSec < 0 {
		errs = append(errs, errors.NotValidf("device.idle_off_sec=%d", c.Device.IdleOffSec))
	}
	if s := c.Rainbow.Speed; s != nil && (*s < -255 || *s > 255) {
		errs = append(errs, errors.NotValidf("rainbow.speed=%d (-255..255)", *s))
	}
	if c.Rainbow.Stride < 0 || c.Rainbow.Stride > 255 {
		errs = append(errs, errors.NotValidf("rainbow.stride=%d (0..255)", c.Rainbow.Stride))
	}

	c.toneFreq = 0
	if c.Tone.Enable {
		c.toneFreq = tone.DefaultFrequency
		if c.Tone.Frequency != "" {
			f, err := tone.ParseNote(c.Tone.Frequency)
			if err != nil {
				errs = append(errs, errors.Annotate(err, "tone.frequency"))
			}
			c.toneFreq = f
		}
	}

	if c.Display.Width < 0 || c.Display.Width > text_display.MaxWidth {
		errs = append(errs, errors.NotValidf("display.width=%d max=%d", c.Display.Width, text_display.MaxWidth))
	}
	switch c.Display.Device {
	case "":
	case DisplayHD44780:
		if c.Display.Hd44780.Chip == "" {
			errs = append(errs, errors.NotValidf("display.hd44780.chip empty"))
		}
		if _, err := c.Display.Hd44780.Pins.Offsets(); err != nil {
			errs = append(errs, errors.Annotate(err, "display.hd44780.pins"))
		}
	case DisplayFramebuffer:
		if c.Display.Framebuffer.Path == "" {
			errs = append(errs, errors.NotValidf("display.framebuffer.path empty"))
		}
	case DisplaySSD1306:
	default:
		errs = append(errs, errors.NotValidf("display.device=%s", c.Display.Device))
	}

	if c.Input.DevInputEvent.Enable && c.Input.DevInputEvent.Device == "" {
		errs = append(errs, errors.NotValidf("input.dev_input_event.device empty"))
	}
	if c.Input.Gpio.Enable && len(c.Input.Gpio.Keys) == 0 {
		errs = append(errs, errors.NotValidf("input.gpio.keys empty"))
	}

	c.screens = make([]screen.Screen[keymap.Action], 0, len(c.ScreenConfigs))
	names := make(map[string]struct{}, len(c.ScreenConfigs))
	for i, sc := range c.ScreenConfigs {
		if sc.Name != "" {
			if _, ok := names[sc.Name]; ok {
				errs = append(errs, errors.AlreadyExistsf("screen name=%s", sc.Name))
			}
			names[sc.Name] = struct{}{}
		}
		if len(sc.Keys) > c.Device.KeyCount {
			errs = append(errs, errors.NotValidf("screen=%s keys=%d more than key_count=%d",
				screenLabel(sc.Name, i), len(sc.Keys), c.Device.KeyCount))
		}
		actions, aerrs := keymap.ParseActions(sc.Keys)
		for _, e := range aerrs {
			errs = append(errs, errors.Annotatef(e, "screen=%s", screenLabel(sc.Name, i)))
		}
		c.screens = append(c.screens, screen.Screen[keymap.Action]{Name: sc.Name, Keys: actions})
	}
	return errs
}

func screenLabel(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("#%d", index)
	}
	return name
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if err := osfs.SetBase(dir); err != nil {
			return nil, errors.Trace(err)
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, Source{Name: name}, &errs)
	}
	if len(errs) == 0 {
		errs = c.validate()
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
