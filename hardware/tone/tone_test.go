package tone

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/keypad/log2"
)

func TestParseNote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect float64
		valid  bool
	}{
		{"A4", 440, true},
		{"a5", 880, true},
		{"A3", 220, true},
		{"C4", 261.63, true},
		{"C5", 523.25, true},
		{"C6", 1046.5, true},
		{"F#4", 369.99, true},
		{"Gb4", 369.99, true},
		{"rest", 0, true},
		{"523.25", 523.25, true},
		{"", 0, false},
		{"H4", 0, false},
		{"C", 0, false},
		{"C10", 0, false},
		{"-5", 0, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			f, err := ParseNote(c.input)
			if !c.valid {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err), errors.ErrorStack(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, c.expect, f, 0.005)
		})
	}
}

func TestParseMelody(t *testing.T) {
	t.Parallel()

	ms := time.Millisecond
	cases := []struct {
		input     string
		expect    Melody
		expectErr string
	}{
		{"mario", Startup, ""},
		{"Descending", Descending, ""},
		{"C5/100,rest/50,A4", Melody{{523.25, 100 * ms}, {0, 50 * ms}, {440, DefaultDuration}}, ""},
		{"", nil, "empty melody not valid"},
		{"C5/0", nil, "melody=C5/0 duration=0 not valid"},
		{"C5,X4", nil, "melody=C5,X4: note=x4 not valid"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			m, err := ParseMelody(c.input)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.Equal(t, c.expectErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, m)
		})
	}
}

func TestArpeggio(t *testing.T) {
	t.Parallel()

	d := ArpeggioNoteDuration
	major, err := ParseArpeggio("C4")
	require.NoError(t, err)
	assert.Equal(t, Melody{{261.63, d}, {329.63, d}, {392, d}, {523.26, d}, {392, d}, {329.63, d}, {261.63, d}}, major)

	minor, err := ParseArpeggio("A4m")
	require.NoError(t, err)
	freqs := make([]float64, len(minor))
	for i, n := range minor {
		freqs[i] = n.Freq
	}
	assert.Equal(t, []float64{440, 523.25, 659.26, 880, 659.26, 523.25, 440}, freqs)

	_, err = ParseArpeggio("rest")
	assert.True(t, errors.IsNotValid(err))
	_, err = ParseArpeggio("m")
	assert.Error(t, err)
}

func TestPlayMelody(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	PlayMelody(rec, Startup)
	assert.Equal(t, Startup, rec.Notes)
	assert.Equal(t, 1400*time.Millisecond, Startup.Duration())
	PlayMelody(nil, Startup)
}

func TestLogPlayer(t *testing.T) {
	t.Parallel()

	p := LogPlayer{Log: log2.NewTest(t, log2.LDebug)}
	PlayMelody(p, Melody{{DefaultFrequency, DefaultDuration}, {0, time.Millisecond}})
}
