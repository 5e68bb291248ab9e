package hid

import (
	"bytes"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/keypad/log2"
)

func TestParseChord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input     string
		expect    Chord
		expectErr string
	}{
		{"a", Chord{Keys: []byte{KeyA}}, ""},
		{"ctrl+c", Chord{Modifiers: ModLeftCtrl, Keys: []byte{0x06}}, ""},
		{"Cmd+Shift+4", Chord{Modifiers: ModLeftGUI | ModLeftShift, Keys: []byte{0x21}}, ""},
		{"cmd+space", Chord{Modifiers: ModLeftGUI, Keys: []byte{KeySpace}}, ""},
		{"f5", Chord{Keys: []byte{0x3e}}, ""},
		{"f13", Chord{Keys: []byte{KeyF13}}, ""},
		{"0", Chord{Keys: []byte{Key0}}, ""},
		{"ctrl + alt + delete", Chord{Modifiers: ModLeftCtrl | ModLeftAlt, Keys: []byte{0x4c}}, ""},
		{"shift", Chord{Modifiers: ModLeftShift}, ""},
		{"0x7f", Chord{Keys: []byte{KeyMute}}, ""},
		{"", Chord{}, "empty chord"},
		{"ctrl+bogus", Chord{}, `key="bogus"`},
		{"a+b+c+d+e+f+g", Chord{}, "more than 6 keys"},
		{"0x100", Chord{}, `key="0x100"`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			got, err := ParseChord(c.input)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				assert.Contains(t, err.Error(), c.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, got)
		})
	}
}

func TestChordString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ctrl+shift+t", MustParseChord("shift+ctrl+t").String())
	assert.Equal(t, "enter", MustParseChord("return").String())
	assert.Equal(t, "", Chord{}.String())
	assert.Equal(t, "0xe8", Chord{Keys: []byte{0xe8}}.String())
}

func TestReport(t *testing.T) {
	t.Parallel()

	r := MustParseChord("ctrl+shift+t").Report()
	assert.Equal(t, Report{ModLeftCtrl | ModLeftShift, 0, 0x17, 0, 0, 0, 0, 0}, r)
}

func TestReportWriter(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	kb := NewReportWriter(buf)
	copyC := MustParseChord("ctrl+c")
	tab := MustParseChord("alt+tab")

	require.NoError(t, kb.Press(copyC))
	require.NoError(t, kb.Press(tab))
	require.NoError(t, kb.Release(copyC))
	require.NoError(t, kb.Release(tab))
	expect := []byte{
		ModLeftCtrl, 0, 0x06, 0, 0, 0, 0, 0,
		ModLeftCtrl | ModLeftAlt, 0, 0x06, KeyTab, 0, 0, 0, 0,
		ModLeftAlt, 0, KeyTab, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	assert.Equal(t, expect, buf.Bytes())
}

func TestReportWriterVolume(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	kb := NewReportWriter(buf)
	require.NoError(t, kb.Volume(-2))
	expect := []byte{
		0, 0, KeyVolumeDown, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, KeyVolumeDown, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	assert.Equal(t, expect, buf.Bytes())
	buf.Reset()
	require.NoError(t, kb.Volume(0))
	assert.Equal(t, 0, buf.Len())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("endpoint stalled") }

func TestReportWriterError(t *testing.T) {
	t.Parallel()

	kb := NewReportWriter(failWriter{})
	err := kb.Volume(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hid report write")
	assert.Contains(t, err.Error(), "endpoint stalled")
}

func TestLogKeyboard(t *testing.T) {
	t.Parallel()

	var kb Keyboard = LogKeyboard{Log: log2.NewTest(t, log2.LDebug)}
	assert.NoError(t, kb.Press(MustParseChord("f1")))
	assert.NoError(t, kb.Release(MustParseChord("f1")))
	assert.NoError(t, kb.Volume(3))
}
