package text_display

import (
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/keypad/log2"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	const width uint32 = 16
	spaces := strings.Repeat(" ", MaxWidth*2)
	canonical := func(input string, tick uint32) string {
		gap := width / 2
		length := uint32(len(input))
		if length <= width {
			return (input + spaces)[:width]
		}
		help := input + spaces[:gap] + input
		offset := tick % (length + gap)
		return help[offset : offset+width]
	}

	type Case struct {
		name  string
		input string
	}
	cases := []Case{
		{"short", "Media"},
		{"full", "Screen-16-chars!"},
		{"long1", "Photoshop shortcuts"},
		{"long2", "Video editing: cut, ripple, trim;Video editing: markers"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			for tick := uint32(0); tick < uint32(len(c.input)*3); tick++ {
				var buf [width]byte
				scrollWrap(buf[:], []byte(c.input), tick)
				expect := canonical(c.input, tick)
				result := string(buf[:])
				if result != expect {
					t.Errorf("input=(%d)'%s' tick=%d expected=(%d)'%s' actual=(%d)'%s'",
						len(c.input), c.input, tick, len(expect), expect, len(result), result)
				}
			}
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	d, dev := NewMockTextDisplay(&TextDisplayConfig{Width: 8})
	ch := make(chan State, 1)
	d.SetUpdateChan(ch)
	d.SetLines("Media", "cursor\x00")
	assert.Equal(t, "Media   \ncursor", (<-ch).String())
	d.Message("keypad", "ready", func() {
		assert.Equal(t, "keypad  \nready   ", (<-ch).String())
		assert.Equal(t, "keypad  \nready   ", dev.String())
	})
	assert.Equal(t, "Media   \ncursor", (<-ch).String())
	assert.Equal(t, "Media   \ncursor  ", dev.String())
}

func TestShowScreen(t *testing.T) {
	t.Parallel()

	d, dev := NewMockTextDisplay(&TextDisplayConfig{Width: 16})
	d.Log = log2.NewTest(t, log2.LDebug)
	d.ShowScreen("Media", "Volume")
	assert.Equal(t, []string{"     Media      ", "mode: Volume    "}, dev.Lines())

	// long name scrolls
	d.ShowScreen("Photoshop shortcuts", "Screen")
	assert.Equal(t, "Photoshop shortc", dev.Lines()[0])
	d.Tick()
	d.Tick()
	assert.Equal(t, "otoshop shortcut", dev.Lines()[0])
	assert.Equal(t, "mode: Screen    ", dev.Lines()[1])
}

func TestClear(t *testing.T) {
	t.Parallel()

	d, dev := NewMockTextDisplay(nil)
	d.SetLines("hello", "world")
	d.Clear()
	assert.Equal(t, strings.Repeat(" ", DefaultWidth)+"\n"+strings.Repeat(" ", DefaultWidth), dev.String())
	assert.Equal(t, State{}, d.State())
}

func TestNewTextDisplayError(t *testing.T) {
	t.Parallel()

	_, err := NewTextDisplay(&TextDisplayConfig{Width: MaxWidth + 1})
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	_, err = NewTextDisplay(&TextDisplayConfig{Codepage: "no-such-codepage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codepage=no-such-codepage")
}

func TestCodepage(t *testing.T) {
	t.Parallel()

	d, err := NewTextDisplay(&TextDisplayConfig{Width: 8, Codepage: "windows-1251"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xcc, 0xe5, 0xe4, 0xe8, 0xe0}, d.Translate("Медиа\x00"))
}

func TestRunStop(t *testing.T) {
	t.Parallel()

	d, _ := NewMockTextDisplay(&TextDisplayConfig{Width: 8, ScrollDelay: time.Millisecond})
	done := make(chan struct{})
	go func() {
		d.Run()
		close(done)
	}()
	d.Stop()
	<-done
}

func TestJustCenter(t *testing.T) {
	t.Parallel()

	d, err := NewTextDisplay(&TextDisplayConfig{Width: 8})
	require.NoError(t, err)
	assert.Equal(t, []byte("longlong"), d.JustCenter([]byte("longlong")))
	assert.Equal(t, []byte("longlon"), d.JustCenter([]byte("longlon")))
	assert.Equal(t, []byte("  long  "), d.JustCenter([]byte("long")))
	assert.Equal(t, []byte("   1    "), d.JustCenter([]byte("1")))
	assert.Equal(t, []byte("        "), d.JustCenter(nil))
}
