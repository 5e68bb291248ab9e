package led

import (
	"image/color"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/keypad/log2"
)

type recordBuffer struct {
	pixels []RGB
	sets   int
	shows  int
}

func newRecordBuffer(n int) *recordBuffer { return &recordBuffer{pixels: make([]RGB, n)} }

func (self *recordBuffer) Len() int         { return len(self.pixels) }
func (self *recordBuffer) Set(i int, c RGB) { self.pixels[i] = c; self.sets++ }
func (self *recordBuffer) Show()            { self.shows++ }

func TestRainbowGate(t *testing.T) {
	t.Parallel()

	t0 := time.Unix(1000, 0)
	buf := newRecordBuffer(12)
	r := NewRainbow(buf, RainbowConfig{Speed: 2, Interval: 50 * time.Millisecond}, t0)
	assert.Equal(t, 21, r.Stride())

	// first frame waits one interval since construction
	assert.False(t, r.Update(t0.Add(10*time.Millisecond)))
	assert.Equal(t, 0, buf.sets)

	t1 := t0.Add(50 * time.Millisecond)
	require.True(t, r.Update(t1))
	assert.Equal(t, 12, buf.sets)
	assert.Equal(t, 1, buf.shows)
	assert.Equal(t, uint8(2), r.Offset())
	snapshot := append([]RGB(nil), buf.pixels...)

	// second call within interval: no mutation, no offset change
	assert.False(t, r.Update(t1.Add(49*time.Millisecond)))
	assert.Equal(t, 12, buf.sets)
	assert.Equal(t, 1, buf.shows)
	assert.Equal(t, uint8(2), r.Offset())
	assert.Equal(t, snapshot, buf.pixels)
	assert.Equal(t, t1, r.Last())
}

func TestRainbowFrame(t *testing.T) {
	t.Parallel()

	t0 := time.Unix(0, 0)
	buf := newRecordBuffer(12)
	r := NewRainbow(buf, RainbowConfig{Speed: 2, Interval: time.Millisecond}, t0)
	r.Update(t0.Add(time.Millisecond))
	for i := 0; i < 12; i++ {
		assert.Equal(t, WheelByte(uint8(i*21)), buf.pixels[i], "pixel=%d", i)
	}
	r.Update(t0.Add(2 * time.Millisecond))
	for i := 0; i < 12; i++ {
		assert.Equal(t, WheelByte(uint8(2+i*21)), buf.pixels[i], "pixel=%d", i)
	}
}

func TestRainbowOffsetWrap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		offset uint8
		speed  int
		expect uint8
	}{
		{"wrap", 254, 4, 2},
		{"exact", 252, 4, 0},
		{"plain", 10, 2, 12},
		{"reverse", 1, -3, 254},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t0 := time.Unix(0, 0)
			r := NewRainbow(newRecordBuffer(4), RainbowConfig{Speed: c.speed, Interval: time.Second}, t0)
			r.offset = c.offset
			require.True(t, r.Update(t0.Add(time.Second)))
			assert.Equal(t, c.expect, r.Offset())
		})
	}
}

func TestRainbowStride(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 21, DeriveStride(12))
	assert.Equal(t, 16, DeriveStride(16))
	assert.Equal(t, 256, DeriveStride(1))
	assert.Equal(t, 0, DeriveStride(0))

	r := NewRainbow(newRecordBuffer(12), RainbowConfig{Stride: 8}, time.Time{})
	assert.Equal(t, 8, r.Stride())

	// empty strip still advances phase and flushes
	empty := newRecordBuffer(0)
	r = NewRainbow(empty, RainbowConfig{Speed: 1}, time.Time{})
	assert.True(t, r.Update(time.Time{}))
	assert.Equal(t, 1, empty.shows)
}

type fakeWriter struct {
	last []color.RGBA
	err  error
}

func (self *fakeWriter) WriteColors(buf []color.RGBA) error {
	self.last = append([]color.RGBA(nil), buf...)
	return self.err
}

func TestMemBuffer(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	b := NewMemBuffer(log2.NewTest(t, log2.LDebug), 3, 0.5, w)
	assert.Equal(t, 3, b.Len())
	b.Set(0, RGB{255, 0, 0})
	b.Set(2, RGB{0, 100, 3})
	b.Show()
	assert.Equal(t, []color.RGBA{{128, 0, 0, 255}, {0, 0, 0, 255}, {0, 50, 2, 255}}, w.last)
	assert.Equal(t, RGB{255, 0, 0}, b.Get(0))
	assert.Equal(t, uint32(1), b.Shows())
	assert.NoError(t, b.Err())

	b.SetBrightness(7)
	assert.Equal(t, 1.0, b.Brightness())
	b.SetBrightness(-1)
	assert.Equal(t, 0.0, b.Brightness())
}

func TestMemBufferWriterError(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{err: errors.New("spi busy")}
	log := log2.NewTest(t, log2.LDebug)
	var logged error
	log.SetErrorFunc(func(e error) { logged = e })
	b := NewMemBuffer(log, 2, 1, w)
	b.Fill(RGB{1, 2, 3})
	b.Set(5, RGB{}) // out of range ignored
	b.Show()
	require.Error(t, b.Err())
	assert.Contains(t, b.Err().Error(), "spi busy")
	assert.Equal(t, b.Err(), logged)
	assert.Equal(t, []RGB{{1, 2, 3}, {1, 2, 3}}, b.Pixels())
}

func TestRainbowOnMemBuffer(t *testing.T) {
	t.Parallel()

	b := NewMemBuffer(nil, 12, 1, nil)
	t0 := time.Unix(5, 0)
	r := NewRainbow(b, RainbowConfig{Speed: DefaultSpeed, Interval: DefaultInterval}, t0)
	r.Update(t0.Add(DefaultInterval))
	assert.Equal(t, WheelByte(21), b.Get(1))
	assert.Equal(t, uint32(1), b.Shows())
	assert.Equal(t, b.Scaled()[1], WheelByte(21).RGBA())
}
