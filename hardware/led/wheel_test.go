package led

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheelGolden(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pos    int
		expect RGB
	}{
		{0, RGB{255, 0, 0}},
		{1, RGB{252, 3, 0}},
		{84, RGB{3, 252, 0}},
		{85, RGB{0, 255, 0}},
		{128, RGB{0, 126, 129}},
		{170, RGB{0, 0, 255}},
		{171, RGB{3, 0, 252}},
		{255, RGB{255, 0, 0}},
	}
	for _, c := range cases {
		c := c
		t.Run(fmt.Sprint(c.pos), func(t *testing.T) {
			got, err := Wheel(c.pos)
			require.NoError(t, err)
			assert.Equal(t, c.expect, got)
		})
	}
}

func TestWheelTotal(t *testing.T) {
	t.Parallel()

	for p := 0; p <= 255; p++ {
		c, err := Wheel(p)
		require.NoError(t, err)
		// bands partition 255 between two channels, third is off
		sum := int(c.R) + int(c.G) + int(c.B)
		assert.Equal(t, 255, sum, "pos=%d color=%s", p, c)
		assert.Equal(t, WheelByte(uint8(p)), c)
	}
}

func TestWheelBoundaryContinuity(t *testing.T) {
	t.Parallel()

	// 0 and 255 happen to be equal; neighbours across the seam are not a continuous step
	w0, _ := Wheel(0)
	w255, _ := Wheel(255)
	w254, _ := Wheel(254)
	assert.Equal(t, w0, w255)
	assert.NotEqual(t, w255, w254)
}

func TestWheelOutOfRange(t *testing.T) {
	t.Parallel()

	for _, p := range []int{-1, 256, 1000, -256} {
		_, err := Wheel(p)
		require.Error(t, err, "pos=%d", p)
		assert.True(t, IsOutOfRange(err), "pos=%d err=%v", p, err)
		assert.Contains(t, err.Error(), fmt.Sprintf("pos=%d", p))
	}
	assert.False(t, IsOutOfRange(nil))
}
