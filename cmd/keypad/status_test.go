package main

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/keypad/log2"
)

func TestErrorCounter(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	c := &errorCounter{}
	log.SetErrorFunc(c.Add)
	log.Errorf("hid write err=%v", errors.New("gadget gone"))
	log.Error(errors.New("led show: spi busy"))
	log.Infof("not counted")
	log.Debugf("not counted")
	assert.Equal(t, uint64(2), c.Count())
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		idle   time.Duration
		errors uint64
		expect string
	}{
		{0, 0, "STATUS=idle 0s errors=0"},
		{90500 * time.Millisecond, 2, "STATUS=idle 1m30s errors=2"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.expect, func(t *testing.T) {
			assert.Equal(t, c.expect, statusText(c.idle, c.errors))
		})
	}
}
