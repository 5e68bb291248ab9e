package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/keypad/cmd/keypad/subcmd"
	"github.com/temoto/keypad/head"
	"github.com/temoto/keypad/log2"
)

const statusInterval = 10 * time.Second

// errorCounter is log2.ErrorFunc counting every logged error: HID writes, LED strip, display.
type errorCounter struct{ n uint64 }

func (self *errorCounter) Add(error)     { atomic.AddUint64(&self.n, 1) }
func (self *errorCounter) Count() uint64 { return atomic.LoadUint64(&self.n) }

func statusText(idle time.Duration, errors uint64) string {
	return fmt.Sprintf("STATUS=idle %v errors=%d", idle.Truncate(time.Second), errors)
}

// reportStatus shows idle time and error count in `systemctl status`.
func reportStatus(log *log2.Log, a *alive.Alive, kp *head.Keypad, errs *errorCounter, interval time.Duration) {
	tmr := time.NewTicker(interval)
	defer tmr.Stop()
	stopch := a.StopChan()
	for {
		select {
		case now := <-tmr.C:
			subcmd.SdNotify(log, statusText(kp.IdleFor(now), errs.Count()))
		case <-stopch:
			return
		}
	}
}
