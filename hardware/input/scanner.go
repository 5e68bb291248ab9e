package input

import "time"

// MaxScanKeys is limited by uint64 bitmap.
const MaxScanKeys = 64

// Scanner turns raw "key is down" bitmaps into debounced press/release events.
// A key change is committed after it stays for the debounce interval.
type Scanner struct {
	n        int
	debounce time.Duration
	stable   uint64
	since    [MaxScanKeys]time.Time
	queue    []KeyEvent
}

// compile-time interface compliance test
var _ KeySource = new(Scanner)

func NewScanner(n int, debounce time.Duration) *Scanner {
	if n > MaxScanKeys {
		n = MaxScanKeys
	}
	return &Scanner{n: n, debounce: debounce}
}

// Scan processes one raw reading, bit i set means key i is down.
func (self *Scanner) Scan(now time.Time, raw uint64) {
	for i := 0; i < self.n; i++ {
		bit := uint64(1) << uint(i)
		if raw&bit == self.stable&bit {
			self.since[i] = time.Time{}
			continue
		}
		if self.since[i].IsZero() {
			self.since[i] = now
		}
		if now.Sub(self.since[i]) < self.debounce {
			continue
		}
		self.stable ^= bit
		self.since[i] = time.Time{}
		self.queue = append(self.queue, KeyEvent{Key: i, Pressed: self.stable&bit != 0})
	}
}

func (self *Scanner) PollKey() *KeyEvent {
	if len(self.queue) == 0 {
		return nil
	}
	e := self.queue[0]
	self.queue = self.queue[1:]
	return &e
}

func (self *Scanner) Stable() uint64 { return self.stable }

// Switch is a single debounced button reporting press edges, e.g. encoder push.
type Switch struct {
	s *Scanner
}

func NewSwitch(debounce time.Duration) *Switch {
	return &Switch{s: NewScanner(1, debounce)}
}

// Update returns true once per debounced press.
func (self *Switch) Update(now time.Time, down bool) bool {
	var raw uint64
	if down {
		raw = 1
	}
	self.s.Scan(now, raw)
	edge := false
	for e := self.s.PollKey(); e != nil; e = self.s.PollKey() {
		if e.Pressed {
			edge = true
		}
	}
	return edge
}

func (self *Switch) IsDown() bool { return self.s.Stable()&1 != 0 }
