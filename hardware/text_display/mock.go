package text_display

import (
	"strings"
	"sync"
)

func NewMockTextDisplay(opt *TextDisplayConfig) (*TextDisplay, *MemDevicer) {
	display, err := NewTextDisplay(opt)
	if err != nil {
		panic("code error " + err.Error())
	}
	dev := NewMemDevicer(2, display.Width())
	display.SetDevice(dev)
	return display, dev
}

// MemDevicer keeps character grid in memory, used by simulator and tests.
type MemDevicer struct {
	mu     sync.Mutex
	rows   [][]byte
	y, x   uint8
	writes int
}

func NewMemDevicer(rows int, width uint32) *MemDevicer {
	self := &MemDevicer{rows: make([][]byte, rows)}
	for i := range self.rows {
		self.rows[i] = make([]byte, width)
	}
	self.Clear()
	return self
}

func (self *MemDevicer) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()
	for _, row := range self.rows {
		copy(row, spaceBytes)
	}
	self.y, self.x = 1, 1
}

// 1-based, like HD44780 cursor
func (self *MemDevicer) CursorYX(y, x uint8) bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	if y < 1 || int(y) > len(self.rows) || x < 1 || int(x) > len(self.rows[0]) {
		return false
	}
	self.y, self.x = y, x
	return true
}

func (self *MemDevicer) Write(b []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()
	row := self.rows[self.y-1]
	n := copy(row[self.x-1:], b)
	self.x += uint8(n)
	self.writes++
}

func (self *MemDevicer) Lines() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	ss := make([]string, len(self.rows))
	for i, row := range self.rows {
		ss[i] = string(row)
	}
	return ss
}

func (self *MemDevicer) String() string { return strings.Join(self.Lines(), "\n") }
