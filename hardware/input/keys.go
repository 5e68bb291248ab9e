package input

import (
	"fmt"
	"sort"
)

// KeyEvent lives for one polling iteration. Absent event is nil *KeyEvent.
type KeyEvent struct {
	Key     int
	Pressed bool
}

func (e KeyEvent) String() string {
	if e.Pressed {
		return fmt.Sprintf("key=%d down", e.Key)
	}
	return fmt.Sprintf("key=%d up", e.Key)
}

// KeyHandler tracks held keys and the event of current iteration.
// Invariant: key is in pressed set iff its latest event was a press.
type KeyHandler struct {
	pressed map[int]struct{}
	last    *KeyEvent
}

func NewKeyHandler() *KeyHandler {
	return &KeyHandler{pressed: make(map[int]struct{}, 12)}
}

// Update is called once per iteration, nil when source had nothing.
func (self *KeyHandler) Update(e *KeyEvent) {
	self.last = nil
	if e == nil {
		return
	}
	ev := *e
	self.last = &ev
	if ev.Pressed {
		self.pressed[ev.Key] = struct{}{}
	} else {
		delete(self.pressed, ev.Key)
	}
}

func (self *KeyHandler) LastEvent() *KeyEvent { return self.last }

func (self *KeyHandler) AnyPressed() bool { return len(self.pressed) > 0 }

func (self *KeyHandler) IsPressed(key int) bool {
	_, ok := self.pressed[key]
	return ok
}

// Pressed returns held keys in ascending order.
func (self *KeyHandler) Pressed() []int {
	keys := make([]int, 0, len(self.pressed))
	for k := range self.pressed {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (self *KeyHandler) JustPressedAny() bool  { return self.last != nil && self.last.Pressed }
func (self *KeyHandler) JustReleasedAny() bool { return self.last != nil && !self.last.Pressed }

func (self *KeyHandler) JustPressed(key int) bool {
	return self.JustPressedAny() && self.last.Key == key
}

func (self *KeyHandler) JustReleased(key int) bool {
	return self.JustReleasedAny() && self.last.Key == key
}
