// Package screen keeps an ordered list of key layouts and the current one.
package screen

import "fmt"

const NoScreensName = "No Screens"

// Screen maps key numbers to actions. Action type is defined by the application.
type Screen[A any] struct {
	Name string
	Keys []A
}

// Manager navigates screens cyclically. Current index is valid whenever the list is not empty.
type Manager[A any] struct {
	screens []Screen[A]
	index   int
}

func NewManager[A any](screens ...Screen[A]) *Manager[A] {
	return &Manager[A]{screens: screens}
}

func (self *Manager[A]) Add(s Screen[A]) { self.screens = append(self.screens, s) }

func (self *Manager[A]) Len() int   { return len(self.screens) }
func (self *Manager[A]) Index() int { return self.index }

func (self *Manager[A]) Next() { self.Change(1) }
func (self *Manager[A]) Prev() { self.Change(-1) }

// Change moves by delta screens with wrap around, same end state as delta Next/Prev calls.
func (self *Manager[A]) Change(delta int) {
	n := len(self.screens)
	if n == 0 || delta == 0 {
		return
	}
	// Go % keeps dividend sign. index+delta%n is within (-n, 2n), no overflow
	self.index = ((self.index+delta%n)%n + n) % n
}

func (self *Manager[A]) Current() (Screen[A], bool) {
	if len(self.screens) == 0 {
		return Screen[A]{}, false
	}
	return self.screens[self.index], true
}

func (self *Manager[A]) Name() string {
	s, ok := self.Current()
	if !ok {
		return NoScreensName
	}
	if s.Name == "" {
		return fmt.Sprintf("Screen %d", self.index)
	}
	return s.Name
}

// KeyAction returns action bound to key on current screen, false for unbound key or no screens.
func (self *Manager[A]) KeyAction(key int) (A, bool) {
	var zero A
	s, ok := self.Current()
	if !ok || key < 0 || key >= len(s.Keys) {
		return zero, false
	}
	return s.Keys[key], true
}
