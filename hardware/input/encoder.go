package input

import "fmt"

type Mode uint8

const (
	ModeVolume Mode = iota
	ModeScreen
)

func (m Mode) String() string {
	switch m {
	case ModeVolume:
		return "Volume"
	case ModeScreen:
		return "Screen"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func (m Mode) Toggle() Mode {
	if m == ModeVolume {
		return ModeScreen
	}
	return ModeVolume
}

type EncoderEventKind uint8

const (
	EventNone EncoderEventKind = iota
	EventModeChanged
	EventVolumeDelta
	EventScreenDelta
)

// EncoderEvent is a tagged variant: Mode is set for EventModeChanged, Delta for the two delta kinds.
type EncoderEvent struct {
	Kind  EncoderEventKind
	Mode  Mode
	Delta int
}

func (e EncoderEvent) String() string {
	switch e.Kind {
	case EventNone:
		return "None"
	case EventModeChanged:
		return fmt.Sprintf("ModeChanged(%s)", e.Mode)
	case EventVolumeDelta:
		return fmt.Sprintf("VolumeDelta(%d)", e.Delta)
	case EventScreenDelta:
		return fmt.Sprintf("ScreenDelta(%d)", e.Delta)
	}
	return fmt.Sprintf("EncoderEvent(kind=%d)", e.Kind)
}

// EncoderHandler routes rotation to volume or screen depending on mode.
// Mode toggles on switch press edge only. Switch debounce is done by the source.
type EncoderHandler struct {
	mode Mode
	last int
}

func NewEncoderHandler(position int) *EncoderHandler {
	return &EncoderHandler{mode: ModeVolume, last: position}
}

func (self *EncoderHandler) Mode() Mode         { return self.mode }
func (self *EncoderHandler) IsVolumeMode() bool { return self.mode == ModeVolume }
func (self *EncoderHandler) IsScreenMode() bool { return self.mode == ModeScreen }
func (self *EncoderHandler) Position() int      { return self.last }

// Update processes one poll. toggle is ModeChanged or None,
// rotate is VolumeDelta, ScreenDelta or None, never both deltas.
func (self *EncoderHandler) Update(switchEdge bool, position int) (toggle, rotate EncoderEvent) {
	if switchEdge {
		self.mode = self.mode.Toggle()
		toggle = EncoderEvent{Kind: EventModeChanged, Mode: self.mode}
	}

	delta := position - self.last
	self.last = position
	if delta != 0 {
		switch self.mode {
		case ModeVolume:
			rotate = EncoderEvent{Kind: EventVolumeDelta, Delta: delta}
		case ModeScreen:
			rotate = EncoderEvent{Kind: EventScreenDelta, Delta: delta}
		}
	}
	return toggle, rotate
}
