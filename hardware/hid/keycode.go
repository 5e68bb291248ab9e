// Package hid encodes key actions as USB HID boot keyboard reports.
package hid

// Modifier bits of report byte 0.
const (
	ModLeftCtrl   byte = 0x01
	ModLeftShift  byte = 0x02
	ModLeftAlt    byte = 0x04
	ModLeftGUI    byte = 0x08
	ModRightCtrl  byte = 0x10
	ModRightShift byte = 0x20
	ModRightAlt   byte = 0x40
	ModRightGUI   byte = 0x80
)

// Keyboard/Keypad usage page (0x07).
const (
	KeyA          byte = 0x04
	Key1          byte = 0x1e
	Key0          byte = 0x27
	KeyEnter      byte = 0x28
	KeyEscape     byte = 0x29
	KeyBackspace  byte = 0x2a
	KeyTab        byte = 0x2b
	KeySpace      byte = 0x2c
	KeyF1         byte = 0x3a
	KeyF13        byte = 0x68
	KeyMute       byte = 0x7f
	KeyVolumeUp   byte = 0x80
	KeyVolumeDown byte = 0x81
)

var modifierNames = map[string]byte{
	"ctrl": ModLeftCtrl, "control": ModLeftCtrl, "lctrl": ModLeftCtrl, "rctrl": ModRightCtrl,
	"shift": ModLeftShift, "lshift": ModLeftShift, "rshift": ModRightShift,
	"alt": ModLeftAlt, "option": ModLeftAlt, "lalt": ModLeftAlt, "ralt": ModRightAlt,
	"gui": ModLeftGUI, "cmd": ModLeftGUI, "win": ModLeftGUI, "super": ModLeftGUI, "rgui": ModRightGUI,
}

var keyNames = map[string]byte{
	"enter": KeyEnter, "return": KeyEnter,
	"esc": KeyEscape, "escape": KeyEscape,
	"backspace": KeyBackspace, "tab": KeyTab, "space": KeySpace,
	"minus": 0x2d, "equal": 0x2e, "lbracket": 0x2f, "rbracket": 0x30, "backslash": 0x31,
	"semicolon": 0x33, "quote": 0x34, "grave": 0x35, "comma": 0x36, "dot": 0x37, "slash": 0x38,
	"capslock": 0x39, "printscreen": 0x46, "scrolllock": 0x47, "pause": 0x48,
	"insert": 0x49, "home": 0x4a, "pageup": 0x4b, "delete": 0x4c, "end": 0x4d, "pagedown": 0x4e,
	"right": 0x4f, "left": 0x50, "down": 0x51, "up": 0x52,
	"mute": KeyMute, "volumeup": KeyVolumeUp, "volumedown": KeyVolumeDown,
}

func init() {
	for c := byte('a'); c <= 'z'; c++ {
		keyNames[string(c)] = KeyA + (c - 'a')
	}
	// usage order is 1..9 then 0
	for c := byte('1'); c <= '9'; c++ {
		keyNames[string(c)] = Key1 + (c - '1')
	}
	keyNames["0"] = Key0
	for i := 1; i <= 12; i++ {
		keyNames[fkeyName(i)] = KeyF1 + byte(i-1)
	}
	for i := 13; i <= 24; i++ {
		keyNames[fkeyName(i)] = KeyF13 + byte(i-13)
	}
}

func fkeyName(i int) string {
	if i < 10 {
		return "f" + string(rune('0'+i))
	}
	return "f" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}
