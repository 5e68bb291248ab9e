package hid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// ReportSize is boot keyboard input report: modifiers, reserved, 6 key slots.
const ReportSize = 8

const MaxChordKeys = 6

type Report [ReportSize]byte

// Chord is keys pressed together, e.g. ctrl+shift+t.
type Chord struct {
	Modifiers byte
	Keys      []byte
}

func (c Chord) IsZero() bool { return c.Modifiers == 0 && len(c.Keys) == 0 }

func (c Chord) Report() Report {
	var r Report
	r[0] = c.Modifiers
	copy(r[2:], c.Keys)
	return r
}

func (c Chord) String() string {
	if c.IsZero() {
		return ""
	}
	parts := make([]string, 0, 8)
	mods := make([]string, 0, 4)
	for name, bit := range modifierNames {
		if c.Modifiers&bit != 0 && canonicalModifier[name] {
			mods = append(mods, name)
		}
	}
	sort.Strings(mods)
	parts = append(parts, mods...)
	for _, k := range c.Keys {
		parts = append(parts, keyName(k))
	}
	return strings.Join(parts, "+")
}

var canonicalModifier = map[string]bool{
	"ctrl": true, "shift": true, "alt": true, "gui": true,
	"rctrl": true, "rshift": true, "ralt": true, "rgui": true,
}

func keyName(k byte) string {
	best := ""
	for name, code := range keyNames {
		// prefer shortest, then alphabetical, for stable output with aliases
		if code == k && (best == "" || len(name) < len(best) || (len(name) == len(best) && name < best)) {
			best = name
		}
	}
	if best == "" {
		return fmt.Sprintf("0x%02x", k)
	}
	return best
}

// ParseChord accepts names joined by '+', case insensitive: "ctrl+c", "cmd+shift+4", "f5".
// Raw usage ids are accepted as 0xNN.
func ParseChord(s string) (Chord, error) {
	var c Chord
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return c, errors.NotValidf("empty chord")
	}
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if bit, ok := modifierNames[part]; ok {
			c.Modifiers |= bit
			continue
		}
		code, ok := keyNames[part]
		if !ok {
			var raw int
			if _, err := fmt.Sscanf(part, "0x%x", &raw); err != nil || raw <= 0 || raw > 0xff {
				return Chord{}, errors.NotValidf("chord=%q key=%q", s, part)
			}
			code = byte(raw)
		}
		if len(c.Keys) == MaxChordKeys {
			return Chord{}, errors.NotValidf("chord=%q more than %d keys", s, MaxChordKeys)
		}
		c.Keys = append(c.Keys, code)
	}
	return c, nil
}

func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic("code error " + err.Error())
	}
	return c
}
