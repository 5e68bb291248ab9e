// Package keymap parses key bindings of config screens into actions.
//
// Binding syntax, words separated by spaces:
//
//	"ctrl+c"             send chord
//	"tone:C5"            play note instead of default beep
//	"cmd+space tone:A4"  both
//	"melody:mario"       play named melody, or notes "melody:C5/100,E5/100,G5"
//	"arp:C4" "arp:A4m"   play major (minor with m) arpeggio up and down
//	"label:Copy ctrl+c"  display label
//	"qr:https://x.io/a"  show QR code on graphic display while held
//	""                   no action
package keymap

import (
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/keypad/hardware/hid"
	"github.com/temoto/keypad/hardware/tone"
)

type Action struct {
	Label string
	Chord hid.Chord
	// Zero means default key beep.
	Tone float64
	// Played instead of beep.
	Melody tone.Melody
	QR     string
}

func (a Action) IsZero() bool {
	return a.Chord.IsZero() && a.Tone == 0 && a.Label == "" && a.QR == "" && len(a.Melody) == 0
}

func (a Action) String() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Chord.String()
}

func ParseAction(s string) (Action, error) {
	a := Action{}
	for _, word := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(word, "tone:"):
			f, err := tone.ParseNote(word[5:])
			if err != nil {
				return Action{}, errors.Annotatef(err, "action=%q", s)
			}
			a.Tone = f

		case strings.HasPrefix(word, "melody:"):
			m, err := tone.ParseMelody(word[7:])
			if err != nil {
				return Action{}, errors.Annotatef(err, "action=%q", s)
			}
			a.Melody = m

		case strings.HasPrefix(word, "arp:"):
			m, err := tone.ParseArpeggio(word[4:])
			if err != nil {
				return Action{}, errors.Annotatef(err, "action=%q", s)
			}
			a.Melody = m

		case strings.HasPrefix(word, "label:"):
			a.Label = word[6:]

		case strings.HasPrefix(word, "qr:"):
			if len(word) == 3 {
				return Action{}, errors.NotValidf("action=%q empty qr", s)
			}
			a.QR = word[3:]

		default:
			if !a.Chord.IsZero() {
				return Action{}, errors.NotValidf("action=%q more than one chord", s)
			}
			c, err := hid.ParseChord(word)
			if err != nil {
				return Action{}, errors.Annotatef(err, "action=%q", s)
			}
			a.Chord = c
		}
	}
	return a, nil
}

// ParseActions parses one screen worth of bindings, errors are collected per key.
func ParseActions(ss []string) ([]Action, []error) {
	as := make([]Action, len(ss))
	var errs []error
	for i, s := range ss {
		a, err := ParseAction(s)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "key=%d", i))
			continue
		}
		as[i] = a
	}
	return as, errs
}
