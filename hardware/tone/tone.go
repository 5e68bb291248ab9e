// Package tone plays short beeps and melodies on the keypad speaker.
package tone

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/keypad/log2"
)

const (
	DefaultFrequency = 440
	DefaultDuration  = 50 * time.Millisecond
)

// Player emits freq Hz for d. Zero freq is a rest (silence for d).
type Player interface {
	Play(freq float64, d time.Duration)
}

type Note struct {
	Freq     float64
	Duration time.Duration
}

type Melody []Note

// Startup is played once on boot.
var Startup = Melody{
	{660, 100 * time.Millisecond}, {660, 100 * time.Millisecond}, {0, 100 * time.Millisecond},
	{660, 100 * time.Millisecond}, {0, 100 * time.Millisecond}, {520, 100 * time.Millisecond},
	{660, 100 * time.Millisecond}, {0, 100 * time.Millisecond}, {784, 150 * time.Millisecond},
	{0, 150 * time.Millisecond}, {392, 150 * time.Millisecond}, {0, 150 * time.Millisecond},
}

// Descending run F#5 down to A4.
var Descending = Melody{
	{740, 150 * time.Millisecond}, {659, 150 * time.Millisecond}, {587, 150 * time.Millisecond},
	{554, 150 * time.Millisecond}, {494, 150 * time.Millisecond}, {440, 150 * time.Millisecond},
	{415, 150 * time.Millisecond}, {440, 200 * time.Millisecond},
}

// Melodies are known by name in key bindings.
var Melodies = map[string]Melody{
	"startup":    Startup,
	"mario":      Startup,
	"descending": Descending,
}

const ArpeggioNoteDuration = 100 * time.Millisecond

// Semitones from root.
var (
	ArpeggioMajor = []int{0, 4, 7, 12}
	ArpeggioMinor = []int{0, 3, 7, 12}
)

// Arpeggio plays pattern up then back down, top note once.
func Arpeggio(root float64, pattern []int, d time.Duration) Melody {
	m := make(Melody, 0, len(pattern)*2)
	for _, st := range pattern {
		m = append(m, Note{Freq: transpose(root, st), Duration: d})
	}
	for i := len(pattern) - 2; i >= 0; i-- {
		m = append(m, Note{Freq: transpose(root, pattern[i]), Duration: d})
	}
	return m
}

func transpose(f float64, semitones int) float64 {
	return math.Round(f*math.Pow(2, float64(semitones)/12)*100) / 100
}

// ParseArpeggio reads root note with optional "m" suffix for minor: "C4", "F#4m".
func ParseArpeggio(s string) (Melody, error) {
	s = strings.TrimSpace(s)
	pattern := ArpeggioMajor
	if len(s) > 1 && strings.HasSuffix(s, "m") {
		pattern = ArpeggioMinor
		s = s[:len(s)-1]
	}
	root, err := ParseNote(s)
	if err != nil {
		return nil, errors.Annotate(err, "arpeggio")
	}
	if root == 0 {
		return nil, errors.NotValidf("arpeggio root=%s", s)
	}
	return Arpeggio(root, pattern, ArpeggioNoteDuration), nil
}

// ParseMelody reads melody name or comma separated notes with optional duration in ms:
// "mario", "C5/100,E5/100,rest/50,G5".
func ParseMelody(s string) (Melody, error) {
	s = strings.TrimSpace(s)
	if m, ok := Melodies[strings.ToLower(s)]; ok {
		return m, nil
	}
	if s == "" {
		return nil, errors.NotValidf("empty melody")
	}
	parts := strings.Split(s, ",")
	m := make(Melody, 0, len(parts))
	for _, part := range parts {
		note, ms, hasMs := strings.Cut(part, "/")
		f, err := ParseNote(note)
		if err != nil {
			return nil, errors.Annotatef(err, "melody=%s", s)
		}
		d := DefaultDuration
		if hasMs {
			n, err := strconv.Atoi(ms)
			if err != nil || n <= 0 {
				return nil, errors.NotValidf("melody=%s duration=%s", s, ms)
			}
			d = time.Duration(n) * time.Millisecond
		}
		m = append(m, Note{Freq: f, Duration: d})
	}
	return m, nil
}

func (m Melody) Duration() time.Duration {
	var total time.Duration
	for _, n := range m {
		total += n.Duration
	}
	return total
}

func PlayMelody(p Player, m Melody) {
	if p == nil {
		return
	}
	for _, n := range m {
		p.Play(n.Freq, n.Duration)
	}
}

var semitones = map[byte]int{'c': -9, 'd': -7, 'e': -5, 'f': -4, 'g': -2, 'a': 0, 'b': 2}

// ParseNote converts scientific pitch notation to frequency, A4=440Hz, equal temperament.
// Accepts "C4", "F#5", "Bb3", "rest" and plain numbers "523.25".
func ParseNote(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.NotValidf("empty note")
	}
	if s == "rest" {
		return 0, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0, errors.NotValidf("note=%s negative frequency", s)
		}
		return f, nil
	}
	n, ok := semitones[s[0]]
	if !ok {
		return 0, errors.NotValidf("note=%s", s)
	}
	rest := s[1:]
	if strings.HasPrefix(rest, "#") {
		n++
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "b") {
		n--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 9 {
		return 0, errors.NotValidf("note=%s octave", s)
	}
	n += (octave - 4) * 12
	f := DefaultFrequency * math.Pow(2, float64(n)/12)
	return math.Round(f*100) / 100, nil
}

// LogPlayer is Player for hosts without speaker.
type LogPlayer struct {
	Log   *log2.Log
	Sleep bool
}

func (self LogPlayer) Play(freq float64, d time.Duration) {
	if freq == 0 {
		self.Log.Debugf("tone rest %v", d)
	} else {
		self.Log.Debugf("tone freq=%.2f duration=%v", freq, d)
	}
	if self.Sleep {
		time.Sleep(d)
	}
}

// Recorder remembers played notes, useful in tests and simulator.
type Recorder struct {
	Notes Melody
}

func (self *Recorder) Play(freq float64, d time.Duration) {
	self.Notes = append(self.Notes, Note{Freq: freq, Duration: d})
}
