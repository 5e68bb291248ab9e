package text_display

import "github.com/juju/errors"

// PinMap is HD44780 wiring, GPIO line offsets.
type PinMap struct {
	RS int `hcl:"rs"`
	RW int `hcl:"rw"`
	E  int `hcl:"e"`
	D4 int `hcl:"d4"`
	D5 int `hcl:"d5"`
	D6 int `hcl:"d6"`
	D7 int `hcl:"d7"`
}

func (p PinMap) Offsets() ([]uint32, error) {
	ns := []int{p.RS, p.RW, p.E, p.D4, p.D5, p.D6, p.D7}
	seen := make(map[int]struct{}, len(ns))
	offsets := make([]uint32, len(ns))
	for i, n := range ns {
		if n < 0 {
			return nil, errors.NotValidf("hd44780 pin=%d", n)
		}
		if _, ok := seen[n]; ok {
			return nil, errors.NotValidf("hd44780 pin=%d used twice", n)
		}
		seen[n] = struct{}{}
		offsets[i] = uint32(n)
	}
	return offsets, nil
}
