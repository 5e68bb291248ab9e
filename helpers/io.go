package helpers

import (
	"io"
)

// WriteAll retries short writes, HID gadget endpoints may accept partial reports.
func WriteAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == len(b) {
			return nil
		}
		b = b[n:]
	}
	return nil
}
