// Package pmuconfig dissects the opaque Header/Configuration/Data
// payloads a c37118.Message carries, the same station, channel, and
// measurement model the teacher's frame.go/pmu_station.go/data_frame.go
// owned directly before framing and payload dissection were split apart.
package pmuconfig

import (
	"encoding/binary"
	"io"
	"strings"
)

const nameFieldLength = 16

// padName pads or truncates s to the fixed 16-byte station/channel name
// field width the standard requires.
func padName(s string) string {
	if len(s) >= nameFieldLength {
		return s[:nameFieldLength]
	}
	return s + strings.Repeat(" ", nameFieldLength-len(s))
}

func trimName(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// writeBinary writes each of values in turn, big-endian, stopping at the
// first error.
func writeBinary(w io.Writer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// readBinary reads each of values in turn, big-endian, stopping at the
// first error.
func readBinary(r io.Reader, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}
