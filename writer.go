package c37118

import "encoding/binary"

// writer is the big-endian primitive writer over a byte Sink (C4),
// symmetric to reader. Every write feeds the checksum engine except
// the final CRC emission, which bypasses it.
type writer struct {
	sink Sink
	crc  *checksum
}

func newWriter(sink Sink, crc *checksum) *writer {
	return &writer{sink: sink, crc: crc}
}

// U16 writes v big-endian and updates the checksum.
func (w *writer) U16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	if err := w.sink.Append(b[:]); err != nil {
		return err
	}
	w.crc.Update(b[:])
	return nil
}

// U32 writes v big-endian and updates the checksum.
func (w *writer) U32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	if err := w.sink.Append(b[:]); err != nil {
		return err
	}
	w.crc.Update(b[:])
	return nil
}

// Bytes writes an opaque run of bytes verbatim and updates the checksum.
func (w *writer) Bytes(b []byte) error {
	if err := w.sink.Append(b); err != nil {
		return err
	}
	w.crc.Update(b)
	return nil
}

// FinalizeChecksum writes the finalized CRC-CCITT as big-endian 16 bits
// without updating the checksum state (it would be circular to do so).
func (w *writer) FinalizeChecksum() error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], w.crc.Finalize())
	return w.sink.Append(b[:])
}
