package c37118

import "encoding/binary"

// reader is the big-endian primitive reader over a byte Source (C3). It
// keeps a monotonic cursor and feeds every consumed byte into an
// incremental checksum, except where the caller explicitly bypasses it
// (used only for the trailing CHK field).
type reader struct {
	buf    []byte
	cursor int
	crc    *checksum
}

func newReader(src Source, crc *checksum) *reader {
	return &reader{buf: src.Bytes(), crc: crc}
}

// newReaderBytes constructs a reader over an explicit byte range, used
// by the decoder driver to bound the reader to the checksummed portion
// of a frame (everything except the trailing CHK).
func newReaderBytes(buf []byte, crc *checksum) *reader {
	return &reader{buf: buf, crc: crc}
}

// take advances the cursor by n bytes and returns the consumed slice, or
// ErrIllegalAccess if fewer than n bytes remain.
func (r *reader) take(n int) ([]byte, error) {
	if r.cursor+n > len(r.buf) {
		return nil, ErrIllegalAccess
	}
	b := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

// U16 reads a big-endian uint16, updating the checksum.
func (r *reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	r.crc.Update(b)
	return binary.BigEndian.Uint16(b), nil
}

// U32 reads a big-endian uint32, updating the checksum.
func (r *reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	r.crc.Update(b)
	return binary.BigEndian.Uint32(b), nil
}

// Bytes borrows the next n bytes from the source, updating the checksum.
func (r *reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	r.crc.Update(b)
	return b, nil
}

// Remaining borrows every byte from the cursor to the end of the source,
// advancing the cursor to the end and updating the checksum.
func (r *reader) Remaining() []byte {
	b := r.buf[r.cursor:]
	r.cursor = len(r.buf)
	r.crc.Update(b)
	return b
}

// U16NoChecksum reads a big-endian uint16 without feeding the checksum
// engine. Used only to read the trailing CHK field, which is verified
// against, not folded into, the running checksum.
func (r *reader) U16NoChecksum() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}
