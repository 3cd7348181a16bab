package c37118

import "github.com/sigurn/crc16"

// ieeeC37118Params is the CRC-CCITT variant the standard specifies:
// polynomial 0x1021, seed 0xFFFF, MSB-first, no reflection, no final XOR.
var ieeeC37118Params = crc16.Params{
	Poly:   0x1021,
	Init:   0xFFFF,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x0000,
	Name:   "CRC-16/IEEE-C37.118",
}

var crcTable = crc16.MakeTable(ieeeC37118Params)

// checksum is an incremental CRC-CCITT engine (C1). Every byte that
// crosses the wire except the trailing CHK itself is fed through Update.
type checksum struct {
	state uint16
}

// newChecksum returns an engine seeded per the standard.
func newChecksum() *checksum {
	return &checksum{state: crc16.Init(crcTable)}
}

// Update folds additional bytes into the running checksum.
func (c *checksum) Update(b []byte) {
	if len(b) == 0 {
		return
	}
	c.state = crc16.Update(c.state, b, crcTable)
}

// Finalize returns the completed CRC-CCITT value.
func (c *checksum) Finalize() uint16 {
	return crc16.Complete(c.state, crcTable)
}

// CalcCRC computes the CRC-CCITT over a complete byte slice in one call.
// Exposed for callers that already hold a full frame (e.g. §8 scenario 8
// of spec.md, which checks the CRC of a standalone 16-byte fixture).
func CalcCRC(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}
