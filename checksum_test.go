package c37118

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcCRCSeedFixture(t *testing.T) {
	// spec.md §8 scenario 8.
	data := []byte{
		0xAA, 0x41, 0x00, 0x12, 0x00, 0x3C, 0x48, 0x99,
		0x90, 0x9A, 0x00, 0x90, 0x2E, 0x12, 0x00, 0x05,
	}
	require.Equal(t, uint16(0x168A), CalcCRC(data))
}

func TestChecksumIncrementalMatchesOneShot(t *testing.T) {
	data := []byte{0xAA, 0x41, 0x00, 0x12, 0x00, 0x3C, 0x48, 0x99, 0x90, 0x9A}

	oneShot := CalcCRC(data)

	c := newChecksum()
	c.Update(data[:3])
	c.Update(data[3:7])
	c.Update(data[7:])
	require.Equal(t, oneShot, c.Finalize())
}

func TestChecksumEmptyUpdateNoOp(t *testing.T) {
	c := newChecksum()
	c.Update(nil)
	require.Equal(t, CalcCRC(nil), c.Finalize())
}
