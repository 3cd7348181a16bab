package c37118

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scenario1 is spec.md §8 scenario 1: Command, TurnOffDataFrames,
// Std2005, idcode 60, soc 1218023578, fracsec 3419861, quality Locked.
func scenario1Bytes() []byte {
	return []byte{
		0xAA, 0x41, 0x00, 0x12, 0x00, 0x3C, 0x48, 0x99,
		0x90, 0x9A, 0x00, 0x34, 0x2E, 0xD5, 0x00, 0x01,
		0x56, 0x0B,
	}
}

func TestDecodeScenario1(t *testing.T) {
	msg, err := Decode(ByteSource(scenario1Bytes()))
	require.NoError(t, err)

	require.Equal(t, Std2005, msg.Version)
	require.Equal(t, uint16(60), msg.IDCode)
	require.Equal(t, uint32(1218023578), msg.Time.SOC)
	require.Equal(t, uint32(3419861), msg.Time.Fracsec)
	require.False(t, msg.Time.LeapSecondDirection)
	require.False(t, msg.Time.LeapSecondOccurred)
	require.False(t, msg.Time.LeapSecondPending)
	require.Equal(t, Locked, msg.Time.TimeQuality)

	cmd, ok := msg.Data.Cmd()
	require.True(t, ok)
	require.Equal(t, TurnOffDataFrames, cmd.Code())
}

func TestDecodeScenario2ChecksumFlipped(t *testing.T) {
	b := scenario1Bytes()
	b[16], b[17] = 0x56, 0x0C
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestDecodeScenario3BadSync(t *testing.T) {
	b := scenario1Bytes()
	b[0], b[1] = 0xAB, 0x41
	// Recomputed CHK for the altered SYNC per spec.md §8 scenario 3.
	b[16], b[17] = 0xFE, 0x2F
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, baseFrameErr(IncorrectSyncWord))
}

func TestDecodeScenario4UnknownVersion(t *testing.T) {
	b := scenario1Bytes()
	b[1] = 0x43
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, baseFrameErr(UnknownFrameVersionNumber))
}

func TestDecodeScenario5UnknownFrameType(t *testing.T) {
	b := scenario1Bytes()
	b[1] = 0x62
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, baseFrameErr(UnknownFrameType))
}

func TestDecodeScenario6UnknownTimeQuality(t *testing.T) {
	b := scenario1Bytes()
	b[10] = 0x0C
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, baseFrameErr(UnknownTimeQuality))
}

func TestDecodeScenario7ReservedFracsecBit(t *testing.T) {
	b := scenario1Bytes()
	b[10] |= 0x80
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, baseFrameErr(IncorrectReservedFracsecBit))
}

func TestDecodeTooShort(t *testing.T) {
	_, err := Decode(ByteSource(make([]byte, 10)))
	require.ErrorIs(t, err, ErrInvalidFrameSize)
}

func TestDecodeFrameSizeMismatch(t *testing.T) {
	b := scenario1Bytes()
	b[2], b[3] = 0x00, 0x13 // claim 19 bytes while the source holds 18
	_, err := Decode(ByteSource(b))
	require.ErrorIs(t, err, ErrInvalidFrameSize)
}

func TestDecodeExtendedFrameCmd(t *testing.T) {
	msg := Message{
		Version: Std2011,
		IDCode:  7,
		Time:    mustTime(t, 0, 0, false, false, false, Locked),
	}
	extra := []byte{0x01, 0x02, 0x03}
	cmd, err := NewExtendedFrame(extra)
	require.NoError(t, err)
	msg.Data = NewCmdPayload(cmd)

	sink := NewSliceSink(nil, MaxFrameSize)
	require.NoError(t, Encode(msg, sink))

	decoded, err := Decode(ByteSource(sink.View()))
	require.NoError(t, err)
	decodedCmd, ok := decoded.Data.Cmd()
	require.True(t, ok)
	require.Equal(t, ExtendedFrameCode, decodedCmd.Code())
	require.Equal(t, extra, decodedCmd.Extra())
}

func mustTime(t *testing.T, soc, fracsec uint32, dir, occ, pend bool, q TimeQuality) Time {
	t.Helper()
	tm, err := NewTime(soc, fracsec, dir, occ, pend, q)
	require.NoError(t, err)
	return tm
}
