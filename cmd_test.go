package c37118

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamedCmdRoundTrip(t *testing.T) {
	named := []CmdType{
		NewTurnOffDataFrames(),
		NewTurnOnDataFrames(),
		NewSendHdrFrame(),
		NewSendCfg1Frame(),
		NewSendCfg2Frame(),
		NewSendCfg3Frame(),
	}

	for _, cmd := range named {
		code, err := cmd.wireCode()
		require.NoError(t, err)

		sink := NewSliceSink(nil, MaxFrameSize)
		w := newWriter(sink, newChecksum())
		require.NoError(t, encodeCmdType(w, cmd))

		r := newReaderBytes(sink.View(), newChecksum())
		decoded, err := decodeCmdType(r)
		require.NoError(t, err)
		require.Equal(t, cmd.Code(), decoded.Code())

		wireDecoded, err := decoded.wireCode()
		require.NoError(t, err)
		require.Equal(t, code, wireDecoded)
	}
}

func TestUserDesignatedCodeBoundaries(t *testing.T) {
	_, err := NewUserDesignatedCode(255)
	require.ErrorIs(t, err, ErrInvalidEnumVariant)

	low, err := NewUserDesignatedCode(256)
	require.NoError(t, err)
	require.EqualValues(t, 256, low.Value())

	high, err := NewUserDesignatedCode(4095)
	require.NoError(t, err)
	require.EqualValues(t, 4095, high.Value())

	_, err = NewUserDesignatedCode(4096)
	require.ErrorIs(t, err, ErrInvalidEnumVariant)
}

func TestReservedUndesignatedCodeRejectsNamedAndUserRanges(t *testing.T) {
	_, err := NewReservedUndesignatedCode(1) // named: TurnOffDataFrames
	require.ErrorIs(t, err, ErrInvalidEnumVariant)

	_, err = NewReservedUndesignatedCode(500) // inside [256,4095]
	require.ErrorIs(t, err, ErrInvalidEnumVariant)

	ok, err := NewReservedUndesignatedCode(7) // gap between SendCfg3(6) and ExtendedFrame(8)
	require.NoError(t, err)
	require.Equal(t, ReservedUndesignatedCodeKind, ok.Code())
	require.EqualValues(t, 7, ok.Value())

	ok2, err := NewReservedUndesignatedCode(4096)
	require.NoError(t, err)
	require.EqualValues(t, 4096, ok2.Value())
}

func TestExtendedFrameMinimumOneByte(t *testing.T) {
	_, err := NewExtendedFrame(nil)
	require.ErrorIs(t, err, ErrInvalidEnumVariant)

	cmd, err := NewExtendedFrame([]byte{0x7F})
	require.NoError(t, err)
	require.Equal(t, []byte{0x7F}, cmd.Extra())
}

func TestDecodeCmdTypeUserDesignatedAndReserved(t *testing.T) {
	sink := NewSliceSink(nil, MaxFrameSize)
	w := newWriter(sink, newChecksum())
	require.NoError(t, w.U16(300))
	r := newReaderBytes(sink.View(), newChecksum())
	decoded, err := decodeCmdType(r)
	require.NoError(t, err)
	require.Equal(t, UserDesignatedCodeKind, decoded.Code())
	require.EqualValues(t, 300, decoded.Value())

	sink2 := NewSliceSink(nil, MaxFrameSize)
	w2 := newWriter(sink2, newChecksum())
	require.NoError(t, w2.U16(9))
	r2 := newReaderBytes(sink2.View(), newChecksum())
	decoded2, err := decodeCmdType(r2)
	require.NoError(t, err)
	require.Equal(t, ReservedUndesignatedCodeKind, decoded2.Code())
	require.EqualValues(t, 9, decoded2.Value())
}
