package c37118

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeScenario1(t *testing.T) {
	tm := mustTime(t, 1218023578, 3419861, false, false, false, Locked)
	msg := Message{
		Version: Std2005,
		IDCode:  60,
		Time:    tm,
		Data:    NewCmdPayload(NewTurnOffDataFrames()),
	}

	sink := NewSliceSink(nil, MaxFrameSize)
	require.NoError(t, Encode(msg, sink))
	require.Equal(t, scenario1Bytes(), sink.View())
}

func TestEncodeSinkOverflow(t *testing.T) {
	tm := mustTime(t, 0, 0, false, false, false, Locked)
	msg := Message{
		Version: Std2011,
		IDCode:  1,
		Time:    tm,
		Data:    NewDataPayload(make([]byte, 32)),
	}

	sink := NewSliceSink(nil, 20) // too small to hold a 48-byte frame
	err := Encode(msg, sink)
	require.ErrorIs(t, err, ErrSpaceExceeded)
}

func TestEncodeInvalidUserDesignatedCode(t *testing.T) {
	tm := mustTime(t, 0, 0, false, false, false, Locked)
	_, err := NewUserDesignatedCode(10)
	require.ErrorIs(t, err, ErrInvalidEnumVariant)

	// A CmdType built directly with an out-of-range numeric value (as if
	// constructed unsafely) must still fail at encode time.
	bad := CmdType{code: UserDesignatedCodeKind, numeric: 10}
	msg := Message{Version: Std2011, IDCode: 1, Time: tm, Data: NewCmdPayload(bad)}
	require.ErrorIs(t, Encode(msg, NewSliceSink(nil, MaxFrameSize)), ErrInvalidEnumVariant)
}

func TestEncodeFrameSizeMatchesLength(t *testing.T) {
	tm := mustTime(t, 42, 1000, false, false, false, UTC1ms)
	msg := Message{
		Version: Std2011,
		IDCode:  9,
		Time:    tm,
		Data:    NewHeaderPayload([]byte("hello station")),
	}
	sink := NewSliceSink(nil, MaxFrameSize)
	require.NoError(t, Encode(msg, sink))

	out := sink.View()
	require.Len(t, out, int(frameOverhead)+len("hello station"))

	framesize := uint16(out[2])<<8 | uint16(out[3])
	require.EqualValues(t, len(out), framesize)
}
