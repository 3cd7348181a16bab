package c37118

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTrip encodes msg then decodes the result, returning the decoded
// Message for assertion.
func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	sink := NewSliceSink(nil, MaxFrameSize)
	require.NoError(t, Encode(msg, sink))
	decoded, err := Decode(ByteSource(sink.View()))
	require.NoError(t, err)
	return decoded
}

func TestRoundTripOpaqueFrameKinds(t *testing.T) {
	tm := mustTime(t, 1700000000, 500000, false, false, true, UTC100ns)

	makers := map[FrameKind]func([]byte) DataType{
		KindData:   NewDataPayload,
		KindHeader: NewHeaderPayload,
		KindCfg1:   NewCfg1Payload,
		KindCfg2:   NewCfg2Payload,
		KindCfg3:   NewCfg3Payload,
	}

	for kind, newPayload := range makers {
		payload := []byte("synchrophasor payload for " + string(rune('A'+int(kind))))
		msg := Message{
			Version: Std2011,
			IDCode:  0xBEEF,
			Time:    tm,
			Data:    newPayload(payload),
		}

		decoded := roundTrip(t, msg)
		require.Equal(t, msg.Version, decoded.Version)
		require.Equal(t, msg.IDCode, decoded.IDCode)
		require.Equal(t, msg.Time, decoded.Time)
		require.Equal(t, kind, decoded.Data.Kind())
		require.Equal(t, payload, decoded.Data.Payload())
	}
}

func TestRoundTripCmdVariants(t *testing.T) {
	tm := mustTime(t, 1, 2, true, true, false, Locked)

	ext, err := NewExtendedFrame([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	userDesignated, err := NewUserDesignatedCode(1000)
	require.NoError(t, err)
	reserved, err := NewReservedUndesignatedCode(7)
	require.NoError(t, err)

	cmds := []CmdType{
		NewTurnOffDataFrames(),
		NewTurnOnDataFrames(),
		NewSendHdrFrame(),
		NewSendCfg1Frame(),
		NewSendCfg2Frame(),
		NewSendCfg3Frame(),
		ext,
		userDesignated,
		reserved,
	}

	for _, cmd := range cmds {
		msg := Message{
			Version: Std2005,
			IDCode:  1,
			Time:    tm,
			Data:    NewCmdPayload(cmd),
		}

		decoded := roundTrip(t, msg)
		decodedCmd, ok := decoded.Data.Cmd()
		require.True(t, ok)
		require.Equal(t, cmd.Code(), decodedCmd.Code())
		require.Equal(t, cmd.Value(), decodedCmd.Value())
		require.Equal(t, cmd.Extra(), decodedCmd.Extra())
	}
}

func TestRoundTripTimeQualityValues(t *testing.T) {
	qualities := []TimeQuality{
		Locked, UTC1ns, UTC10ns, UTC100ns, UTC1us, UTC10us, UTC100us,
		UTC1ms, UTC10ms, UTC100ms, UTC1s, UTC10s, FaultClock,
	}

	for _, q := range qualities {
		tm := mustTime(t, 123, 456, false, false, false, q)
		msg := Message{
			Version: Std2011,
			IDCode:  5,
			Time:    tm,
			Data:    NewDataPayload([]byte{0xAB}),
		}
		decoded := roundTrip(t, msg)
		require.Equal(t, q, decoded.Time.TimeQuality)
	}
}
