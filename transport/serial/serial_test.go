package serial

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestListenerStepAssemblesFrame(t *testing.T) {
	l := &Listener{buf: make([]byte, 0, 256)}

	// SYNC(0xAA41) FRAMESIZE(0x0012=18) + 14 bytes (IDCODE, SOC, FRACSEC, CMD, CHK).
	fixture := []byte{
		0xAA, 0x41, 0x00, 0x12, 0x00, 0x3C, 0x48, 0x99,
		0x90, 0x9A, 0x00, 0x34, 0x2E, 0xD5, 0x00, 0x01,
		0x56, 0x0B,
	}

	var got []byte
	for _, b := range fixture[:len(fixture)-1] {
		frame, ok := l.step(b)
		require.False(t, ok)
		require.Nil(t, frame)
	}
	frame, ok := l.step(fixture[len(fixture)-1])
	require.True(t, ok)
	got = frame
	require.Equal(t, fixture, got)
}

func TestListenerStepResyncsOnGarbageBeforeSync(t *testing.T) {
	l := &Listener{buf: make([]byte, 0, 256)}

	for _, b := range []byte{0x00, 0xFF, 0x11} {
		_, ok := l.step(b)
		require.False(t, ok)
	}

	frame, ok := l.step(0xAA)
	require.False(t, ok)
	require.Nil(t, frame)
	require.Equal(t, stateTypeByte, l.state)
}

func TestListenerStepRejectsImplausibleFrameSize(t *testing.T) {
	l := &Listener{buf: make([]byte, 0, 256), log: logrus.NewEntry(logrus.New())}

	l.step(0xAA)
	l.step(0x41)
	l.step(0x00)
	_, ok := l.step(0x0F) // 15, below the 16-byte minimum
	require.False(t, ok)
	require.Equal(t, stateSync, l.state)
}
