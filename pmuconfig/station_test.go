package pmuconfig

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStationFormatBits(t *testing.T) {
	s := NewStation("X", 1, true, false, true, true)
	require.True(t, s.FloatFreq())
	require.False(t, s.FloatAnalogs())
	require.True(t, s.FloatPhasors())
	require.True(t, s.PolarPhasors())

	s2 := NewStation("Y", 1, false, true, false, false)
	require.False(t, s2.FloatFreq())
	require.True(t, s2.FloatAnalogs())
	require.False(t, s2.FloatPhasors())
	require.False(t, s2.PolarPhasors())
}

func TestStationNominalFrequency(t *testing.T) {
	s := NewStation("X", 1, false, false, false, false)
	require.EqualValues(t, 60.0, s.NominalFrequency())
	s.Fnom = FreqNom50Hz
	require.EqualValues(t, 50.0, s.NominalFrequency())
}

func TestStationPhasorFactorOutOfRangeDefaultsToOne(t *testing.T) {
	s := NewStation("X", 1, false, false, false, false)
	require.EqualValues(t, 1, s.PhasorFactor(5))
}

func TestStationEncodedLenMatchesWriteTo(t *testing.T) {
	s := NewStation("STN", 1, false, false, false, false)
	s.AddPhasorChannel("VA", 1, PhasorUnitVoltage)
	s.AddAnalogChannel("PWR", 1, AnalogUnitPow)
	s.AddDigitalWord([]string{"B1"}, 0, 0xFFFF)

	buf := new(bytes.Buffer)
	require.NoError(t, s.writeTo(buf))
	require.Equal(t, s.encodedLen(), buf.Len())
}
