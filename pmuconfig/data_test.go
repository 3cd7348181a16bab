package pmuconfig

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	c37118 "github.com/wattloop/c37118"
)

func TestMeasurementsRoundTripIntegerFormat(t *testing.T) {
	cfg := sampleConfig() // integer, polar, per NewStation(...,false,false,false,true)
	m := NewMeasurements(cfg)

	m.Samples[0].Stat = 0x0001
	m.Samples[0].Phasors[0] = cmplx.Rect(0.5, 0.1)
	m.Samples[0].Phasors[1] = cmplx.Rect(0.3, -0.2)
	m.Samples[0].Freq = 60.01
	m.Samples[0].DFreq = 0.02
	m.Samples[0].Analog[0] = 42
	m.Samples[0].Digital[0] = [16]bool{true, false, true}

	payload, err := m.EncodePayload()
	require.NoError(t, err)

	decoded, err := DecodeMeasurements(payload, cfg)
	require.NoError(t, err)

	require.Equal(t, m.Samples[0].Stat, decoded.Samples[0].Stat)
	require.InDelta(t, real(m.Samples[0].Phasors[0]), real(decoded.Samples[0].Phasors[0]), 0.01)
	require.InDelta(t, imag(m.Samples[0].Phasors[0]), imag(decoded.Samples[0].Phasors[0]), 0.01)
	require.InDelta(t, m.Samples[0].Freq, decoded.Samples[0].Freq, 0.01)
	require.InDelta(t, m.Samples[0].Analog[0], decoded.Samples[0].Analog[0], 0.01)
	require.Equal(t, m.Samples[0].Digital[0], decoded.Samples[0].Digital[0])
}

func TestMeasurementsRoundTripFloatFormat(t *testing.T) {
	cfg := NewConfig(1000000)
	st := NewStation("FLOATST", 1, true, true, true, false) // all-float, rectangular
	st.AddPhasorChannel("VA", 1, PhasorUnitVoltage)
	cfg.AddStation(st)

	m := NewMeasurements(cfg)
	m.Samples[0].Phasors[0] = complex(100.25, -10.5)
	m.Samples[0].Freq = 59.98
	m.Samples[0].DFreq = -0.01

	payload, err := m.EncodePayload()
	require.NoError(t, err)

	decoded, err := DecodeMeasurements(payload, cfg)
	require.NoError(t, err)

	require.InDelta(t, real(m.Samples[0].Phasors[0]), real(decoded.Samples[0].Phasors[0]), 0.001)
	require.InDelta(t, imag(m.Samples[0].Phasors[0]), imag(decoded.Samples[0].Phasors[0]), 0.001)
	require.InDelta(t, m.Samples[0].Freq, decoded.Samples[0].Freq, 0.001)
	require.InDelta(t, m.Samples[0].DFreq, decoded.Samples[0].DFreq, 0.001)
}

func TestEncodeMeasurementsRejectsStationCountMismatch(t *testing.T) {
	cfg := sampleConfig()
	m := &Measurements{Config: cfg}
	_, err := m.EncodePayload()
	require.ErrorIs(t, err, ErrConfigMismatch)
}

func TestDecodeMeasurementsRequiresConfig(t *testing.T) {
	_, err := DecodeMeasurements([]byte{0x00, 0x01}, nil)
	require.ErrorIs(t, err, c37118.ErrConfigNeeded)
}
