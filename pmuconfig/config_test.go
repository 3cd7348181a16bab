package pmuconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleConfig() *Config {
	cfg := NewConfig(1000000)
	st := NewStation("STATION1", 60, false, false, false, true)
	st.Fnom = FreqNom60Hz
	st.AddPhasorChannel("VA", 1, PhasorUnitVoltage)
	st.AddPhasorChannel("IA", 1, PhasorUnitCurrent)
	st.AddAnalogChannel("PWR", 1, AnalogUnitPow)
	st.AddDigitalWord([]string{"BRK1", "BRK2"}, 0x0001, 0xFFFF)
	cfg.AddStation(st)
	cfg.DataRate = 30
	return cfg
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := sampleConfig()

	payload, err := cfg.EncodePayload()
	require.NoError(t, err)

	decoded, err := DecodeConfig(payload)
	require.NoError(t, err)

	require.Equal(t, cfg.TimeBase, decoded.TimeBase)
	require.Equal(t, cfg.DataRate, decoded.DataRate)
	require.Len(t, decoded.Stations, 1)

	got := decoded.Stations[0]
	require.Equal(t, "STATION1", got.Name)
	require.EqualValues(t, 60, got.IDCode)
	require.Equal(t, []string{"VA              ", "IA              "}, got.PhasorNames)
	require.Equal(t, cfg.Stations[0].PhasorUnits, got.PhasorUnits)
	require.Equal(t, cfg.Stations[0].AnalogUnits, got.AnalogUnits)
	require.Equal(t, cfg.Stations[0].DigitalUnits, got.DigitalUnits)
}

func TestStationByIDCode(t *testing.T) {
	cfg := sampleConfig()
	require.NotNil(t, cfg.StationByIDCode(60))
	require.Nil(t, cfg.StationByIDCode(99))
}

func TestDecodeConfigRejectsExcessiveStationCount(t *testing.T) {
	_, err := DecodeConfig([]byte{0, 0, 0, 0, 0xFF, 0xFF})
	require.Error(t, err)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader("PMU #1 at substation alpha")
	decoded := DecodeHeader(h.EncodePayload())
	require.Equal(t, h.Text, decoded.Text)
}
