package pmuconfig

import (
	"bytes"
	"errors"
)

// ErrInvalidConfig reports a Configuration-frame body that fails a
// structural sanity check on decode.
var ErrInvalidConfig = errors.New("pmuconfig: invalid configuration body")

// Config is the Configuration-frame body (spec.md domain stack: the
// payload a c37118.Message of FrameKind Cfg1/Cfg2/Cfg3 carries),
// grounded on the teacher's ConfigFrame with framing (SYNC/FRAMESIZE/
// IDCODE/SOC/FRACSEC/CHK) stripped out — that's the core codec's job
// now, not this package's.
type Config struct {
	TimeBase uint32
	DataRate int16
	Stations []*Station
}

// NewConfig constructs an empty Config with the given time base.
func NewConfig(timeBase uint32) *Config {
	return &Config{TimeBase: timeBase}
}

// AddStation appends a station to the configuration.
func (c *Config) AddStation(s *Station) {
	c.Stations = append(c.Stations, s)
}

// StationByIDCode looks up a station by its IDCODE, or nil if absent.
func (c *Config) StationByIDCode(idCode uint16) *Station {
	for _, s := range c.Stations {
		if s.IDCode == idCode {
			return s
		}
	}
	return nil
}

// EncodePayload serializes the Configuration body this package owns:
// TIME_BASE, NUM_PMU, the per-station descriptors, and DATA_RATE. The
// caller hands the result to c37118.NewCfg1Payload/NewCfg2Payload/
// NewCfg3Payload to build a full Message.
func (c *Config) EncodePayload() ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := writeBinary(buf, c.TimeBase, uint16(len(c.Stations))); err != nil {
		return nil, err
	}

	for _, s := range c.Stations {
		if err := s.writeTo(buf); err != nil {
			return nil, err
		}
	}

	if err := writeBinary(buf, c.DataRate); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeConfig parses a Configuration-frame payload (the bytes a
// c37118.Message's Data.Payload() returns for a Cfg1/Cfg2/Cfg3 Message)
// into a Config.
func DecodeConfig(payload []byte) (*Config, error) {
	r := bytes.NewReader(payload)

	c := &Config{}
	var numPMU uint16
	if err := readBinary(r, &c.TimeBase, &numPMU); err != nil {
		return nil, err
	}
	if numPMU > 1000 {
		return nil, ErrInvalidConfig
	}

	for i := 0; i < int(numPMU); i++ {
		s, err := readStation(r)
		if err != nil {
			return nil, err
		}
		c.AddStation(s)
	}

	if err := readBinary(r, &c.DataRate); err != nil {
		return nil, err
	}

	return c, nil
}
