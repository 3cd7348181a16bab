package pmuconfig

import (
	"bytes"
	"errors"
	"math/cmplx"

	c37118 "github.com/wattloop/c37118"
)

// ErrConfigMismatch reports a Data-frame payload whose station count
// disagrees with the associated Config's.
var ErrConfigMismatch = errors.New("pmuconfig: data payload does not match configuration")

// StationMeasurement is one station's worth of a Data-frame sample
// (spec.md domain stack), grounded on the teacher's per-station fields
// in PMUStation/DataFrame.GetMeasurements, pulled out into its own
// value so Measurements isn't a live PMUStation mutation target.
type StationMeasurement struct {
	Stat    uint16
	Phasors []complex128
	Freq    float32
	DFreq   float32
	Analog  []float32
	Digital [][16]bool
}

// Measurements is a full Data-frame body: one StationMeasurement per
// station in the associated Config, in the same order.
type Measurements struct {
	Config  *Config
	Samples []StationMeasurement
}

// NewMeasurements allocates a zeroed sample slot per station in cfg.
func NewMeasurements(cfg *Config) *Measurements {
	m := &Measurements{Config: cfg, Samples: make([]StationMeasurement, len(cfg.Stations))}
	for i, s := range cfg.Stations {
		m.Samples[i] = StationMeasurement{
			Phasors: make([]complex128, s.PhasorCount()),
			Analog:  make([]float32, s.AnalogCount()),
			Digital: make([][16]bool, s.DigitalCount()),
		}
	}
	return m
}

// EncodePayload serializes the Data-frame body in the wire layout
// spec.md's domain stack describes (STAT, phasors, FREQ/DFREQ, ANALOG,
// DIGITAL per station), honoring each station's FORMAT word for
// integer-vs-float and polar-vs-rectangular encoding.
func (m *Measurements) EncodePayload() ([]byte, error) {
	if len(m.Samples) != len(m.Config.Stations) {
		return nil, ErrConfigMismatch
	}

	buf := new(bytes.Buffer)

	for i, s := range m.Config.Stations {
		sample := m.Samples[i]
		if err := writeBinary(buf, sample.Stat); err != nil {
			return nil, err
		}

		for j, ph := range sample.Phasors {
			if s.FloatPhasors() {
				var a, b float32
				if s.PolarPhasors() {
					a, b = float32(cmplx.Abs(ph)), float32(cmplx.Phase(ph))
				} else {
					a, b = float32(real(ph)), float32(imag(ph))
				}
				if err := writeBinary(buf, a, b); err != nil {
					return nil, err
				}
				continue
			}

			factor := float64(s.PhasorFactor(j))
			if s.PolarPhasors() {
				mag := uint16(cmplx.Abs(ph) * 1e5 / factor)
				ang := int16(cmplx.Phase(ph) * 1e4)
				if err := writeBinary(buf, mag, ang); err != nil {
					return nil, err
				}
			} else {
				re := int16(real(ph) * 1e5 / factor)
				im := int16(imag(ph) * 1e5 / factor)
				if err := writeBinary(buf, re, im); err != nil {
					return nil, err
				}
			}
		}

		if s.FloatFreq() {
			if err := writeBinary(buf, sample.Freq, sample.DFreq); err != nil {
				return nil, err
			}
		} else {
			freqInt := int16((sample.Freq - s.NominalFrequency()) * 1000)
			dfreqInt := int16(sample.DFreq * 100)
			if err := writeBinary(buf, freqInt, dfreqInt); err != nil {
				return nil, err
			}
		}

		for _, v := range sample.Analog {
			if s.FloatAnalogs() {
				if err := writeBinary(buf, v); err != nil {
					return nil, err
				}
			} else if err := writeBinary(buf, int16(v)); err != nil {
				return nil, err
			}
		}

		for _, word := range sample.Digital {
			var packed uint16
			for k, bit := range word {
				if bit {
					packed |= 1 << uint(k)
				}
			}
			if err := writeBinary(buf, packed); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

// DecodeMeasurements parses a Data-frame payload against cfg, the
// Configuration that describes its station layout (spec.md domain
// stack: a Data Message is meaningless without a prior Cfg1/Cfg2/Cfg3
// Message to interpret it against, exactly as the teacher's DataFrame
// required an AssociatedConfig).
func DecodeMeasurements(payload []byte, cfg *Config) (*Measurements, error) {
	if cfg == nil {
		return nil, c37118.ErrConfigNeeded
	}

	r := bytes.NewReader(payload)
	m := NewMeasurements(cfg)

	for i, s := range cfg.Stations {
		sample := &m.Samples[i]
		if err := readBinary(r, &sample.Stat); err != nil {
			return nil, err
		}

		for j := range sample.Phasors {
			if s.FloatPhasors() {
				var a, b float32
				if err := readBinary(r, &a, &b); err != nil {
					return nil, err
				}
				if s.PolarPhasors() {
					sample.Phasors[j] = cmplx.Rect(float64(a), float64(b))
				} else {
					sample.Phasors[j] = complex(float64(a), float64(b))
				}
				continue
			}

			factor := float64(s.PhasorFactor(j))
			if s.PolarPhasors() {
				var mag uint16
				var ang int16
				if err := readBinary(r, &mag, &ang); err != nil {
					return nil, err
				}
				sample.Phasors[j] = cmplx.Rect(float64(mag)*factor/1e5, float64(ang)/1e4)
			} else {
				var re, im int16
				if err := readBinary(r, &re, &im); err != nil {
					return nil, err
				}
				sample.Phasors[j] = complex(float64(re)*factor/1e5, float64(im)*factor/1e5)
			}
		}

		if s.FloatFreq() {
			if err := readBinary(r, &sample.Freq, &sample.DFreq); err != nil {
				return nil, err
			}
		} else {
			var freqInt, dfreqInt int16
			if err := readBinary(r, &freqInt, &dfreqInt); err != nil {
				return nil, err
			}
			sample.Freq = s.NominalFrequency() + float32(freqInt)/1000.0
			sample.DFreq = float32(dfreqInt) / 100.0
		}

		for j := range sample.Analog {
			if s.FloatAnalogs() {
				if err := readBinary(r, &sample.Analog[j]); err != nil {
					return nil, err
				}
			} else {
				var v int16
				if err := readBinary(r, &v); err != nil {
					return nil, err
				}
				sample.Analog[j] = float32(v)
			}
		}

		for j := range sample.Digital {
			var packed uint16
			if err := readBinary(r, &packed); err != nil {
				return nil, err
			}
			for k := 0; k < 16; k++ {
				sample.Digital[j][k] = packed&(1<<uint(k)) != 0
			}
		}
	}

	return m, nil
}
