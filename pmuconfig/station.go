package pmuconfig

import (
	"bytes"
	"errors"
	"io"
)

// ErrInvalidStation reports a station descriptor that fails a structural
// sanity check (channel counts, name/unit slice mismatches) on decode.
var ErrInvalidStation = errors.New("pmuconfig: invalid station descriptor")

// Nominal frequency selector values (spec.md domain stack / FNOM field).
const (
	FreqNom60Hz uint16 = 0
	FreqNom50Hz uint16 = 1
)

// Phasor and analog unit-type tags packed into the high byte of each
// PHUNIT/ANUNIT word.
const (
	PhasorUnitVoltage uint8 = 0
	PhasorUnitCurrent uint8 = 1
)

const (
	AnalogUnitPow  uint8 = 0
	AnalogUnitRMS  uint8 = 1
	AnalogUnitPeak uint8 = 2
)

// Station is one PMU's channel-metadata descriptor within a
// Configuration frame (spec.md domain stack), grounded on the teacher's
// PMUStation but stripped of live measurement storage: a Station
// describes the shape of a PMU's data, it doesn't hold a sample.
type Station struct {
	Name     string
	IDCode   uint16
	Format   uint16
	Fnom     uint16
	CfgCount uint16

	PhasorNames []string
	PhasorUnits []uint32 // (type<<24) | factor, factor in low 24 bits

	AnalogNames []string
	AnalogUnits []uint32 // (type<<24) | factor

	// DigitalNames holds 16 names per digital word, densely packed.
	DigitalNames []string
	DigitalUnits []uint32 // (normal<<16) | valid, per digital word
}

// NewStation constructs an empty Station, setting its format word from
// the four boolean toggles the standard defines.
func NewStation(name string, idCode uint16, freqFloat, analogFloat, phasorFloat, polar bool) *Station {
	s := &Station{Name: name, IDCode: idCode}
	s.SetFormat(freqFloat, analogFloat, phasorFloat, polar)
	return s
}

// SetFormat packs the four format toggles into the FORMAT word (spec.md
// domain stack; bit layout per the teacher's SetFormat).
func (s *Station) SetFormat(freqFloat, analogFloat, phasorFloat, polar bool) {
	var f uint16
	if polar {
		f |= 1
	}
	if phasorFloat {
		f |= 1 << 1
	}
	if analogFloat {
		f |= 1 << 2
	}
	if freqFloat {
		f |= 1 << 3
	}
	s.Format = f
}

func (s *Station) PolarPhasors() bool  { return s.Format&0x01 != 0 }
func (s *Station) FloatPhasors() bool  { return s.Format&0x02 != 0 }
func (s *Station) FloatAnalogs() bool  { return s.Format&0x04 != 0 }
func (s *Station) FloatFreq() bool     { return s.Format&0x08 != 0 }

// NominalFrequency reports 50 or 60 Hz per Fnom.
func (s *Station) NominalFrequency() float32 {
	if s.Fnom == FreqNom50Hz {
		return 50.0
	}
	return 60.0
}

// AddPhasorChannel appends a phasor channel with the given unit factor
// and type tag (PhasorUnitVoltage/PhasorUnitCurrent).
func (s *Station) AddPhasorChannel(name string, factor uint32, unitType uint8) {
	s.PhasorNames = append(s.PhasorNames, padName(name))
	s.PhasorUnits = append(s.PhasorUnits, (uint32(unitType)<<24)|(factor&0x00FFFFFF))
}

// AddAnalogChannel appends an analog channel with the given unit factor
// and type tag (AnalogUnitPow/RMS/Peak).
func (s *Station) AddAnalogChannel(name string, factor uint32, unitType uint8) {
	s.AnalogNames = append(s.AnalogNames, padName(name))
	s.AnalogUnits = append(s.AnalogUnits, (uint32(unitType)<<24)|(factor&0x00FFFFFF))
}

// AddDigitalWord appends one 16-bit digital status word's worth of
// channel names along with its normal/valid mask pair. Exactly 16 names
// are stored: missing names are left blank and names beyond the 16th
// are dropped.
func (s *Station) AddDigitalWord(names []string, normalMask, validMask uint16) {
	for i := 0; i < 16; i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		s.DigitalNames = append(s.DigitalNames, padName(name))
	}
	s.DigitalUnits = append(s.DigitalUnits, (uint32(normalMask)<<16)|uint32(validMask))
}

func (s *Station) PhasorCount() int  { return len(s.PhasorUnits) }
func (s *Station) AnalogCount() int  { return len(s.AnalogUnits) }
func (s *Station) DigitalCount() int { return len(s.DigitalUnits) }

// PhasorFactor returns the conversion factor for phasor channel i, or 1
// if i is out of range.
func (s *Station) PhasorFactor(i int) uint32 {
	if i < 0 || i >= len(s.PhasorUnits) {
		return 1
	}
	return s.PhasorUnits[i] & 0x00FFFFFF
}

// encodedLen is the number of bytes this station occupies in a
// Configuration frame body: 16 (name) + 2 each for IDCODE/FORMAT/PHNMR/
// ANNMR/DGNMR + channel names + units + FNOM + CFGCNT.
func (s *Station) encodedLen() int {
	n := 16 + 2 + 2 + 2 + 2 + 2 // name, idcode, format, phnmr, annmr, dgnmr
	n += nameFieldLength * (len(s.PhasorNames) + len(s.AnalogNames) + len(s.DigitalNames))
	n += 4 * (len(s.PhasorUnits) + len(s.AnalogUnits) + len(s.DigitalUnits))
	n += 2 + 2 // fnom, cfgcnt
	return n
}

func (s *Station) writeTo(buf *bytes.Buffer) error {
	buf.WriteString(padName(s.Name))

	if err := writeBinary(buf, s.IDCode, s.Format,
		uint16(len(s.PhasorUnits)), uint16(len(s.AnalogUnits)), uint16(len(s.DigitalUnits))); err != nil {
		return err
	}

	for _, n := range s.PhasorNames {
		buf.WriteString(padName(n))
	}
	for _, n := range s.AnalogNames {
		buf.WriteString(padName(n))
	}
	for _, n := range s.DigitalNames {
		buf.WriteString(padName(n))
	}

	for _, u := range s.PhasorUnits {
		if err := writeBinary(buf, u); err != nil {
			return err
		}
	}
	for _, u := range s.AnalogUnits {
		if err := writeBinary(buf, u); err != nil {
			return err
		}
	}
	for _, u := range s.DigitalUnits {
		if err := writeBinary(buf, u); err != nil {
			return err
		}
	}

	return writeBinary(buf, s.Fnom, s.CfgCount)
}

func readStation(r *bytes.Reader) (*Station, error) {
	s := &Station{}

	nameBytes := make([]byte, nameFieldLength)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, err
	}
	s.Name = trimName(nameBytes)

	var phnmr, annmr, dgnmr uint16
	if err := readBinary(r, &s.IDCode, &s.Format, &phnmr, &annmr, &dgnmr); err != nil {
		return nil, err
	}
	if phnmr > 1000 || annmr > 1000 || dgnmr > 100 {
		return nil, ErrInvalidStation
	}

	readNames := func(count int) ([]string, error) {
		names := make([]string, count)
		for i := 0; i < count; i++ {
			b := make([]byte, nameFieldLength)
			if _, err := io.ReadFull(r, b); err != nil {
				return nil, err
			}
			names[i] = string(b)
		}
		return names, nil
	}

	var err error
	if s.PhasorNames, err = readNames(int(phnmr)); err != nil {
		return nil, err
	}
	if s.AnalogNames, err = readNames(int(annmr)); err != nil {
		return nil, err
	}
	if s.DigitalNames, err = readNames(int(dgnmr) * 16); err != nil {
		return nil, err
	}

	readUnits := func(count int) ([]uint32, error) {
		units := make([]uint32, count)
		for i := 0; i < count; i++ {
			if err := readBinary(r, &units[i]); err != nil {
				return nil, err
			}
		}
		return units, nil
	}

	if s.PhasorUnits, err = readUnits(int(phnmr)); err != nil {
		return nil, err
	}
	if s.AnalogUnits, err = readUnits(int(annmr)); err != nil {
		return nil, err
	}
	if s.DigitalUnits, err = readUnits(int(dgnmr)); err != nil {
		return nil, err
	}

	if err := readBinary(r, &s.Fnom, &s.CfgCount); err != nil {
		return nil, err
	}

	return s, nil
}
