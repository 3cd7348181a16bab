package c37118

// FrameVersion is the protocol revision a Message was built under
// (spec.md §3), corresponding to SYNC version nibble values 1 and 2.
type FrameVersion int

const (
	Std2005 FrameVersion = iota
	Std2011
)

func (v FrameVersion) wireNibble() (uint16, error) {
	switch v {
	case Std2005:
		return 1, nil
	case Std2011:
		return 2, nil
	default:
		return 0, ErrInvalidEnumVariant
	}
}

func decodeFrameVersion(nibble uint16) (FrameVersion, error) {
	switch nibble {
	case 1:
		return Std2005, nil
	case 2:
		return Std2011, nil
	default:
		return 0, baseFrameErr(UnknownFrameVersionNumber)
	}
}

// FrameKind is the frame-type nibble carried in SYNC bits 6-4 (spec.md §3/§6).
type FrameKind int

const (
	KindData FrameKind = iota
	KindHeader
	KindCfg1
	KindCfg2
	KindCmd
	KindCfg3
)

// frameKindWireNibble maps a FrameKind to its SYNC nibble. Note the
// non-sequential Cmd/Cfg3 assignment the standard itself defines:
// Cmd=4 sits before Cfg3=5.
func frameKindWireNibble(k FrameKind) (uint16, error) {
	switch k {
	case KindData:
		return 0, nil
	case KindHeader:
		return 1, nil
	case KindCfg1:
		return 2, nil
	case KindCfg2:
		return 3, nil
	case KindCmd:
		return 4, nil
	case KindCfg3:
		return 5, nil
	default:
		return 0, ErrInvalidEnumVariant
	}
}

func decodeFrameKind(nibble uint16) (FrameKind, error) {
	switch nibble {
	case 0:
		return KindData, nil
	case 1:
		return KindHeader, nil
	case 2:
		return KindCfg1, nil
	case 3:
		return KindCfg2, nil
	case 4:
		return KindCmd, nil
	case 5:
		return KindCfg3, nil
	default:
		return 0, baseFrameErr(UnknownFrameType)
	}
}

// DataType is the tagged-union payload of a Message (spec.md §3). Every
// variant except Cmd carries an opaque payload slice whose bytes pass
// through the codec untouched; only Cmd is dissected by this package.
type DataType struct {
	kind    FrameKind
	payload []byte
	cmd     CmdType
}

// Kind reports which frame-type variant this DataType holds.
func (d DataType) Kind() FrameKind { return d.kind }

// Payload returns the opaque payload bytes for every non-Cmd variant. It
// is nil for Cmd.
func (d DataType) Payload() []byte {
	if d.kind == KindCmd {
		return nil
	}
	return d.payload
}

// Cmd returns the decoded command payload and true iff Kind() == KindCmd.
func (d DataType) Cmd() (CmdType, bool) {
	if d.kind != KindCmd {
		return CmdType{}, false
	}
	return d.cmd, true
}

// NewDataPayload builds an opaque Data-frame DataType.
func NewDataPayload(payload []byte) DataType { return DataType{kind: KindData, payload: payload} }

// NewHeaderPayload builds an opaque Header-frame DataType.
func NewHeaderPayload(payload []byte) DataType { return DataType{kind: KindHeader, payload: payload} }

// NewCfg1Payload builds an opaque Configuration-1-frame DataType.
func NewCfg1Payload(payload []byte) DataType { return DataType{kind: KindCfg1, payload: payload} }

// NewCfg2Payload builds an opaque Configuration-2-frame DataType.
func NewCfg2Payload(payload []byte) DataType { return DataType{kind: KindCfg2, payload: payload} }

// NewCfg3Payload builds an opaque Configuration-3-frame DataType.
func NewCfg3Payload(payload []byte) DataType { return DataType{kind: KindCfg3, payload: payload} }

// NewCmdPayload builds a Command-frame DataType from a decoded CmdType.
func NewCmdPayload(cmd CmdType) DataType { return DataType{kind: KindCmd, cmd: cmd} }

// payloadOctets returns how many bytes this DataType's payload occupies
// on the wire (spec.md §4.9 step 1 / §9's FRAMESIZE resolution).
func (d DataType) payloadOctets() (uint16, error) {
	if d.kind == KindCmd {
		return d.cmd.payloadLen(), nil
	}
	if len(d.payload) > MaxFrameSize {
		return 0, ErrBytesExceedFrameSize
	}
	return uint16(len(d.payload)), nil
}

// Message is the core decoded entity (spec.md §3), carrying no
// heap-allocated children beyond its opaque payload slice (which borrows
// from caller-provided storage). The codec never modifies a Message:
// Encode takes it by value and Decode returns a fresh one. Its fields
// are exported and stay assignable by callers.
type Message struct {
	Version FrameVersion
	IDCode  uint16
	Time    Time
	Data    DataType
}

// frameOverhead is the fixed byte count outside the payload: SYNC(2) +
// FRAMESIZE(2) + IDCODE(2) + SOC(4) + FRACSEC(4) + CHK(2).
const frameOverhead = 16

// buildSyncWord assembles the SYNC word for a Message (spec.md §4.6).
func buildSyncWord(version FrameVersion, kind FrameKind) (uint16, error) {
	versionNibble, err := version.wireNibble()
	if err != nil {
		return 0, err
	}
	kindNibble, err := frameKindWireNibble(kind)
	if err != nil {
		return 0, err
	}
	return 0xAA00 | (kindNibble << 4) | versionNibble, nil
}

// dissectSyncWord validates and splits a SYNC word (spec.md §4.6).
func dissectSyncWord(sync uint16) (FrameVersion, FrameKind, error) {
	if sync&0xFF00 != 0xAA00 {
		return 0, 0, baseFrameErr(IncorrectSyncWord)
	}
	if sync&0x0080 != 0 {
		return 0, 0, baseFrameErr(IncorrectReservedSyncBit)
	}
	version, err := decodeFrameVersion(sync & 0x000F)
	if err != nil {
		return 0, 0, err
	}
	kind, err := decodeFrameKind((sync & 0x0070) >> 4)
	if err != nil {
		return 0, 0, err
	}
	return version, kind, nil
}
