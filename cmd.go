package c37118

// CmdCode names the CMD taxonomy a Command-frame payload can carry
// (spec.md §4.7).
type CmdCode int

const (
	TurnOffDataFrames CmdCode = iota
	TurnOnDataFrames
	SendHdrFrame
	SendCfg1Frame
	SendCfg2Frame
	SendCfg3Frame
	ExtendedFrameCode
	UserDesignatedCodeKind
	ReservedUndesignatedCodeKind
)

// Numeric CMD wire values for the named, non-parameterized variants.
const (
	cmdTurnOffDataFrames uint16 = 1
	cmdTurnOnDataFrames  uint16 = 2
	cmdSendHdrFrame      uint16 = 3
	cmdSendCfg1Frame     uint16 = 4
	cmdSendCfg2Frame     uint16 = 5
	cmdSendCfg3Frame     uint16 = 6
	cmdExtendedFrame     uint16 = 8
)

// userDesignatedLow/High bound the closed interval [256, 4095] the
// standard reserves for user-designated codes. The Open Question in
// spec.md §4.7 is resolved against original_source/src/c37118/message/cmd.rs's
// literal `v @ 256..=4095` decode pattern: the boundary is closed, not
// half-open. See DESIGN.md.
const (
	userDesignatedLow  uint16 = 256
	userDesignatedHigh uint16 = 4095
)

// CmdType is the decoded Command-frame payload (spec.md §4.7): a two-byte
// CMD code plus, for ExtendedFrame only, an opaque trailing blob.
type CmdType struct {
	code    CmdCode
	numeric uint16
	extra   []byte
}

// Code reports which CMD variant this value represents.
func (c CmdType) Code() CmdCode { return c.code }

// Value returns the raw numeric CMD code for UserDesignatedCode and
// ReservedUndesignatedCode variants, and 8 for ExtendedFrame. It is zero
// for the six named variants without a payload.
func (c CmdType) Value() uint16 { return c.numeric }

// Extra returns the opaque trailing bytes of an ExtendedFrame. It is nil
// for every other variant.
func (c CmdType) Extra() []byte { return c.extra }

// NewExtendedFrame constructs an ExtendedFrame CmdType carrying extra,
// which must be 1..=MaxExtendedFrameSize bytes (spec.md §9(c): the
// standard's 1-byte minimum is adopted over the source scaffolding's
// implicit 2-byte minimum).
func NewExtendedFrame(extra []byte) (CmdType, error) {
	if len(extra) < 1 || len(extra) > MaxExtendedFrameSize {
		return CmdType{}, ErrInvalidEnumVariant
	}
	return CmdType{code: ExtendedFrameCode, numeric: cmdExtendedFrame, extra: extra}, nil
}

// NewUserDesignatedCode constructs a UserDesignatedCode CmdType. v must
// lie in the closed interval [256, 4095].
func NewUserDesignatedCode(v uint16) (CmdType, error) {
	if v < userDesignatedLow || v > userDesignatedHigh {
		return CmdType{}, ErrInvalidEnumVariant
	}
	return CmdType{code: UserDesignatedCodeKind, numeric: v}, nil
}

// NewReservedUndesignatedCode constructs a ReservedUndesignatedCode
// CmdType. v must fall outside both the named codes {1..6, 8} and the
// user-designated interval [256, 4095].
func NewReservedUndesignatedCode(v uint16) (CmdType, error) {
	if isNamedCmdCode(v) || (v >= userDesignatedLow && v <= userDesignatedHigh) {
		return CmdType{}, ErrInvalidEnumVariant
	}
	return CmdType{code: ReservedUndesignatedCodeKind, numeric: v}, nil
}

func isNamedCmdCode(v uint16) bool {
	switch v {
	case cmdTurnOffDataFrames, cmdTurnOnDataFrames, cmdSendHdrFrame,
		cmdSendCfg1Frame, cmdSendCfg2Frame, cmdSendCfg3Frame, cmdExtendedFrame:
		return true
	default:
		return false
	}
}

// Named-variant constructors, carrying no payload beyond the CMD code.
func NewTurnOffDataFrames() CmdType { return CmdType{code: TurnOffDataFrames} }
func NewTurnOnDataFrames() CmdType  { return CmdType{code: TurnOnDataFrames} }
func NewSendHdrFrame() CmdType      { return CmdType{code: SendHdrFrame} }
func NewSendCfg1Frame() CmdType     { return CmdType{code: SendCfg1Frame} }
func NewSendCfg2Frame() CmdType     { return CmdType{code: SendCfg2Frame} }
func NewSendCfg3Frame() CmdType     { return CmdType{code: SendCfg3Frame} }

// wireCode returns the CMD value this CmdType encodes to.
func (c CmdType) wireCode() (uint16, error) {
	switch c.code {
	case TurnOffDataFrames:
		return cmdTurnOffDataFrames, nil
	case TurnOnDataFrames:
		return cmdTurnOnDataFrames, nil
	case SendHdrFrame:
		return cmdSendHdrFrame, nil
	case SendCfg1Frame:
		return cmdSendCfg1Frame, nil
	case SendCfg2Frame:
		return cmdSendCfg2Frame, nil
	case SendCfg3Frame:
		return cmdSendCfg3Frame, nil
	case ExtendedFrameCode:
		if len(c.extra) < 1 || len(c.extra) > MaxExtendedFrameSize {
			return 0, ErrInvalidEnumVariant
		}
		return cmdExtendedFrame, nil
	case UserDesignatedCodeKind:
		if c.numeric < userDesignatedLow || c.numeric > userDesignatedHigh {
			return 0, ErrInvalidEnumVariant
		}
		return c.numeric, nil
	case ReservedUndesignatedCodeKind:
		if isNamedCmdCode(c.numeric) || (c.numeric >= userDesignatedLow && c.numeric <= userDesignatedHigh) {
			return 0, ErrInvalidEnumVariant
		}
		return c.numeric, nil
	default:
		return 0, ErrInvalidEnumVariant
	}
}

// payloadLen returns the number of octets this CmdType occupies on the
// wire: 2 for every variant except ExtendedFrame, which adds its blob.
func (c CmdType) payloadLen() uint16 {
	if c.code == ExtendedFrameCode {
		return 2 + uint16(len(c.extra))
	}
	return 2
}

// decodeCmdType dissects a Command-frame payload (CMD + optional
// extended bytes) per the table in spec.md §4.7.
func decodeCmdType(r *reader) (CmdType, error) {
	code, err := r.U16()
	if err != nil {
		return CmdType{}, err
	}

	switch code {
	case cmdTurnOffDataFrames:
		return NewTurnOffDataFrames(), nil
	case cmdTurnOnDataFrames:
		return NewTurnOnDataFrames(), nil
	case cmdSendHdrFrame:
		return NewSendHdrFrame(), nil
	case cmdSendCfg1Frame:
		return NewSendCfg1Frame(), nil
	case cmdSendCfg2Frame:
		return NewSendCfg2Frame(), nil
	case cmdSendCfg3Frame:
		return NewSendCfg3Frame(), nil
	case cmdExtendedFrame:
		extra := r.Remaining()
		return NewExtendedFrame(extra)
	default:
		if code >= userDesignatedLow && code <= userDesignatedHigh {
			return NewUserDesignatedCode(code)
		}
		return NewReservedUndesignatedCode(code)
	}
}

// encodeCmdType writes a Command-frame payload.
func encodeCmdType(w *writer, c CmdType) error {
	code, err := c.wireCode()
	if err != nil {
		return err
	}
	if err := w.U16(code); err != nil {
		return err
	}
	if c.code == ExtendedFrameCode {
		return w.Bytes(c.extra)
	}
	return nil
}
