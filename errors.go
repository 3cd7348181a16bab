package c37118

import "errors"

// Structural, semantic, integrity and resource errors the codec can
// return. Propagation is fail-fast: the first error encountered aborts
// the call and is returned unchanged (spec.md §7).
var (
	// ErrConfigNeeded is returned when decoding a Data frame would
	// require an associated configuration that the caller did not supply.
	ErrConfigNeeded = errors.New("c37118: associated configuration required")

	// ErrTypeRangeOverflow is returned when a value is out of the range
	// its wire representation allows (e.g. a FRACSEC outside [0, 2^24)).
	ErrTypeRangeOverflow = errors.New("c37118: value exceeds its wire type range")

	// ErrBytesExceedFrameSize is returned when a source is larger than
	// MAX_FRAMESIZE can represent.
	ErrBytesExceedFrameSize = errors.New("c37118: source exceeds maximum frame size")

	// ErrInvalidFrameSize is returned when FRAMESIZE disagrees with the
	// actual byte length of a frame, or a frame is shorter than the
	// minimum legal size.
	ErrInvalidFrameSize = errors.New("c37118: invalid FRAMESIZE")

	// ErrInvalidChecksum is returned when the trailing CHK bytes do not
	// match the CRC-CCITT computed over the frame.
	ErrInvalidChecksum = errors.New("c37118: CRC-CCITT checksum mismatch")

	// ErrIllegalAccess is returned when a read is attempted past the end
	// of a byte source.
	ErrIllegalAccess = errors.New("c37118: read past end of source")

	// ErrInvalidEnumVariant is returned when an encode-time field value
	// does not satisfy the wire encoding it is supposed to produce (e.g.
	// a CmdType::UserDesignatedCode outside its legal numeric range).
	ErrInvalidEnumVariant = errors.New("c37118: invalid enum variant for wire encoding")
)

// BaseFrameErrorKind enumerates the ways the common frame header
// (SYNC/FRACSEC) can fail validation.
type BaseFrameErrorKind int

const (
	// IncorrectSyncWord: SYNC high byte was not 0xAA.
	IncorrectSyncWord BaseFrameErrorKind = iota
	// IncorrectReservedSyncBit: bit 7 of the SYNC low byte was set.
	IncorrectReservedSyncBit
	// UnknownFrameVersionNumber: SYNC version nibble was not 1 or 2.
	UnknownFrameVersionNumber
	// IncorrectReservedFracsecBit: bit 31 of FRACSEC was set.
	IncorrectReservedFracsecBit
	// UnknownTimeQuality: FRACSEC quality nibble was not in the allowed set.
	UnknownTimeQuality
	// UnknownFrameType: SYNC frame-type nibble was outside {0..5}.
	UnknownFrameType
	// Fracsec: the 24-bit fracsec value failed its range check.
	Fracsec
)

func (k BaseFrameErrorKind) String() string {
	switch k {
	case IncorrectSyncWord:
		return "IncorrectSyncWord"
	case IncorrectReservedSyncBit:
		return "IncorrectReservedSyncBit"
	case UnknownFrameVersionNumber:
		return "UnknownFrameVersionNumber"
	case IncorrectReservedFracsecBit:
		return "IncorrectReservedFracsecBit"
	case UnknownTimeQuality:
		return "UnknownTimeQuality"
	case UnknownFrameType:
		return "UnknownFrameType"
	case Fracsec:
		return "Fracsec"
	default:
		return "Unknown"
	}
}

// BaseFrameError wraps a BaseFrameErrorKind into an error, mirroring the
// source's BaseParseError enum (spec.md §6).
type BaseFrameError struct {
	Kind BaseFrameErrorKind
}

func (e *BaseFrameError) Error() string {
	return "c37118: base frame error: " + e.Kind.String()
}

// Is allows errors.Is(err, someBaseFrameError) comparisons by Kind.
func (e *BaseFrameError) Is(target error) bool {
	other, ok := target.(*BaseFrameError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func baseFrameErr(kind BaseFrameErrorKind) error {
	return &BaseFrameError{Kind: kind}
}

// ContainerErrorKind enumerates Sink-side failures.
type ContainerErrorKind int

// SpaceExceeded is the only ContainerErrorKind: the sink's bounded
// capacity was exceeded.
const SpaceExceeded ContainerErrorKind = 0

// ContainerError is returned by Sink.Append when capacity is exhausted.
type ContainerError struct {
	Kind ContainerErrorKind
}

func (e *ContainerError) Error() string {
	return "c37118: container error: space exceeded"
}

// ErrSpaceExceeded is the canonical ContainerError value for comparisons.
var ErrSpaceExceeded = &ContainerError{Kind: SpaceExceeded}
