package pmuconfig

// Header is the free-text Header-frame body (spec.md domain stack: the
// payload a c37118.Message of FrameKind Header carries), grounded on
// the teacher's HeaderFrame with framing stripped out.
type Header struct {
	Text string
}

// NewHeader wraps text as a Header body.
func NewHeader(text string) Header { return Header{Text: text} }

// EncodePayload returns the raw bytes this package hands to
// c37118.NewHeaderPayload.
func (h Header) EncodePayload() []byte { return []byte(h.Text) }

// DecodeHeader parses a Header-frame payload into a Header. The
// standard places no structure on Header text beyond "human readable",
// so this is a direct wrap.
func DecodeHeader(payload []byte) Header { return Header{Text: string(payload)} }
