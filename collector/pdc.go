// Package collector implements the PDC (Phasor Data Concentrator) side
// of the protocol: connecting to one or more PMUs, requesting their
// configuration and header frames, and streaming decoded measurements,
// grounded on the teacher's pdc.go but generalized to the core's
// Message/DataType model. PDC connects over TCP only.
package collector

import (
	"encoding/binary"
	"fmt"
	"net"

	c37118 "github.com/wattloop/c37118"
	"github.com/wattloop/c37118/pmuconfig"
)

// FrameSource delivers one complete, framed byte range at a time,
// suitable for c37118.Decode. The net.Conn-backed PDC implements it; the
// serial transport's Listener does not, as it delivers frames on its
// Frames() channel instead.
type FrameSource interface {
	ReadFrame() ([]byte, error)
}

// PDC is a single PMU connection (spec.md domain stack), grounded on
// the teacher's PDC but carrying a pmuconfig.Config instead of owning
// wire layout directly.
type PDC struct {
	IDCode uint16
	Config *pmuconfig.Config
	Header pmuconfig.Header

	conn net.Conn
	buf  []byte
}

// NewPDC constructs a PDC for the PMU identified by idCode.
func NewPDC(idCode uint16) *PDC {
	return &PDC{IDCode: idCode, buf: make([]byte, c37118.MaxFrameSize)}
}

// Connect dials a TCP PMU endpoint.
func (p *PDC) Connect(address string) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return fmt.Errorf("collector: dial %s: %w", address, err)
	}
	p.conn = conn
	return nil
}

// Disconnect closes the underlying connection, if any.
func (p *PDC) Disconnect() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// SendCommand sends a named Command-frame to the PMU.
func (p *PDC) SendCommand(cmd c37118.CmdType) error {
	msg := c37118.Message{
		Version: c37118.Std2011,
		IDCode:  p.IDCode,
		Time:    zeroTime(),
		Data:    c37118.NewCmdPayload(cmd),
	}

	sink := c37118.NewSliceSink(nil, c37118.MaxFrameSize)
	if err := c37118.Encode(msg, sink); err != nil {
		return err
	}
	_, err := p.conn.Write(sink.View())
	return err
}

func zeroTime() c37118.Time {
	t, _ := c37118.NewTime(0, 0, false, false, false, c37118.Locked)
	return t
}

// Start requests the PMU begin sending data frames.
func (p *PDC) Start() error { return p.SendCommand(c37118.NewTurnOnDataFrames()) }

// Stop requests the PMU stop sending data frames.
func (p *PDC) Stop() error { return p.SendCommand(c37118.NewTurnOffDataFrames()) }

// GetHeader requests and returns the PMU's Header-frame body.
func (p *PDC) GetHeader() (pmuconfig.Header, error) {
	if err := p.SendCommand(c37118.NewSendHdrFrame()); err != nil {
		return pmuconfig.Header{}, err
	}
	msg, err := p.ReadMessage()
	if err != nil {
		return pmuconfig.Header{}, err
	}
	if msg.Data.Kind() != c37118.KindHeader {
		return pmuconfig.Header{}, fmt.Errorf("collector: expected Header frame, got kind %d", msg.Data.Kind())
	}
	h := pmuconfig.DecodeHeader(msg.Data.Payload())
	p.Header = h
	return h, nil
}

// GetConfig requests the given Configuration revision (1, 2, or 3 —
// anything else defaults to 2) and caches the result on the PDC.
func (p *PDC) GetConfig(version int) (*pmuconfig.Config, error) {
	var cmd c37118.CmdType
	switch version {
	case 1:
		cmd = c37118.NewSendCfg1Frame()
	case 3:
		cmd = c37118.NewSendCfg3Frame()
	default:
		cmd = c37118.NewSendCfg2Frame()
	}

	if err := p.SendCommand(cmd); err != nil {
		return nil, err
	}
	msg, err := p.ReadMessage()
	if err != nil {
		return nil, err
	}

	switch msg.Data.Kind() {
	case c37118.KindCfg1, c37118.KindCfg2, c37118.KindCfg3:
		cfg, err := pmuconfig.DecodeConfig(msg.Data.Payload())
		if err != nil {
			return nil, err
		}
		p.Config = cfg
		return cfg, nil
	default:
		return nil, fmt.Errorf("collector: expected Configuration frame, got kind %d", msg.Data.Kind())
	}
}

// ReadFrame reads one complete, framed byte range off the TCP
// connection: SYNC+FRAMESIZE first, then the rest of FRAMESIZE.
func (p *PDC) ReadFrame() ([]byte, error) {
	read := 0
	for read < 4 {
		n, err := p.conn.Read(p.buf[read:])
		if err != nil {
			return nil, err
		}
		read += n
	}

	frameSize := int(binary.BigEndian.Uint16(p.buf[2:4]))
	if frameSize < 16 || frameSize > len(p.buf) {
		return nil, c37118.ErrInvalidFrameSize
	}

	for read < frameSize {
		n, err := p.conn.Read(p.buf[read:frameSize])
		if err != nil {
			return nil, err
		}
		read += n
	}

	frame := make([]byte, frameSize)
	copy(frame, p.buf[:frameSize])
	return frame, nil
}

// ReadMessage reads and decodes the next frame.
func (p *PDC) ReadMessage() (c37118.Message, error) {
	frame, err := p.ReadFrame()
	if err != nil {
		return c37118.Message{}, err
	}
	return c37118.Decode(c37118.ByteSource(frame))
}

// ReadMeasurement reads the next Data-frame and dissects it against
// cfg (typically p.Config, populated by a prior GetConfig).
func (p *PDC) ReadMeasurement(cfg *pmuconfig.Config) (*pmuconfig.Measurements, error) {
	msg, err := p.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msg.Data.Kind() != c37118.KindData {
		return nil, fmt.Errorf("collector: expected Data frame, got kind %d", msg.Data.Kind())
	}
	return pmuconfig.DecodeMeasurements(msg.Data.Payload(), cfg)
}
