// Package pmusim implements a simulated PMU server: it accepts PDC
// connections, answers command frames with Header/Configuration
// frames, and streams synthesized Data frames at a configured rate.
// Grounded on the teacher's pmu.go PMU server, generalized to serve
// c37118.Message/pmuconfig.Config/pmuconfig.Measurements instead of
// the teacher's own framing types.
package pmusim

import (
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	c37118 "github.com/wattloop/c37118"
	"github.com/wattloop/c37118/pmuconfig"
)

// PMU is a simulated PMU server.
type PMU struct {
	Config   *pmuconfig.Config
	Header   pmuconfig.Header
	IDCode   uint16
	DataRate int16

	listener     net.Listener
	clients      []net.Conn
	clientsMu    sync.Mutex
	sendData     map[net.Conn]bool
	sendDataMu   sync.Mutex
	running      bool
	log          *logrus.Entry
	metrics      MetricsRecorder
	ticker       *wallTicker
	counter      int
	framesSent   int
	lastRateTime time.Time
}

// NewPMU builds a simulated PMU serving cfg, identified by idCode.
func NewPMU(idCode uint16, cfg *pmuconfig.Config, header pmuconfig.Header) *PMU {
	return &PMU{
		Config:   cfg,
		Header:   header,
		IDCode:   idCode,
		DataRate: cfg.DataRate,
		sendData: make(map[net.Conn]bool),
	}
}

// SetLogger attaches a logger, defaulting to logrus's standard logger.
func (p *PMU) SetLogger(log *logrus.Entry) { p.log = log }

// SetMetrics attaches a MetricsRecorder.
func (p *PMU) SetMetrics(m MetricsRecorder) { p.metrics = m }

func (p *PMU) logger() *logrus.Entry {
	if p.log == nil {
		p.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return p.log
}

// Start begins listening for PDC connections and serving data.
func (p *PMU) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	p.listener = listener
	p.running = true

	p.logger().WithField("address", address).Info("PMU server listening")

	go p.acceptLoop()
	go p.dataSender()

	return nil
}

// Stop shuts the server down and disconnects every client.
func (p *PMU) Stop() {
	p.running = false
	if p.listener != nil {
		_ = p.listener.Close()
	}
	if p.ticker != nil {
		p.ticker.Stop()
	}

	p.clientsMu.Lock()
	for _, conn := range p.clients {
		_ = conn.Close()
	}
	p.clients = nil
	p.clientsMu.Unlock()

	p.logger().Info("PMU server stopped")
}

func (p *PMU) acceptLoop() {
	for p.running {
		conn, err := p.listener.Accept()
		if err != nil {
			if p.running {
				p.logger().WithError(err).Error("error accepting connection")
			}
			continue
		}

		p.logger().WithField("client", conn.RemoteAddr().String()).Info("PDC client connected")

		p.clientsMu.Lock()
		p.clients = append(p.clients, conn)
		p.clientsMu.Unlock()
		p.sendDataMu.Lock()
		p.sendData[conn] = false
		p.sendDataMu.Unlock()

		if p.metrics != nil {
			p.metrics.RecordClientConnected()
		}

		go p.handleClient(conn)
	}
}

func (p *PMU) handleClient(conn net.Conn) {
	clientAddr := conn.RemoteAddr().String()

	defer func() {
		_ = conn.Close()
		p.clientsMu.Lock()
		for i, c := range p.clients {
			if c == conn {
				p.clients = append(p.clients[:i], p.clients[i+1:]...)
				break
			}
		}
		p.clientsMu.Unlock()
		p.sendDataMu.Lock()
		delete(p.sendData, conn)
		p.sendDataMu.Unlock()

		if p.metrics != nil {
			p.metrics.RecordClientDisconnected()
		}
		p.logger().WithField("client", clientAddr).Info("PDC client disconnected")
	}()

	buf := make([]byte, c37118.MaxFrameSize)

	for p.running {
		if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			p.logger().WithField("client", clientAddr).WithError(err).Error("error setting read deadline")
			return
		}

		n, err := conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return
		}

		if p.metrics != nil {
			p.metrics.RecordBytesReceived(n)
		}

		if n < 4 {
			continue
		}
		frameSize := int(uint16(buf[2])<<8 | uint16(buf[3]))
		if n < frameSize {
			continue
		}

		msg, err := c37118.Decode(c37118.ByteSource(buf[:frameSize]))
		if err != nil {
			p.logger().WithField("client", clientAddr).WithError(err).Error("error decoding frame")
			if p.metrics != nil {
				p.metrics.RecordFrameError("decode_error")
			}
			continue
		}

		if cmd, ok := msg.Data.Cmd(); ok {
			p.handleCommand(conn, cmd)
		}
	}
}

func (p *PMU) zeroTime() c37118.Time {
	t, _ := c37118.NewTime(uint32(time.Now().Unix()), 0, false, false, false, c37118.Locked)
	return t
}

func (p *PMU) handleCommand(conn net.Conn, cmd c37118.CmdType) {
	clientAddr := conn.RemoteAddr().String()
	var response []byte
	var err error
	var cmdName string

	switch cmd.Code() {
	case c37118.TurnOnDataFrames:
		cmdName = "START"
		p.sendDataMu.Lock()
		p.sendData[conn] = true
		p.sendDataMu.Unlock()

	case c37118.TurnOffDataFrames:
		cmdName = "STOP"
		p.sendDataMu.Lock()
		p.sendData[conn] = false
		p.sendDataMu.Unlock()

	case c37118.SendHdrFrame:
		cmdName = "HEADER"
		response, err = p.encode(c37118.NewHeaderPayload(p.Header.EncodePayload()))
		if err == nil && p.metrics != nil {
			p.metrics.RecordHeaderFrameSent(len(response))
		}

	case c37118.SendCfg1Frame:
		cmdName = "CONFIG1"
		response, err = p.encodeConfig(c37118.NewCfg1Payload)

	case c37118.SendCfg2Frame:
		cmdName = "CONFIG2"
		response, err = p.encodeConfig(c37118.NewCfg2Payload)

	case c37118.SendCfg3Frame:
		cmdName = "CONFIG3"
		response, err = p.encodeConfig(c37118.NewCfg3Payload)

	default:
		cmdName = fmt.Sprintf("UNKNOWN(%d)", cmd.Code())
	}

	if p.metrics != nil {
		p.metrics.RecordCommand(cmdName)
	}

	p.logger().WithFields(logrus.Fields{"client": clientAddr, "command": cmdName}).Debug("received command")

	if err != nil {
		p.logger().WithFields(logrus.Fields{"client": clientAddr, "command": cmdName, "error": err}).Error("error building response")
		if p.metrics != nil {
			p.metrics.RecordFrameError("pack_error")
		}
		return
	}
	if response == nil {
		return
	}
	if _, err := conn.Write(response); err != nil {
		p.logger().WithFields(logrus.Fields{"client": clientAddr, "command": cmdName, "error": err}).Error("error writing response")
	}
}

func (p *PMU) encodeConfig(wrap func([]byte) c37118.DataType) ([]byte, error) {
	payload, err := p.Config.EncodePayload()
	if err != nil {
		return nil, err
	}
	resp, err := p.encode(wrap(payload))
	if err == nil && p.metrics != nil {
		p.metrics.RecordConfigFrameSent(len(resp))
	}
	return resp, err
}

func (p *PMU) encode(data c37118.DataType) ([]byte, error) {
	msg := c37118.Message{
		Version: c37118.Std2011,
		IDCode:  p.IDCode,
		Time:    p.zeroTime(),
		Data:    data,
	}
	sink := c37118.NewSliceSink(nil, c37118.MaxFrameSize)
	if err := c37118.Encode(msg, sink); err != nil {
		return nil, err
	}
	return sink.View(), nil
}

// dataSender synthesizes and transmits Data frames at DataRate Hz,
// aligned to wall-clock boundaries via wallTicker.
func (p *PMU) dataSender() {
	if p.DataRate <= 0 {
		p.DataRate = 1
	}
	align := time.Second / time.Duration(p.DataRate)
	p.ticker = newWallTicker(align, 0, true, p.metrics, p.logger())
	p.lastRateTime = time.Now()

	for p.running {
		<-p.ticker.C
		p.sendOneFrame()
	}
}

func (p *PMU) sendOneFrame() {
	m := pmuconfig.NewMeasurements(p.Config)
	angle := float64(p.counter) * math.Pi / 180.0

	for i, s := range p.Config.Stations {
		sample := &m.Samples[i]
		sample.Stat = 0
		for j := range sample.Phasors {
			mag := 67000.0 + 1000.0*float64(j)
			sample.Phasors[j] = complex(mag*math.Cos(angle), mag*math.Sin(angle))
		}
		nominal := s.NominalFrequency()
		sample.Freq = nominal + 0.02*float32(math.Sin(float64(p.counter)*0.05))
		sample.DFreq = 0.01 * float32(math.Cos(float64(p.counter)*0.05))
		for j := range sample.Analog {
			sample.Analog[j] = 100.0 * float32(math.Sin(float64(p.counter)*0.1+float64(j)))
		}
	}

	payload, err := m.EncodePayload()
	if err != nil {
		p.logger().WithError(err).Error("error encoding data frame")
		if p.metrics != nil {
			p.metrics.RecordFrameError("data_pack_error")
		}
		return
	}
	frame, err := p.encode(c37118.NewDataPayload(payload))
	if err != nil {
		p.logger().WithError(err).Error("error encoding data frame")
		if p.metrics != nil {
			p.metrics.RecordFrameError("data_pack_error")
		}
		return
	}

	active := 0
	p.clientsMu.Lock()
	for conn := range p.sendData {
		p.sendDataMu.Lock()
		enabled := p.sendData[conn]
		p.sendDataMu.Unlock()
		if !enabled {
			continue
		}
		active++
		go func(c net.Conn) {
			if err := c.SetWriteDeadline(time.Now().Add(100 * time.Millisecond)); err != nil {
				return
			}
			_, _ = c.Write(frame)
		}(conn)
	}
	p.clientsMu.Unlock()

	if active > 0 {
		p.framesSent++
		if p.metrics != nil {
			p.metrics.RecordDataFrameSent(len(frame))
		}
	}

	if time.Since(p.lastRateTime) >= time.Second {
		rate := float64(p.framesSent) / time.Since(p.lastRateTime).Seconds()
		if p.metrics != nil {
			p.metrics.UpdateDataFrameRate(rate)
		}
		p.framesSent = 0
		p.lastRateTime = time.Now()
	}

	p.counter++
	if p.counter >= 360 {
		p.counter = 0
	}
}

// LogConfiguration logs the PMU's configuration at startup, grounded on
// the teacher's LogConfiguration.
func (p *PMU) LogConfiguration() {
	if p.Config == nil {
		p.logger().Warn("no configuration available to log")
		return
	}

	p.logger().WithFields(logrus.Fields{
		"id_code":   p.IDCode,
		"time_base": p.Config.TimeBase,
		"data_rate": p.Config.DataRate,
		"num_pmu":   len(p.Config.Stations),
	}).Info("PMU configuration")

	for _, s := range p.Config.Stations {
		p.logger().WithFields(logrus.Fields{
			"station_name":      s.Name,
			"station_id":        s.IDCode,
			"nominal_frequency": s.NominalFrequency(),
			"phasor_channels":   s.PhasorCount(),
			"analog_channels":   s.AnalogCount(),
			"digital_channels":  s.DigitalCount(),
			"coord_polar":       s.PolarPhasors(),
			"phasor_float":      s.FloatPhasors(),
		}).Info("PMU station configuration")
	}
}
