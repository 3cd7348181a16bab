// Package serial frames a synchrophasor byte stream arriving over an
// RS-232/RS-485 link, the way librescoot-bluetooth-service's pkg/usock
// frames its own UART protocol: a byte-at-a-time state machine feeding
// a channel of complete frames, adapted here to this protocol's own
// SYNC word and FRAMESIZE field instead of usock's sync-byte-pair/
// frame-ID/length header.
package serial

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"

	c37118 "github.com/wattloop/c37118"
)

// Config describes how to open the UART link to a PMU.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

func (c Config) toPortConfig() *serial.Config {
	return &serial.Config{
		Name:        c.Device,
		Baud:        c.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: c.ReadTimeout,
	}
}

const (
	stateSync = iota
	stateTypeByte
	stateSize1
	stateSize2
	statePayload
)

// Listener reads a serial port byte by byte, reassembling complete
// C37.118 frames and delivering them on Frames(). Framing only; each
// delivered frame still needs c37118.Decode to validate its checksum
// and dissect its fields.
type Listener struct {
	port   *serial.Port
	log    *logrus.Entry
	frames chan []byte
	errs   chan error
	done   chan struct{}
	wg     sync.WaitGroup

	state     int
	buf       []byte
	frameSize uint16
}

// Open opens the serial port described by cfg and starts the framing
// read loop in the background.
func Open(cfg Config, log *logrus.Entry) (*Listener, error) {
	port, err := serial.OpenPort(cfg.toPortConfig())
	if err != nil {
		return nil, fmt.Errorf("transport/serial: open %s: %w", cfg.Device, err)
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	l := &Listener{
		port:   port,
		log:    log.WithField("device", cfg.Device),
		frames: make(chan []byte, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		buf:    make([]byte, 0, 256),
	}

	l.wg.Add(1)
	go l.readLoop()

	return l, nil
}

// Frames delivers complete, framed byte ranges as they're assembled.
// Each one is a candidate for c37118.Decode.
func (l *Listener) Frames() <-chan []byte { return l.frames }

// Errors delivers unrecoverable read errors. The loop exits after
// sending one.
func (l *Listener) Errors() <-chan error { return l.errs }

// Close stops the read loop and closes the underlying port.
func (l *Listener) Close() error {
	close(l.done)
	l.wg.Wait()
	return l.port.Close()
}

func (l *Listener) readLoop() {
	defer l.wg.Done()
	defer close(l.frames)

	b := make([]byte, 1)
	for {
		select {
		case <-l.done:
			return
		default:
		}

		n, err := l.port.Read(b)
		if err != nil {
			l.log.WithError(err).Warn("serial read failed")
			select {
			case l.errs <- err:
			default:
			}
			return
		}
		if n == 0 {
			continue
		}

		if frame, ok := l.step(b[0]); ok {
			select {
			case l.frames <- frame:
			case <-l.done:
				return
			}
		}
	}
}

// step advances the framing state machine by one byte, returning a
// complete frame and true once SYNC+FRAMESIZE+payload+CHK have all
// arrived.
func (l *Listener) step(b byte) ([]byte, bool) {
	switch l.state {
	case stateSync:
		if b == 0xAA {
			l.buf = append(l.buf[:0], b)
			l.state = stateTypeByte
		}
	case stateTypeByte:
		l.buf = append(l.buf, b)
		l.state = stateSize1
	case stateSize1:
		l.buf = append(l.buf, b)
		l.frameSize = uint16(b) << 8
		l.state = stateSize2
	case stateSize2:
		l.buf = append(l.buf, b)
		l.frameSize |= uint16(b)
		if l.frameSize < 16 || l.frameSize > c37118.MaxFrameSize {
			l.log.WithField("framesize", l.frameSize).Warn("serial: rejecting implausible FRAMESIZE")
			l.state = stateSync
			return nil, false
		}
		l.state = statePayload
	case statePayload:
		l.buf = append(l.buf, b)
		if uint16(len(l.buf)) >= l.frameSize {
			frame := make([]byte, len(l.buf))
			copy(frame, l.buf)
			l.state = stateSync
			l.buf = l.buf[:0]
			return frame, true
		}
	}
	return nil, false
}
