package linetransport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/stlalpha/v3bbs/internal/bbserrors"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
	"github.com/stlalpha/v3bbs/internal/uievents"
)

// pollInterval is how often SerialLink polls DCD and pumps bytes.
const pollInterval = 20 * time.Millisecond

// serialMode builds the go.bug.st/serial mode from a Line's SerialConfig
// (spec §6: word format [bits][parity][stop], bits in 5-8, parity N/E/O,
// stop 1/2).
func serialMode(cfg SerialConfig) (*serial.Mode, error) {
	var parity serial.Parity
	switch cfg.Parity {
	case "N", "":
		parity = serial.NoParity
	case "E":
		parity = serial.EvenParity
	case "O":
		parity = serial.OddParity
	default:
		return nil, fmt.Errorf("serial: unknown parity %q", cfg.Parity)
	}
	var stop serial.StopBits
	switch cfg.Stop {
	case 1, 0:
		stop = serial.OneStopBit
	case 2:
		stop = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("serial: unknown stop bits %d", cfg.Stop)
	}
	bits := cfg.Bits
	if bits == 0 {
		bits = 8
	}
	return &serial.Mode{BaudRate: cfg.Baud, DataBits: bits, Parity: parity, StopBits: stop}, nil
}

// SerialLink pumps bytes between a physical/virtual serial port and one
// line's pipe pair, polling DCD (via the port's modem status lines) to
// detect connect/disconnect (spec §4.2 Serial).
type SerialLink struct {
	port  serial.Port
	line  *Line
	plane *pipeplane.Plane

	events   *uievents.Bus
	lastDCD  bool
	stopping chan struct{}
}

// OpenSerialLink loads and initializes the named port for line (spec §4.2:
// "load the named BlockDriver, initialise port").
func OpenSerialLink(line *Line, plane *pipeplane.Plane, events *uievents.Bus) (*SerialLink, error) {
	mode, err := serialMode(line.Serial)
	if err != nil {
		return nil, bbserrors.Transport("serial.open", err)
	}
	port, err := serial.Open(line.Serial.Port, mode)
	if err != nil {
		return nil, bbserrors.Transport("serial.open", err)
	}
	line.Disconnect() // registers the line as disconnected per spec
	return &SerialLink{port: port, line: line, plane: plane, events: events, stopping: make(chan struct{})}, nil
}

// Close releases the underlying port.
func (s *SerialLink) Close() error { return s.port.Close() }

// Poll runs one polling iteration: checks DCD for connect/disconnect edges
// and pumps bytes in both directions through the line's pipes. Callers loop
// this at pollInterval.
func (s *SerialLink) Poll() error {
	status, err := s.port.GetModemStatusBits()
	if err != nil {
		return bbserrors.Transport("serial.poll", err)
	}
	dcd := status.CD

	if dcd && !s.lastDCD {
		s.line.Connect("SERIAL")
		if s.events != nil {
			s.events.Publish(uievents.Event{Kind: uievents.LineConnected, Line: s.line.ID, Text: "SERIAL"})
		}
	} else if !dcd && s.lastDCD {
		s.line.Disconnect()
		if err := s.plane.Reset(s.line.ID); err != nil {
			return err
		}
		if s.events != nil {
			s.events.Publish(uievents.Event{Kind: uievents.LineDisconnected, Line: s.line.ID})
		}
		if err := s.reinitPort(); err != nil {
			return err
		}
	}
	s.lastDCD = dcd

	if s.line.State() != Connected {
		return nil
	}
	return s.pumpBytes()
}

func (s *SerialLink) reinitPort() error {
	mode, err := serialMode(s.line.Serial)
	if err != nil {
		return bbserrors.Transport("serial.reinit", err)
	}
	return s.port.SetMode(mode)
}

func (s *SerialLink) pumpBytes() error {
	_ = s.port.SetReadTimeout(5 * time.Millisecond)
	buf := make([]byte, 256)
	n, err := s.port.Read(buf)
	if err != nil {
		return bbserrors.Transport("serial.read", err)
	}
	if n > 0 {
		if _, err := s.plane.EnqueueInput(s.line.ID, buf[:n]); err != nil {
			return err
		}
	}

	out := make([]byte, 256)
	n, err = s.plane.DequeueOutput(s.line.ID, out)
	if err != nil {
		return err
	}
	if n > 0 {
		if _, err := s.port.Write(out[:n]); err != nil {
			return bbserrors.Transport("serial.write", err)
		}
	}
	return nil
}

// PollInterval exposes the recommended poll cadence for callers driving
// Poll in a loop.
func PollInterval() time.Duration { return pollInterval }
