package linetransport

import (
	"bufio"
	"net"
	"sync/atomic"

	"github.com/stlalpha/v3bbs/internal/bbserrors"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
)

// Telnet command bytes (RFC 854).
const (
	iac  byte = 255
	dont byte = 254
	do   byte = 253
	wont byte = 252
	will byte = 251
	sb   byte = 250
	se   byte = 240

	optEcho byte = 1
	optSGA  byte = 3
	optBin  byte = 0
)

// iacState drives the normal-mode telnet command stripper.
type iacState int

const (
	stData iacState = iota
	stIAC
	stWill
	stWont
	stDo
	stDont
	stSB
	stSBData
	stSBIAC
)

// TelnetLink pumps bytes between a net.Conn and one line's pipe pair,
// applying telnet command stripping/negotiation in normal mode and IAC
// transparency (0xFF doubling) while the line's transfer-active flag is set
// (spec §4.2).
type TelnetLink struct {
	conn   net.Conn
	reader *bufio.Reader
	plane  *pipeplane.Plane
	line   *Line

	state  iacState
	sbOpt  byte
	sbData []byte

	closed int32
}

// NewTelnetLink wraps conn for the given line, using plane for byte
// exchange with the session runtime.
func NewTelnetLink(conn net.Conn, line *Line, plane *pipeplane.Plane) *TelnetLink {
	return &TelnetLink{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 512),
		plane:  plane,
		line:   line,
		state:  stData,
	}
}

// Negotiate sends the standard option offer (spec §4.2): WILL SGA, WILL
// ECHO, DO BINARY.
func (t *TelnetLink) Negotiate() error {
	_, err := t.conn.Write([]byte{
		iac, will, optSGA,
		iac, will, optEcho,
		iac, do, optBin,
	})
	if err != nil {
		return bbserrors.Transport("telnet.negotiate", err)
	}
	return nil
}

// Attach marks the line connected with the remote peer's address as its
// label.
func (t *TelnetLink) Attach() {
	t.line.Connect(t.conn.RemoteAddr().String())
}

// Line returns the line this link is attached to, so a caller assembling
// the per-line session can find it after TelnetServer.Accept hands back
// a ready-to-pump link.
func (t *TelnetLink) Line() *Line { return t.line }

// Detach marks the line disconnected and closes the underlying connection.
func (t *TelnetLink) Detach() error {
	atomic.StoreInt32(&t.closed, 1)
	t.line.Disconnect()
	if err := t.plane.Reset(t.line.ID); err != nil {
		return err
	}
	return t.conn.Close()
}

// PumpInbound reads one chunk from the socket and feeds the pipe plane,
// applying telnet processing appropriate to the line's current
// transfer-active state. It returns the number of payload bytes delivered
// to the input pipe, or an error on read failure/EOF.
func (t *TelnetLink) PumpInbound() (int, error) {
	buf := make([]byte, 512)
	n, err := t.reader.Read(buf)
	if err != nil {
		return 0, bbserrors.Transport("telnet.read", err)
	}
	chunk := buf[:n]

	if t.line.TransferActive() {
		return t.pumpBinary(chunk)
	}
	return t.pumpNormal(chunk)
}

// pumpBinary applies IAC transparency: un-double 0xFF 0xFF to a single
// 0xFF, do not strip telnet commands, do not translate CR-NUL (spec §4.2).
func (t *TelnetLink) pumpBinary(chunk []byte) (int, error) {
	out := make([]byte, 0, len(chunk))
	i := 0
	for i < len(chunk) {
		b := chunk[i]
		if b == iac && i+1 < len(chunk) && chunk[i+1] == iac {
			out = append(out, iac)
			i += 2
			continue
		}
		out = append(out, b)
		i++
	}
	n, err := t.plane.EnqueueInput(t.line.ID, out)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// pumpNormal strips telnet IAC commands and translates CR-NUL to CR (spec
// §4.2).
func (t *TelnetLink) pumpNormal(chunk []byte) (int, error) {
	var out []byte
	var pendingCR bool
	for _, b := range chunk {
		switch t.state {
		case stData:
			if b == iac {
				t.state = stIAC
				continue
			}
			if pendingCR {
				pendingCR = false
				if b == 0 {
					continue // CR-NUL -> CR already emitted
				}
			}
			if b == '\r' {
				pendingCR = true
			}
			out = append(out, b)
		case stIAC:
			switch b {
			case will:
				t.state = stWill
			case wont:
				t.state = stWont
			case do:
				t.state = stDo
			case dont:
				t.state = stDont
			case sb:
				t.state = stSB
				t.sbData = nil
			case iac:
				out = append(out, iac)
				t.state = stData
			default:
				t.state = stData
			}
		case stWill, stWont, stDo, stDont:
			// Accept idempotently; we do not track per-option state beyond
			// the initial negotiation offer.
			t.state = stData
		case stSB:
			t.sbOpt = b
			t.state = stSBData
		case stSBData:
			if b == iac {
				t.state = stSBIAC
				continue
			}
			t.sbData = append(t.sbData, b)
		case stSBIAC:
			if b == se {
				t.state = stData
			} else {
				t.sbData = append(t.sbData, b)
				t.state = stSBData
			}
		}
	}
	n, err := t.plane.EnqueueInput(t.line.ID, out)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// PumpOutbound drains the output pipe into the socket, applying IAC
// doubling when transfer-active (spec §4.2: "output buffer sized for 2x
// payload").
func (t *TelnetLink) PumpOutbound() (int, error) {
	buf := make([]byte, 512)
	n, err := t.plane.DequeueOutput(t.line.ID, buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	chunk := buf[:n]

	if t.line.TransferActive() {
		escaped := make([]byte, 0, len(chunk)*2)
		for _, b := range chunk {
			if b == iac {
				escaped = append(escaped, iac, iac)
			} else {
				escaped = append(escaped, b)
			}
		}
		if _, err := t.conn.Write(escaped); err != nil {
			return 0, bbserrors.Transport("telnet.write", err)
		}
		return n, nil
	}

	if _, err := t.conn.Write(chunk); err != nil {
		return 0, bbserrors.Transport("telnet.write", err)
	}
	return n, nil
}

// Closed reports whether Detach has been called.
func (t *TelnetLink) Closed() bool {
	return atomic.LoadInt32(&t.closed) == 1
}
