package linetransport

import (
	"net"

	"github.com/stlalpha/v3bbs/internal/bbserrors"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
	"github.com/stlalpha/v3bbs/internal/uievents"
)

// DefaultTelnetPort is the standard telnet listen port (spec §6).
const DefaultTelnetPort = 23

// TelnetServer accepts TCP connections and attaches each to a free line
// (spec §4.2).
type TelnetServer struct {
	registry *Registry
	plane    *pipeplane.Plane
	events   *uievents.Bus
}

// NewTelnetServer constructs a server wired to registry and plane.
func NewTelnetServer(registry *Registry, plane *pipeplane.Plane, events *uievents.Bus) *TelnetServer {
	return &TelnetServer{registry: registry, plane: plane, events: events}
}

// Accept handles a single accepted connection: rejects it immediately if
// the per-line enabled flag or the global accept gate is false, otherwise
// negotiates telnet options and returns a ready-to-pump *TelnetLink.
//
// A nil link with nil error means the connection was deliberately rejected
// (no line available, or accept disabled) and has already been closed.
func (s *TelnetServer) Accept(conn net.Conn) (*TelnetLink, error) {
	if !s.registry.AcceptingNewConnections() {
		conn.Close()
		return nil, nil
	}
	line := s.registry.FirstFreeTelnetLine()
	if line == nil {
		conn.Close()
		return nil, nil
	}

	link := NewTelnetLink(conn, line, s.plane)
	if err := link.Negotiate(); err != nil {
		conn.Close()
		return nil, err
	}
	link.Attach()
	if s.events != nil {
		s.events.Publish(uievents.Event{Kind: uievents.LineConnected, Line: line.ID, Text: line.Peer()})
	}
	return link, nil
}

// Serve runs conn's pump loop until the connection closes, the line is
// cancelled, or an error occurs. It is meant to run on its own goroutine per
// accepted connection; internal bookkeeping against the plane is safe for
// this because each line's rings are single-writer/single-reader.
func (s *TelnetServer) Serve(link *TelnetLink) error {
	defer func() {
		link.Detach()
		if s.events != nil {
			s.events.Publish(uievents.Event{Kind: uievents.LineDisconnected, Line: link.line.ID})
		}
	}()
	for {
		if link.line.CancelRequested() {
			return nil
		}
		if _, err := link.PumpInbound(); err != nil {
			return bbserrors.Transport("telnet.serve", err)
		}
	}
}
