// Package linetransport implements C2: the telnet, serial, and local line
// adapters that pump bytes between sockets/UARTs and the byte pipe plane
// (internal/pipeplane), plus the Line registry (spec §3).
package linetransport

import (
	"sync"
	"time"
)

// Type is the configured kind of a line (spec §6).
type Type int

const (
	TypeTelnet Type = iota
	TypeSerial
	TypeLocal
)

func (t Type) String() string {
	switch t {
	case TypeTelnet:
		return "telnet"
	case TypeSerial:
		return "serial"
	case TypeLocal:
		return "local"
	default:
		return "unknown"
	}
}

// ConnState is the line's connection state, independent of the session
// login state machine in internal/session.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

// SerialConfig holds the per-line serial configuration (spec §6).
type SerialConfig struct {
	Driver string // BlockDriver name
	Port   string
	Baud   int
	Bits   int    // 5,6,7,8
	Parity string // N, E, O
	Stop   int    // 1, 2
	Flow   string // none, rts, xon, dtr
}

// Line is the per-line state described in spec §3. Fields mutated by C2/C3
// are guarded by mu; the line is created at startup and destroyed only at
// shutdown.
type Line struct {
	mu sync.RWMutex

	ID      int
	Type    Type
	Enabled bool
	Serial  SerialConfig

	state           ConnState
	peer            string
	connectedAt     time.Time
	boundUserID     int // 0 = none
	activity        string
	transferActive  bool
	cancelRequested bool
}

// NewLine constructs a disconnected Line.
func NewLine(id int, typ Type, enabled bool) *Line {
	return &Line{ID: id, Type: typ, Enabled: enabled, state: Disconnected}
}

// maxActivityLen caps the free-text activity label (spec §3: "≤ 96 bytes").
const maxActivityLen = 96

// Connect transitions the line to Connected with the given peer label. Per
// the invariant in spec §3, a freshly-connected line has no bound user.
func (l *Line) Connect(peer string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Connected
	l.peer = peer
	l.connectedAt = time.Now()
	l.boundUserID = 0
	l.activity = ""
	l.cancelRequested = false
}

// Disconnect returns the line to Disconnected, clearing bound user and
// activity (spec §3 invariant) and transfer-active.
func (l *Line) Disconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Disconnected
	l.peer = ""
	l.boundUserID = 0
	l.activity = ""
	l.transferActive = false
	l.cancelRequested = false
}

func (l *Line) State() ConnState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Line) Peer() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.peer
}

func (l *Line) ConnectedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.connectedAt
}

// BindUser records the authenticated user's id on this line.
func (l *Line) BindUser(userID int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.boundUserID = userID
}

// UnbindUser clears the bound user (spec §5 cancellation: "emits a 'user
// unbound' event if a user was bound").
func (l *Line) UnbindUser() (wasBound bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	wasBound = l.boundUserID != 0
	l.boundUserID = 0
	return wasBound
}

func (l *Line) BoundUserID() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.boundUserID
}

// SetActivity sets the free-text activity label, truncated to 96 bytes.
func (l *Line) SetActivity(text string) {
	if len(text) > maxActivityLen {
		text = text[:maxActivityLen]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activity = text
}

func (l *Line) Activity() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activity
}

// SetTransferActive toggles the flag that suppresses idle timeout and
// switches C2 to binary/IAC-transparent mode (spec §4.2, §4.5).
func (l *Line) SetTransferActive(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transferActive = active
}

func (l *Line) TransferActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.transferActive
}

// RequestCancel raises the cancellation flag (spec §5): the next scheduler
// visit must abort any active transfer, pop the script call stack, unbind
// the user, and return the line to Disconnected.
func (l *Line) RequestCancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelRequested = true
}

func (l *Line) CancelRequested() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cancelRequested
}

// Registry holds all configured lines, 0..N-1, N <= 32 (spec §3).
type Registry struct {
	mu    sync.RWMutex
	lines []*Line

	acceptingNew bool
}

// MaxLines is the hard ceiling on simultaneous lines (spec §2: "up to 32
// simultaneous sessions").
const MaxLines = 32

// NewRegistry builds a Registry from a line configuration list. types and
// enabled must have matching lengths, one entry per line, no more than
// MaxLines.
func NewRegistry(types []Type, enabled []bool) *Registry {
	n := len(types)
	if n > MaxLines {
		n = MaxLines
	}
	r := &Registry{lines: make([]*Line, n), acceptingNew: true}
	for i := 0; i < n; i++ {
		e := false
		if i < len(enabled) {
			e = enabled[i]
		}
		r.lines[i] = NewLine(i, types[i], e)
	}
	return r
}

func (r *Registry) Line(id int) *Line {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.lines) {
		return nil
	}
	return r.lines[id]
}

func (r *Registry) Lines() []*Line {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// AcceptingNewConnections reports the global accept gate (spec §6 UI
// contract: "set accepting new connections bool").
func (r *Registry) AcceptingNewConnections() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.acceptingNew
}

func (r *Registry) SetAcceptingNewConnections(accept bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acceptingNew = accept
}

// FirstFreeTelnetLine returns the first disabled-or-disconnected telnet line
// available to accept a new connection, reserving line 0 style local slots
// per spec §4.2 ("up to N-1 simultaneously, one reserved for local").
func (r *Registry) FirstFreeTelnetLine() *Line {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.lines {
		if l.Type != TypeTelnet {
			continue
		}
		if !l.Enabled {
			continue
		}
		if l.State() == Disconnected {
			return l
		}
	}
	return nil
}
