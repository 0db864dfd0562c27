// Package session implements the C3 per-line session lifecycle described in
// spec §3/§5: the DISCONNECTED -> PRELOGON -> AUTHENTICATED state machine,
// idle timeout, and the glue wiring C2 (internal/linetransport), the
// terminal model (internal/ansigrid), the scripting engine
// (internal/script), and the object store (internal/store) together for
// one line.
//
// Grounded on vision3's internal/session/{session.go,handler.go}: the shape
// of a per-connection state struct plus a phased HandleConnection lifecycle
// survives, generalized from an SSH-channel/PTY session to a line-indexed,
// non-blocking one driven by a scheduler tick instead of a dedicated
// goroutine per connection.
package session

import (
	"sync"
	"time"

	"github.com/stlalpha/v3bbs/internal/ansigrid"
	"github.com/stlalpha/v3bbs/internal/config"
	"github.com/stlalpha/v3bbs/internal/linetransport"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
	"github.com/stlalpha/v3bbs/internal/script"
	"github.com/stlalpha/v3bbs/internal/store"
	"github.com/stlalpha/v3bbs/internal/transfer"
)

// State is the session's own login state, distinct from the line's
// connection state (spec §3: "DISCONNECTED -> PRELOGON -> AUTHENTICATED").
type State int

const (
	StateDisconnected State = iota
	StatePreLogon
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StatePreLogon:
		return "prelogon"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// DefaultIdleTimeout is the inactivity limit before a session is dropped
// (spec §3); idle accounting is suspended while a transfer is active.
const DefaultIdleTimeout = 10 * time.Minute

// Session is the live per-line session state.
type Session struct {
	mu sync.RWMutex

	LineID int
	Line   *linetransport.Line
	Plane  *pipeplane.Plane
	Grid   *ansigrid.Grid
	Blink  *ansigrid.Blinker

	Store *store.Store
	Interp *script.Interpreter

	state        State
	User         store.UserRecord
	startTime    time.Time
	lastActivity time.Time
	idleTimeout  time.Duration

	// inputMode and lineBuf implement the line-vs-char input accumulation
	// needed to satisfy a pending script.Wait (spec §4.4/§5).
	echo      script.EchoMode
	lineBuf   []byte
	wantLine  bool
	pending   *script.Wait

	// ansiProbe tracks an in-flight DETECTANSI wait's deadline.
	ansiProbeDeadline time.Time

	// onlineUsersFunc is supplied by the registry that owns this session,
	// which is the only thing that can see every line at once.
	onlineUsersFunc func() []string

	ansiDetected bool

	// TransferDir roots the relative paths SENDFILE/RECEIVEFILE name
	// (spec §4.4); Protocols is the selection table FindProtocol/
	// DefaultProtocol consult for the protocol key a script passes.
	TransferDir string
	Protocols   []transfer.ProtocolConfig

	// Doors is the DOOR built-in's lookup table, keyed by door name.
	Doors map[string]config.DoorConfig

	xfer *activeTransfer
	door *doorProc
}

// New constructs a Session bound to one line, ready to begin PRELOGON once
// the line transport reports Connected.
func New(lineID int, line *linetransport.Line, plane *pipeplane.Plane, st *store.Store) *Session {
	return &Session{
		LineID:      lineID,
		Line:        line,
		Plane:       plane,
		Grid:        ansigrid.New(),
		Blink:       ansigrid.NewBlinker(),
		Store:       st,
		state:       StateDisconnected,
		idleTimeout: DefaultIdleTimeout,
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Begin transitions a freshly-connected line into PRELOGON and starts the
// idle clock.
func (s *Session) Begin() {
	now := time.Now()
	s.mu.Lock()
	s.state = StatePreLogon
	s.startTime = now
	s.lastActivity = now
	s.mu.Unlock()
}

// Touch records input activity, resetting the idle clock.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// IdleExceeded reports whether the session has been idle past its timeout.
// Idle accounting is suspended while a transfer is in progress (spec §4.5).
func (s *Session) IdleExceeded() bool {
	if s.Line.TransferActive() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastActivity) > s.idleTimeout
}

// Authenticate runs the credential check against the object store and, on
// success, transitions to AUTHENTICATED and binds the line.
func (s *Session) authenticateUser(username, password string) script.AuthResult {
	result, rec := s.Store.Authenticate(username, password)
	switch result {
	case store.AuthSuccess:
		s.mu.Lock()
		s.User = rec
		s.state = StateAuthenticated
		s.mu.Unlock()
		s.Line.BindUser(int(rec.ID))
		_ = s.Store.RecordLogin(rec.ID)
		return script.AuthSuccess
	case store.AuthBadPassword:
		return script.AuthBadPassword
	case store.AuthNotValidated:
		return script.AuthLocked
	default:
		return script.AuthNoUser
	}
}

// StartScript installs prog as the session's running script, using load to
// resolve any SCRIPT subscript calls it makes (spec §4.4).
func (s *Session) StartScript(prog *script.Program, load script.Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Interp = script.New(prog, hostAdapter{s: s}, macroAdapter{s: s}, load)
	s.pending = nil
}

// End tears the session down: unbinds the user (if any), resets the line
// and pipe plane, and returns the session to DISCONNECTED (spec §5
// "cancellation").
func (s *Session) End() {
	s.Line.UnbindUser()
	s.Line.SetTransferActive(false)
	s.Line.Disconnect()
	_ = s.Plane.Reset(s.LineID)
	s.mu.Lock()
	s.state = StateDisconnected
	s.Interp = nil
	s.pending = nil
	s.xfer = nil
	s.door = nil
	s.mu.Unlock()
}
