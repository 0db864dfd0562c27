package session

import "github.com/stlalpha/v3bbs/internal/script"

// macroAdapter implements script.MacroSource against a Session's bound
// user and line state.
type macroAdapter struct {
	s *Session
}

func (s *Session) Macros() script.MacroSource { return macroAdapter{s: s} }

func (m macroAdapter) AccessLevel() int { return int(m.s.User.AccessLevel) }
func (m macroAdapter) UserID() int      { return int(m.s.User.ID) }
func (m macroAdapter) Registered() bool { return m.s.State() == StateAuthenticated }
func (m macroAdapter) Sysop() bool      { return m.s.User.AccessLevel >= 255 }
func (m macroAdapter) Keys() string     { return m.s.User.Flags }
func (m macroAdapter) Line() int        { return m.s.LineID }
func (m macroAdapter) ANSI() bool {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.ansiDetected
}

// The message/file base selection macros need the message-base and
// file-base area registries (C7/C9 scope); until those are wired in, a
// session has no current base to report.
func (m macroAdapter) MessageBaseID() string       { return "" }
func (m macroAdapter) MessageBaseName() string     { return "" }
func (m macroAdapter) MessageBaseAreaID() string   { return "" }
func (m macroAdapter) MessageBaseAreaName() string { return "" }
func (m macroAdapter) FileBaseID() string          { return "" }
func (m macroAdapter) FileBaseName() string        { return "" }
func (m macroAdapter) FileBaseAreaID() string       { return "" }
func (m macroAdapter) FileBaseAreaName() string     { return "" }
