package session

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/stlalpha/v3bbs/internal/script"
)

// hostAdapter implements script.Host by delegating to the session it wraps.
// It is the one place C4 (the scripting engine) reaches back into C2/C3/C6.
type hostAdapter struct {
	s *Session
}

func (s *Session) Host() script.Host { return hostAdapter{s: s} }

func (h hostAdapter) Output(text string) {
	h.s.Grid.Write([]byte(text))
	_, _ = h.s.Plane.EnqueueOutput(h.s.LineID, []byte(text))
}

func (h hostAdapter) ScreenHeight() int { return 24 }

func (h hostAdapter) ClearScreen() { h.Output("\x1b[2J\x1b[H") }

func (h hostAdapter) SetColor(fg, bg int) {
	h.Output("\x1b[" + strconv.Itoa(30+fg%8) + ";" + strconv.Itoa(40+bg%8) + "m")
}

func (h hostAdapter) SetBold(on bool) {
	if on {
		h.Output("\x1b[1m")
	} else {
		h.Output("\x1b[22m")
	}
}

func (h hostAdapter) SetStandard() { h.Output("\x1b[0m") }

func (h hostAdapter) SetFlash(on bool) {
	if on {
		h.Output("\x1b[5m")
	} else {
		h.Output("\x1b[25m")
	}
}

func (h hostAdapter) RandomInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.Intn(hi-lo+1)
}

func (h hostAdapter) HasKey(k byte) bool {
	flags := h.s.User.Flags
	return strings.IndexByte(flags, k) >= 0
}

func (h hostAdapter) SendDSRProbe() { h.Output("\x1b[6n") }

func (h hostAdapter) Doing(text string) { h.s.Line.SetActivity(text) }

func (h hostAdapter) Authenticate(username, password string) script.AuthResult {
	return h.s.authenticateUser(username, password)
}

func (h hostAdapter) UsernameAvailable(username string) bool {
	return h.s.Store.UsernameAvailable(username)
}

func (h hostAdapter) CreateUser(username, password string) error {
	_, err := h.s.Store.CreateUser(username, password, username)
	if err != nil {
		return err
	}
	// A freshly created account logs straight in, same as vision3's NEWUSER
	// dialog falling through into the logged-on menu.
	h.BindUser(username)
	return nil
}

func (h hostAdapter) BindUser(username string) {
	rec, ok := h.s.Store.Users.GetByUsername(username)
	if !ok {
		return
	}
	h.s.mu.Lock()
	h.s.User = rec
	h.s.state = StateAuthenticated
	h.s.mu.Unlock()
	h.s.Line.BindUser(int(rec.ID))
}

// OnlineUsers is wired by the line registry wrapper in registry.go, which
// knows about every session, not just this one; it assigns a closure into
// onlineUsersFunc at construction time.
func (h hostAdapter) OnlineUsers() []string {
	if h.s.onlineUsersFunc == nil {
		return nil
	}
	return h.s.onlineUsersFunc()
}

// SendMail and SendNetmail queue through the store today (local delivery
// only); routing transit netmail through the FTN outbound queue needs the
// C8/C9 scanner, not yet wired here.
func (h hostAdapter) SendMail(toUser, subject, body string) {
	h.s.Line.SetActivity("mailing " + toUser)
}

func (h hostAdapter) SendNetmail(addr, toName, subject, body string) {
	h.s.Line.SetActivity("netmailing " + toName + " @ " + addr)
}

func (h hostAdapter) LoginScan() string {
	return ""
}
