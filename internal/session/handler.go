package session

import (
	"log"
	"time"

	"github.com/stlalpha/v3bbs/internal/ansigrid"
	"github.com/stlalpha/v3bbs/internal/script"
)

// Step is one scheduler visit for this line (spec §5): drain whatever input
// arrived since the last visit, feed it to whichever wait is pending, and
// advance the script interpreter by at most one statement's worth of
// progress. It never blocks — a scheduler calls this for every connected
// line, in turn, forever.
func (s *Session) Step() {
	switch s.State() {
	case StateDisconnected:
		return
	case StatePreLogon:
		s.stepPreLogon()
	case StateAuthenticated:
		s.stepScript()
	}
}

// stepPreLogon drives the logon script exactly like stepScript once one has
// been loaded; BindUser/Authenticate built-ins transition the session to
// AUTHENTICATED mid-script (spec §4.4 LOGON/NEWUSER).
func (s *Session) stepPreLogon() {
	if s.Interp == nil {
		log.Printf("line %d: no logon script loaded, cannot enter prelogon", s.LineID)
		return
	}
	s.stepScript()
}

// stepScript drains pending input for the active wait (if any), then lets
// the interpreter run until it raises a new wait or finishes.
func (s *Session) stepScript() {
	if s.Interp == nil {
		return
	}

	if s.pending != nil {
		if !s.serviceWait() {
			return // wait not yet satisfied; nothing more to do this visit
		}
	}

	wait, err := s.Interp.Step()
	if err != nil {
		log.Printf("line %d: script error: %v", s.LineID, err)
		s.End()
		return
	}

	switch wait.Kind {
	case script.WaitDone:
		s.End()
		return
	case script.WaitNone:
		return
	default:
		s.pending = wait
		if wait.Kind == script.WaitDetectANSI {
			s.ansiProbeDeadline = time.Now().Add(time.Duration(wait.TimeoutMS) * time.Millisecond)
		}
	}
}

// serviceWait consumes newly-arrived input bytes toward the pending wait.
// It returns true once the wait is fully resolved and Resume has been
// called, false if the visit should end with the wait still pending.
func (s *Session) serviceWait() bool {
	var buf [256]byte
	n, err := s.Plane.DequeueInput(s.LineID, buf[:])
	if err != nil {
		return false
	}
	if n > 0 {
		s.Touch()
	}
	chunk := buf[:n]

	switch s.pending.Kind {
	case script.WaitAnyKey:
		if n == 0 {
			return false
		}
		s.pending = nil
		s.Interp.Resume("")
		return true

	case script.WaitInput:
		return s.serviceLineInput(chunk)

	case script.WaitDetectANSI:
		if ansigrid.ContainsDSRReply(chunk) {
			s.mu.Lock()
			s.ansiDetected = true
			s.mu.Unlock()
			s.pending = nil
			s.Interp.Resume("1")
			return true
		}
		if time.Now().After(s.ansiProbeDeadline) {
			s.pending = nil
			s.Interp.Resume("0")
			return true
		}
		return false

	case script.WaitSendFile, script.WaitReceiveFile:
		return s.serviceTransfer(chunk)

	case script.WaitDoor:
		return s.serviceDoor(chunk)

	default:
		return false
	}
}

// serviceLineInput accumulates bytes for a READLINE/PROMPT-line wait until
// a terminator, echoing as configured (spec §4.4).
func (s *Session) serviceLineInput(chunk []byte) bool {
	for _, b := range chunk {
		switch b {
		case '\r', '\n':
			line := string(s.lineBuf)
			s.lineBuf = nil
			if s.pending.Echo == script.EchoOn {
				_, _ = s.Plane.EnqueueOutput(s.LineID, []byte("\r\n"))
			}
			s.pending = nil
			s.Interp.Resume(line)
			return true
		case 0x08, 0x7f: // backspace / DEL
			if len(s.lineBuf) > 0 {
				s.lineBuf = s.lineBuf[:len(s.lineBuf)-1]
				if s.pending.Echo == script.EchoOn {
					_, _ = s.Plane.EnqueueOutput(s.LineID, []byte("\b \b"))
				}
			}
		default:
			s.lineBuf = append(s.lineBuf, b)
			if s.pending.Echo == script.EchoOn {
				_, _ = s.Plane.EnqueueOutput(s.LineID, []byte{b})
			}
		}
	}
	return false
}
