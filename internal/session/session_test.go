package session

import (
	"testing"

	"github.com/stlalpha/v3bbs/internal/script"
)

func noSubscripts(path string) (*script.Program, error) {
	panic("session_test: no script under test calls SCRIPT " + path)
}

const logonScriptSrc = "logon\n" +
	"if %{logon_result} == OK then\n" +
	"  print `Welcome back\\r\\n`\n" +
	"  anykey\n" +
	"else\n" +
	"  print `Login failed\\r\\n`\n" +
	"  anykey\n" +
	"end if\n"

const newuserScriptSrc = "newuser\n" +
	"if %{newuser_result} == OK then\n" +
	"  print `Account created\\r\\n`\n" +
	"  anykey\n" +
	"else\n" +
	"  print `Sign-up failed\\r\\n`\n" +
	"  anykey\n" +
	"end if\n"

// feedLine pushes a simulated typed line (with its terminating CR) into the
// session's input ring and drives Step once, the way the line transport and
// scheduler would.
func feedLine(t *testing.T, s *Session, line string) {
	t.Helper()
	if _, err := s.Plane.EnqueueInput(s.LineID, []byte(line+"\r")); err != nil {
		t.Fatalf("EnqueueInput: %v", err)
	}
	s.Step()
}

func TestLogonFlow_CorrectCredentialsAuthenticates(t *testing.T) {
	s := newTestSession(t, 0)
	s.Begin()

	prog, err := script.Parse("<test-logon>", logonScriptSrc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s.StartScript(prog, noSubscripts)

	s.Step() // runs LOGON -> readline __logon_user, stops at WaitInput
	if s.pending == nil || s.pending.TargetVar != "__logon_user" {
		t.Fatalf("expected wait on __logon_user, got %+v", s.pending)
	}

	feedLine(t, s, "sysop") // resumes username, advances to readline __logon_pass
	if s.pending == nil || s.pending.TargetVar != "__logon_pass" {
		t.Fatalf("expected wait on __logon_pass, got %+v", s.pending)
	}

	feedLine(t, s, "sysop") // resumes password; LOGONCHECK authenticates and returns

	if s.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated after correct credentials, got %s", s.State())
	}
	if s.User.Username != "sysop" {
		t.Fatalf("expected bound user sysop, got %q", s.User.Username)
	}
	if s.Line.BoundUserID() != int(s.User.ID) {
		t.Fatalf("expected line bound to user id %d, got %d", s.User.ID, s.Line.BoundUserID())
	}
	if s.pending == nil || s.pending.Kind != script.WaitAnyKey {
		t.Fatalf("expected to be paused at the post-login anykey, got %+v", s.pending)
	}
}

func TestLogonFlow_WrongPasswordStaysPreLogon(t *testing.T) {
	s := newTestSession(t, 0)
	s.Begin()

	prog, err := script.Parse("<test-logon>", logonScriptSrc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s.StartScript(prog, noSubscripts)

	s.Step()
	feedLine(t, s, "sysop")
	feedLine(t, s, "not-the-password")

	if s.State() != StatePreLogon {
		t.Fatalf("expected StatePreLogon after bad password, got %s", s.State())
	}
	if got := s.Interp.GetVar("logon_result"); got != "BADPASS" {
		t.Fatalf("expected logon_result BADPASS, got %q", got)
	}
}

func TestNewUserFlow_CreatesAndLogsIn(t *testing.T) {
	s := newTestSession(t, 0)
	s.Begin()

	prog, err := script.Parse("<test-newuser>", newuserScriptSrc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s.StartScript(prog, noSubscripts)

	s.Step() // NEWUSER -> readline __newuser_user
	if s.pending == nil || s.pending.TargetVar != "__newuser_user" {
		t.Fatalf("expected wait on __newuser_user, got %+v", s.pending)
	}

	feedLine(t, s, "newbie") // resumes, runs NEWUSERAVAILCHECK, advances to pass wait
	if s.pending == nil || s.pending.TargetVar != "__newuser_pass" {
		t.Fatalf("expected wait on __newuser_pass, got %+v", s.pending)
	}

	feedLine(t, s, "hunter2") // resumes, runs NEWUSERCREATE

	if s.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated after account creation, got %s", s.State())
	}
	if s.User.Username != "newbie" {
		t.Fatalf("expected bound user newbie, got %q", s.User.Username)
	}
	if _, ok := s.Store.Users.GetByUsername("newbie"); !ok {
		t.Fatal("expected newbie to be persisted in the registry")
	}
}

func TestNewUserFlow_RejectsTakenUsername(t *testing.T) {
	s := newTestSession(t, 0)
	s.Begin()

	prog, err := script.Parse("<test-newuser>", newuserScriptSrc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s.StartScript(prog, noSubscripts)

	s.Step()
	feedLine(t, s, "sysop") // already exists from store bootstrap

	if s.State() != StatePreLogon {
		t.Fatalf("expected StatePreLogon after taken username, got %s", s.State())
	}
	if got := s.Interp.GetVar("newuser_result"); got != "TAKEN" {
		t.Fatalf("expected newuser_result TAKEN, got %q", got)
	}
}
