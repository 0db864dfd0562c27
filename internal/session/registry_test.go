package session

import (
	"testing"

	"github.com/stlalpha/v3bbs/internal/linetransport"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
	"github.com/stlalpha/v3bbs/internal/store"
)

func newTestSession(t *testing.T, lineID int) *Session {
	t.Helper()
	line := linetransport.NewLine(lineID, linetransport.TypeTelnet, true)
	plane := pipeplane.New(4, 0)
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return New(lineID, line, plane, st)
}

func TestRegistryRegisterAndList(t *testing.T) {
	r := NewRegistry()

	s1 := newTestSession(t, 1)
	s2 := newTestSession(t, 3)

	r.Register(s1)
	r.Register(s2)

	active := r.ListActive()
	if len(active) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(active))
	}
	if active[0].LineID != 1 || active[1].LineID != 3 {
		t.Errorf("expected sorted by LineID [1,3], got [%d,%d]", active[0].LineID, active[1].LineID)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()

	s1 := newTestSession(t, 1)
	r.Register(s1)
	r.Unregister(1)

	if len(r.ListActive()) != 0 {
		t.Fatalf("expected 0 sessions after unregister, got %d", len(r.ListActive()))
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	s1 := newTestSession(t, 2)
	r.Register(s1)

	got := r.Get(2)
	if got == nil || got.LineID != 2 {
		t.Errorf("expected session with LineID 2, got %v", got)
	}
	if r.Get(99) != nil {
		t.Error("expected nil for nonexistent line")
	}
}

func TestOnlineHandlesOnlyListsAuthenticated(t *testing.T) {
	r := NewRegistry()
	s1 := newTestSession(t, 0)
	s2 := newTestSession(t, 1)
	r.Register(s1)
	r.Register(s2)

	if names := s1.Host().OnlineUsers(); len(names) != 0 {
		t.Fatalf("expected no authenticated sessions yet, got %v", names)
	}

	s1.mu.Lock()
	s1.User.Handle = "Alice"
	s1.state = StateAuthenticated
	s1.mu.Unlock()

	names := s2.Host().OnlineUsers()
	if len(names) != 1 || names[0] != "Alice" {
		t.Fatalf("expected [Alice], got %v", names)
	}
}
