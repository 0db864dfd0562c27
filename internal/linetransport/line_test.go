package linetransport

import "testing"

func TestConnectClearsBoundUserInvariant(t *testing.T) {
	l := NewLine(0, TypeTelnet, true)
	l.Connect("1.2.3.4:1234")
	if l.BoundUserID() != 0 {
		t.Fatalf("freshly connected line must have no bound user")
	}
	if l.Activity() != "" {
		t.Fatalf("freshly connected line must have empty activity")
	}
}

func TestDisconnectClearsState(t *testing.T) {
	l := NewLine(0, TypeTelnet, true)
	l.Connect("peer")
	l.BindUser(42)
	l.SetActivity("chatting")
	l.SetTransferActive(true)

	l.Disconnect()

	if l.State() != Disconnected {
		t.Fatal("expected disconnected")
	}
	if l.BoundUserID() != 0 || l.Activity() != "" || l.TransferActive() {
		t.Fatal("disconnect must clear bound user, activity, and transfer-active")
	}
}

func TestActivityTruncation(t *testing.T) {
	l := NewLine(0, TypeTelnet, true)
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	l.SetActivity(string(long))
	if len(l.Activity()) != maxActivityLen {
		t.Fatalf("expected truncation to %d bytes, got %d", maxActivityLen, len(l.Activity()))
	}
}

func TestUnbindUserReportsWasBound(t *testing.T) {
	l := NewLine(0, TypeTelnet, true)
	if wasBound := l.UnbindUser(); wasBound {
		t.Fatal("expected false for never-bound line")
	}
	l.BindUser(7)
	if wasBound := l.UnbindUser(); !wasBound {
		t.Fatal("expected true for bound line")
	}
}

func TestRegistryReservesOnlyTelnetLines(t *testing.T) {
	r := NewRegistry(
		[]Type{TypeLocal, TypeTelnet, TypeTelnet},
		[]bool{true, true, true},
	)
	l := r.FirstFreeTelnetLine()
	if l == nil || l.Type != TypeTelnet {
		t.Fatal("expected a free telnet line")
	}
	if l.ID == 0 {
		t.Fatal("local line must not be selected for a telnet accept")
	}
}

func TestRegistryCapsAtMaxLines(t *testing.T) {
	types := make([]Type, 40)
	enabled := make([]bool, 40)
	for i := range types {
		types[i] = TypeTelnet
		enabled[i] = true
	}
	r := NewRegistry(types, enabled)
	if len(r.Lines()) != MaxLines {
		t.Fatalf("expected cap at %d lines, got %d", MaxLines, len(r.Lines()))
	}
}

func TestAcceptingNewConnectionsGate(t *testing.T) {
	r := NewRegistry([]Type{TypeTelnet}, []bool{true})
	if !r.AcceptingNewConnections() {
		t.Fatal("expected accepting by default")
	}
	r.SetAcceptingNewConnections(false)
	if r.AcceptingNewConnections() {
		t.Fatal("expected gate to close")
	}
}
