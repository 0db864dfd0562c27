package store

import (
	"testing"
)

func TestOpen_CreatesDefaultSysopAccount(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	rec, ok := s.Users.GetByUsername("sysop")
	if !ok {
		t.Fatal("expected default 'sysop' user to be created")
	}
	if rec.AccessLevel != 255 {
		t.Errorf("expected access level 255, got %d", rec.AccessLevel)
	}
	if !rec.Validated {
		t.Error("expected default sysop account to be validated")
	}
}

func TestCreateUser_RejectsDuplicateUsername(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := s.CreateUser("alice", "hunter2", "Alice"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := s.CreateUser("Alice", "other", "Alice2"); err != ErrUserExists {
		t.Fatalf("expected ErrUserExists for case-insensitive duplicate, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	rec, err := s.CreateUser("bob", "correcthorse", "Bob")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	rec.Validated = true
	if err := s.Users.Update(rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if result, _ := s.Authenticate("bob", "wrongpassword"); result != AuthBadPassword {
		t.Errorf("expected AuthBadPassword, got %v", result)
	}
	if result, _ := s.Authenticate("nobody", "x"); result != AuthNoUser {
		t.Errorf("expected AuthNoUser, got %v", result)
	}
	if result, got := s.Authenticate("bob", "correcthorse"); result != AuthSuccess || got.Handle != "Bob" {
		t.Errorf("expected AuthSuccess for Bob, got %v / %+v", result, got)
	}
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := s1.CreateUser("carol", "letmein", "Carol"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	rec, ok := s2.Users.GetByUsername("carol")
	if !ok {
		t.Fatal("expected carol to survive reopen")
	}
	if rec.Handle != "Carol" {
		t.Errorf("expected handle Carol, got %q", rec.Handle)
	}
}

func TestUserRecordRoundTrip(t *testing.T) {
	r := UserRecord{
		ID:           42,
		Username:     "dave",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Handle:       "Dave",
		AccessLevel:  20,
		Flags:        "XYZ",
		TimesCalled:  7,
		Validated:    true,
		TimeLimit:    90,
		RealName:     "David Example",
		Location:     "Somewhere, ST",
	}
	encoded := encodeUserRecord(r)
	if len(encoded) != userRecordSize {
		t.Fatalf("expected %d bytes, got %d", userRecordSize, len(encoded))
	}
	decoded, err := decodeUserRecord(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Username != r.Username || decoded.Handle != r.Handle || decoded.PasswordHash != r.PasswordHash {
		t.Fatalf("round trip mismatch: got %+v", decoded)
	}
	if decoded.AccessLevel != r.AccessLevel || decoded.TimesCalled != r.TimesCalled || decoded.TimeLimit != r.TimeLimit {
		t.Fatalf("round trip numeric mismatch: got %+v", decoded)
	}
	if decoded.Validated != r.Validated {
		t.Fatalf("round trip validated mismatch: got %+v", decoded)
	}
}

func TestXORMaskIsReversible(t *testing.T) {
	plain := []byte("the quick brown fox jumps over the lazy dog....")
	masked := xorMaskPayload(99, plain)
	if string(masked) == string(plain) {
		t.Fatal("expected masked payload to differ from plaintext")
	}
	unmasked := xorMaskPayload(99, masked)
	if string(unmasked) != string(plain) {
		t.Fatalf("expected reversible mask, got %q", unmasked)
	}
}
