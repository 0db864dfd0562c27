package binkp

import (
	"bufio"
	"bytes"
	"net"
	"testing"
	"time"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, true, []byte("hello")); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	isCmd, payload, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !isCmd {
		t.Fatal("expected command frame")
	}
	if string(payload) != "hello" {
		t.Fatalf("payload = %q, want %q", payload, "hello")
	}
}

func TestFrameRoundTrip_DataFrame(t *testing.T) {
	var buf bytes.Buffer
	data := make([]byte, 2000)
	for i := range data {
		data[i] = byte(i)
	}
	if err := writeFrame(&buf, false, data); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	isCmd, payload, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if isCmd {
		t.Fatal("expected data frame")
	}
	if !bytes.Equal(payload, data) {
		t.Fatal("payload mismatch")
	}
}

func TestWriteFrame_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, false, make([]byte, maxPayload+1)); err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	payload := buildCommand(MAdr, "21:4/158.1 21:4/158.2")
	id, args := parseCommand(payload)
	if id != MAdr {
		t.Fatalf("id = %v, want MAdr", id)
	}
	if args != "21:4/158.1 21:4/158.2" {
		t.Fatalf("args = %q", args)
	}
}

func TestMNulField(t *testing.T) {
	field, value := mNulField("SYS Vision/3 Test BBS")
	if field != "SYS" || value != "Vision/3 Test BBS" {
		t.Fatalf("got %q %q", field, value)
	}
	field, value = mNulField("OPT")
	if field != "OPT" || value != "" {
		t.Fatalf("got %q %q", field, value)
	}
}

func TestCRAMAuthentication(t *testing.T) {
	challenge, err := generateChallenge()
	if err != nil {
		t.Fatalf("generateChallenge: %v", err)
	}
	resp := formatCRAMPassword("secret", challenge)
	if !checkPassword(resp, "secret", challenge) {
		t.Fatal("expected CRAM-MD5 response to verify")
	}
	if checkPassword(resp, "wrong", challenge) {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestCheckPassword_Plaintext(t *testing.T) {
	if !checkPassword("secret", "secret", "somechallenge") {
		t.Fatal("expected plaintext match to verify")
	}
	if checkPassword("secret", "other", "somechallenge") {
		t.Fatal("expected plaintext mismatch to fail")
	}
}

func TestParseCRAMChallenge(t *testing.T) {
	challenge, ok := parseCRAMChallenge("CRAM-MD5-abc123")
	if !ok || challenge != "abc123" {
		t.Fatalf("got %q %v", challenge, ok)
	}
	if _, ok := parseCRAMChallenge("1:2/3.0"); ok {
		t.Fatal("expected no CRAM-MD5 token")
	}
}

func TestParseFileArgs(t *testing.T) {
	name, size, mtime, offset, err := parseFileArgs("0000ABCD.pkt 1024 1700000000 0")
	if err != nil {
		t.Fatalf("parseFileArgs: %v", err)
	}
	if name != "0000ABCD.pkt" || size != 1024 || offset != 0 {
		t.Fatalf("got %q %d %d", name, size, offset)
	}
	if mtime.Unix() != 1700000000 {
		t.Fatalf("mtime = %v", mtime)
	}
}

// TestSessionExchange drives a full caller/answerer session over a
// loopback TCP connection: the caller pushes one file, the answerer pushes
// one file back, and both sides must observe the other's file. Both sides
// write their M_FILE before reading, so the connection must buffer writes
// the way a TCP socket does (an unbuffered net.Pipe would block both).
func TestSessionExchange(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	callerConn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer callerConn.Close()
	answererConn, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	defer answererConn.Close()

	callerCfg := Config{Addresses: []string{"21:4/158.1"}, Password: "swordfish", IdleTimeout: 2 * time.Second}
	answererCfg := Config{Addresses: []string{"21:4/100"}, Password: "swordfish", IdleTimeout: 2 * time.Second}

	callerFile := FileOffer{Name: "0001ABCD.pkt", Data: []byte("netmail packet from caller"), Size: int64(len("netmail packet from caller")), ModTime: time.Unix(1700000000, 0)}
	answererFile := FileOffer{Name: "0002ABCD.pkt", Data: []byte("reply packet from answerer"), Size: int64(len("reply packet from answerer")), ModTime: time.Unix(1700000100, 0)}

	resolve := func(peerAddr string) []FileOffer {
		if peerAddr != "21:4/158.1" {
			t.Errorf("answerer saw unexpected peer address %q", peerAddr)
		}
		return []FileOffer{answererFile}
	}

	answererSess := NewAnswerer(answererConn, answererCfg, resolve, "")
	callerSess := NewCaller(callerConn, callerCfg, []FileOffer{callerFile})

	errCh := make(chan error, 1)
	go func() { errCh <- answererSess.Run() }()

	if err := callerSess.Run(); err != nil {
		t.Fatalf("caller session: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("answerer session: %v", err)
	}

	if len(callerSess.Received) != 1 || string(callerSess.Received[0].Data) != string(answererFile.Data) {
		t.Fatalf("caller did not receive answerer's file: %+v", callerSess.Received)
	}
	if len(answererSess.Received) != 1 || string(answererSess.Received[0].Data) != string(callerFile.Data) {
		t.Fatalf("answerer did not receive caller's file: %+v", answererSess.Received)
	}
	if answererSess.PeerAddresses()[0] != "21:4/158.1" {
		t.Fatalf("answerer peer address = %v", answererSess.PeerAddresses())
	}
}

// TestSessionExchange_BadPassword verifies the answerer rejects a caller
// presenting the wrong packet password.
func TestSessionExchange_BadPassword(t *testing.T) {
	callerConn, answererConn := net.Pipe()

	callerCfg := Config{Addresses: []string{"21:4/158.1"}, Password: "wrong", IdleTimeout: 2 * time.Second}
	answererCfg := Config{Addresses: []string{"21:4/100"}, Password: "swordfish", IdleTimeout: 2 * time.Second}

	answererSess := NewAnswerer(answererConn, answererCfg, nil, "")
	callerSess := NewCaller(callerConn, callerCfg, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- answererSess.Run() }()

	if err := callerSess.Run(); err == nil {
		t.Fatal("expected caller session to fail on bad password")
	}
	if err := <-errCh; err == nil {
		t.Fatal("expected answerer session to report authentication failure")
	}
}
