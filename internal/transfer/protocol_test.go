package transfer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCRC16Xmodem_KnownVector(t *testing.T) {
	// "123456789" is the standard CRC-16/XMODEM check string; the
	// reference check value is 0x31C3.
	if got := crc16xmodem([]byte("123456789")); got != 0x31C3 {
		t.Fatalf("crc16xmodem(123456789) = %#04x, want 0x31c3", got)
	}
}

func TestChecksum8(t *testing.T) {
	if got := checksum8([]byte{1, 2, 3, 4}); got != 10 {
		t.Fatalf("checksum8 = %d, want 10", got)
	}
	// Additive checksum wraps modulo 256.
	if got := checksum8([]byte{255, 2}); got != 1 {
		t.Fatalf("checksum8 wraparound = %d, want 1", got)
	}
}

// driveXmodem runs a Sender and Receiver against each other in lockstep
// until both finish or one reports an error, capping iterations so a
// protocol bug shows up as a test failure rather than a hang.
func driveXmodem(t *testing.T, data []byte, blockSize BlockSize, mode ChecksumKind) []byte {
	t.Helper()
	sender := NewSender(data, blockSize)
	receiver := NewReceiver(mode)

	toSender := receiver.Start()
	for i := 0; i < 10000 && !(sender.Done() && receiver.Done()); i++ {
		var toReceiver []byte
		if len(toSender) > 0 {
			toReceiver = sender.Input(toSender)
		}
		if sender.Err() != nil {
			t.Fatalf("sender error: %v", sender.Err())
		}
		toSender = nil
		if len(toReceiver) > 0 {
			toSender = receiver.Input(toReceiver)
		}
		if receiver.Err() != nil {
			t.Fatalf("receiver error: %v", receiver.Err())
		}
		if len(toReceiver) == 0 && len(toSender) == 0 && !sender.Done() {
			t.Fatalf("transfer stalled: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
		}
	}
	if !sender.Done() || !receiver.Done() {
		t.Fatalf("transfer did not complete: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
	}
	return receiver.Bytes()
}

func TestXmodem_ChecksumMode_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 10)
	got := driveXmodem(t, data, Block128, ChecksumSum)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestXmodem_CRCMode_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz"), 20)
	got := driveXmodem(t, data, Block128, ChecksumCRC16)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestXmodem1K_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 2000) // spans several 1K blocks
	got := driveXmodem(t, data, Block1K, ChecksumCRC16)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestXmodem_EmptyFile_StillTransfers(t *testing.T) {
	got := driveXmodem(t, nil, Block128, ChecksumCRC16)
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got))
	}
}

func TestXmodem_NAKRetransmitsLastBlock(t *testing.T) {
	data := []byte("retransmit me please")
	sender := NewSender(data, Block128)

	first := sender.Input([]byte{'C'})
	if len(first) == 0 {
		t.Fatal("expected a data frame after handshake")
	}
	again := sender.Input([]byte{nak})
	if !bytes.Equal(first, again) {
		t.Fatalf("expected identical retransmitted frame, got different bytes")
	}
}

func TestXmodem_TooManyRetriesFails(t *testing.T) {
	sender := NewSender([]byte("x"), Block128)
	sender.Input([]byte{'C'})
	for i := 0; i < maxRetries+1; i++ {
		sender.Input([]byte{nak})
	}
	if sender.Err() == nil {
		t.Fatal("expected an error after exceeding max retries")
	}
}

// driveYmodem runs a YSender/YReceiver pair to completion the same way
// driveXmodem does for a single file.
func driveYmodem(t *testing.T, files []YFile) []YFile {
	t.Helper()
	sender := NewYSender(files)
	receiver := NewYReceiver()

	toSender := receiver.Start()
	for i := 0; i < 10000 && !(sender.Done() && receiver.Done()); i++ {
		var toReceiver []byte
		if len(toSender) > 0 {
			toReceiver = sender.Input(toSender)
		}
		if sender.Err() != nil {
			t.Fatalf("sender error: %v", sender.Err())
		}
		toSender = nil
		if len(toReceiver) > 0 {
			toSender = receiver.Input(toReceiver)
		}
		if receiver.Err() != nil {
			t.Fatalf("receiver error: %v", receiver.Err())
		}
		if len(toReceiver) == 0 && len(toSender) == 0 && !sender.Done() {
			t.Fatalf("batch stalled: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
		}
	}
	if !sender.Done() || !receiver.Done() {
		t.Fatalf("batch did not complete: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
	}
	return receiver.Files()
}

func TestYmodem_SingleFileBatch(t *testing.T) {
	files := []YFile{{Name: "HELLO.TXT", Data: []byte("hello from ymodem\n")}}
	got := driveYmodem(t, files)
	if len(got) != 1 {
		t.Fatalf("expected 1 file, got %d", len(got))
	}
	if got[0].Name != "HELLO.TXT" || !bytes.Equal(got[0].Data, files[0].Data) {
		t.Fatalf("file mismatch: got %+v", got[0])
	}
}

func TestYmodem_MultiFileBatch(t *testing.T) {
	files := []YFile{
		{Name: "A.TXT", Data: bytes.Repeat([]byte("a"), 50)},
		{Name: "B.BIN", Data: bytes.Repeat([]byte{0xff, 0x00}, 900)}, // spans a 1K block boundary
		{Name: "C.TXT", Data: []byte("")},
	}
	got := driveYmodem(t, files)
	if len(got) != len(files) {
		t.Fatalf("expected %d files, got %d", len(files), len(got))
	}
	for i, f := range files {
		if got[i].Name != f.Name {
			t.Fatalf("file %d: got name %q, want %q", i, got[i].Name, f.Name)
		}
		if !bytes.Equal(got[i].Data, f.Data) {
			t.Fatalf("file %d (%s): data mismatch, got %d bytes want %d", i, f.Name, len(got[i].Data), len(f.Data))
		}
	}
}

// driveZmodem mirrors driveYmodem for the ZMODEM engines.
func driveZmodem(t *testing.T, files []YFile) []YFile {
	t.Helper()
	sender := NewZSender(files)
	receiver := NewZReceiver()

	toSender := receiver.Start()
	for i := 0; i < 10000 && !(sender.Done() && receiver.Done()); i++ {
		var toReceiver []byte
		if len(toSender) > 0 {
			toReceiver = sender.Input(toSender)
		}
		if sender.Err() != nil {
			t.Fatalf("sender error: %v", sender.Err())
		}
		toSender = nil
		if len(toReceiver) > 0 {
			toSender = receiver.Input(toReceiver)
		}
		if receiver.Err() != nil {
			t.Fatalf("receiver error: %v", receiver.Err())
		}
		if len(toReceiver) == 0 && len(toSender) == 0 && !sender.Done() {
			t.Fatalf("zmodem batch stalled: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
		}
	}
	if !sender.Done() || !receiver.Done() {
		t.Fatalf("zmodem batch did not complete: sender.Done=%v receiver.Done=%v", sender.Done(), receiver.Done())
	}
	return receiver.Files()
}

func TestZmodem_MultiFileBatch(t *testing.T) {
	files := []YFile{
		{Name: "ONE.TXT", Data: bytes.Repeat([]byte("one "), 400)}, // spans a subpacket boundary
		{Name: "TWO.TXT", Data: []byte("short file")},
	}
	got := driveZmodem(t, files)
	if len(got) != len(files) {
		t.Fatalf("expected %d files, got %d", len(files), len(got))
	}
	for i, f := range files {
		if got[i].Name != f.Name || !bytes.Equal(got[i].Data, f.Data) {
			t.Fatalf("file %d mismatch: got %+v", i, got[i])
		}
	}
}

func TestZmodem_HeaderRoundTrip(t *testing.T) {
	frame := buildHeader(zdata, 12345)
	ft, pos, consumed, ok := parseHeader(frame)
	if !ok {
		t.Fatal("expected parseHeader to succeed")
	}
	if ft != zdata || pos != 12345 || consumed != len(frame) {
		t.Fatalf("got ft=%d pos=%d consumed=%d, want ft=%d pos=12345 consumed=%d", ft, pos, consumed, zdata, len(frame))
	}
}

func TestZmodem_SubpacketRoundTrip(t *testing.T) {
	data := []byte{0x18, 0x0d, 0x11, 0x13, 'h', 'i'} // includes every byte that must be escaped
	encoded := encodeSubpacket(data, zcrcw)
	got, marker, crcOK, consumed, ok := parseSubpacket(encoded)
	if !ok || !crcOK {
		t.Fatalf("parseSubpacket failed: ok=%v crcOK=%v", ok, crcOK)
	}
	if marker != zcrcw || consumed != len(encoded) {
		t.Fatalf("marker=%d consumed=%d, want %d/%d", marker, consumed, zcrcw, len(encoded))
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("decoded %v, want %v", got, data)
	}
}

func TestLoadProtocols_missingFileReturnsDefaults(t *testing.T) {
	ps, err := LoadProtocols(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("LoadProtocols: %v", err)
	}
	if len(ps) == 0 {
		t.Fatal("expected built-in defaults")
	}
}

func TestLoadProtocols_malformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocols.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadProtocols(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestLoadProtocols_valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocols.json")
	const body = `[{"key":"Z","name":"Zmodem","kind":"zmodem","batch_send":true,"default":true}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ps, err := LoadProtocols(path)
	if err != nil {
		t.Fatalf("LoadProtocols: %v", err)
	}
	if len(ps) != 1 || ps[0].Key != "Z" || ps[0].Kind != KindZModem {
		t.Fatalf("unexpected protocols: %+v", ps)
	}
}

func TestDefaultProtocol_marked(t *testing.T) {
	ps := defaultProtocols()
	d, ok := DefaultProtocol(ps)
	if !ok || d.Key != "Z" {
		t.Fatalf("expected Z marked as default, got %+v ok=%v", d, ok)
	}
}

func TestDefaultProtocol_firstWhenNoneMarked(t *testing.T) {
	ps := []ProtocolConfig{{Key: "X", Kind: KindXModem}, {Key: "Y", Kind: KindYModem}}
	d, ok := DefaultProtocol(ps)
	if !ok || d.Key != "X" {
		t.Fatalf("expected first protocol as fallback default, got %+v", d)
	}
}

func TestDefaultProtocol_empty(t *testing.T) {
	if _, ok := DefaultProtocol(nil); ok {
		t.Fatal("expected ok=false for an empty protocol list")
	}
}

func TestFindProtocol_found(t *testing.T) {
	ps := defaultProtocols()
	p, ok := FindProtocol(ps, "x1k")
	if !ok || p.Kind != KindXModem1K {
		t.Fatalf("expected case-insensitive match for X1K, got %+v ok=%v", p, ok)
	}
}

func TestFindProtocol_notFoundReturnsDefault(t *testing.T) {
	ps := defaultProtocols()
	p, ok := FindProtocol(ps, "NOPE")
	if ok {
		t.Fatal("expected ok=false for an unknown key")
	}
	if p.Key != "Z" {
		t.Fatalf("expected fallback to the default protocol, got %+v", p)
	}
}
