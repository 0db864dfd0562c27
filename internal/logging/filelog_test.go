package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenStreamAppendsLines(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStream(dir, "System")
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	s.Printf("booted on %s", "line1")
	s.Printf("shutdown requested")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "System"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "booted on line1") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "shutdown requested") {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestLineStreamNaming(t *testing.T) {
	dir := t.TempDir()
	s, err := LineStream(dir, 3)
	if err != nil {
		t.Fatalf("LineStream: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(filepath.Join(dir, "Line_3")); err != nil {
		t.Fatalf("expected Line_3 to exist: %v", err)
	}
}

func TestCallLogRecord(t *testing.T) {
	dir := t.TempDir()
	cl, err := OpenCallLog(dir)
	if err != nil {
		t.Fatalf("OpenCallLog: %v", err)
	}
	at := time.Date(2026, 7, 30, 21, 5, 12, 0, time.UTC)
	cl.Record(at, 2, 105, CallAnswered)
	cl.Record(at.Add(2*time.Minute), 2, 105, CallHungup)
	if err := cl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Calls"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "30/07/2026,21:05:12,2,105,Answered\n30/07/2026,21:07:12,2,105,Hungup\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

func TestWriterFanOut(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStream(dir, "FTN")
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer s.Close()
	n, err := s.Writer().Write([]byte("raw bytes\n"))
	if err != nil || n != len("raw bytes\n") {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}
}
