package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Stream is one append-only log file under a data root's Logs/
// directory: System, Calls, FTN, Web, or a per-line Line_<n> stream.
// Entries are plain timestamped lines, opened once and kept open for
// the process lifetime.
type Stream struct {
	mu   sync.Mutex
	file *os.File
}

// OpenStream opens (creating if necessary) the log file logsRoot/name,
// ready to accept appended lines. Callers are responsible for Close.
func OpenStream(logsRoot, name string) (*Stream, error) {
	if err := os.MkdirAll(logsRoot, 0755); err != nil {
		return nil, fmt.Errorf("logging: create logs dir %s: %w", logsRoot, err)
	}
	path := filepath.Join(logsRoot, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return &Stream{file: f}, nil
}

// LineStream opens the per-line stream Logs/Line_<n> under logsRoot.
func LineStream(logsRoot string, line int) (*Stream, error) {
	return OpenStream(logsRoot, fmt.Sprintf("Line_%d", line))
}

// Printf appends a timestamped, formatted line to the stream.
func (s *Stream) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.file, "%s %s\n", time.Now().Format("02/01/2006 15:04:05"), fmt.Sprintf(format, args...))
}

// Close closes the underlying file.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// Writer exposes the stream as an io.Writer, e.g. for log.SetOutput or
// io.MultiWriter fan-out alongside stderr.
func (s *Stream) Writer() io.Writer { return s }

func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Write(p)
}

// CallStatus is the outcome recorded in the call-log CSV for one
// connection.
type CallStatus string

const (
	CallAnswered CallStatus = "Answered"
	CallHungup   CallStatus = "Hungup"
	CallAborted  CallStatus = "Aborted"
	CallRejected CallStatus = "Rejected"
)

// CallLog appends rows to Logs/Calls: DD/MM/YYYY,HH:MM:SS,<line>,<user-id>,<status>.
type CallLog struct {
	stream *Stream
}

// OpenCallLog opens the Calls stream under logsRoot.
func OpenCallLog(logsRoot string) (*CallLog, error) {
	s, err := OpenStream(logsRoot, "Calls")
	if err != nil {
		return nil, err
	}
	return &CallLog{stream: s}, nil
}

// Record appends one call-log row for the given line and user id (0 if
// no user was ever bound to the call) at the given time and status.
func (c *CallLog) Record(at time.Time, line int, userID int, status CallStatus) {
	c.stream.mu.Lock()
	defer c.stream.mu.Unlock()
	fmt.Fprintf(c.stream.file, "%s,%s,%d,%d,%s\n",
		at.Format("02/01/2006"), at.Format("15:04:05"), line, userID, status)
}

// Close closes the underlying file.
func (c *CallLog) Close() error { return c.stream.Close() }
