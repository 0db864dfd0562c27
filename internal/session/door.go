package session

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/creack/pty"

	"github.com/stlalpha/v3bbs/internal/config"
)

// doorProc runs one external door program (spec §4.4 DOOR) behind a PTY
// and bridges its I/O non-blockingly: a background goroutine pumps
// whatever the program writes into outCh, and writeInput/drainOutput let
// serviceDoor move bytes between it and the line without ever blocking
// the scheduler tick.
//
// Grounded on internal/menu/door_handler.go's executeNativeDoor, which
// drives the same creack/pty API but blocks the whole SSH session on
// cmd.Wait(); here the process runs detached from any particular Step()
// call and is polled instead.
type doorProc struct {
	cmd  *exec.Cmd
	ptmx *os.File

	outCh chan []byte
	done  chan struct{}
	err   error
}

func startDoor(cfg config.DoorConfig, subs map[string]string) (*doorProc, error) {
	args := make([]string, len(cfg.Args))
	for i, a := range cfg.Args {
		args[i] = substitute(a, subs)
	}
	cmd := exec.Command(cfg.Command, args...)
	if cfg.WorkingDirectory != "" {
		cmd.Dir = cfg.WorkingDirectory
	}
	cmd.Env = os.Environ()
	for k, v := range cfg.EnvironmentVars {
		cmd.Env = append(cmd.Env, k+"="+substitute(v, subs))
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}

	d := &doorProc{cmd: cmd, ptmx: ptmx, outCh: make(chan []byte, 64), done: make(chan struct{})}
	go d.pump()
	return d, nil
}

func substitute(s string, subs map[string]string) string {
	for k, v := range subs {
		s = strings.ReplaceAll(s, k, v)
	}
	return s
}

// pump reads the door's combined stdout/stderr until the PTY closes,
// then reaps the process and signals done.
func (d *doorProc) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := d.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			d.outCh <- chunk
		}
		if err != nil {
			break
		}
	}
	d.err = d.cmd.Wait()
	close(d.done)
}

func (d *doorProc) writeInput(p []byte) {
	if len(p) > 0 {
		_, _ = d.ptmx.Write(p)
	}
}

// drainOutput returns everything pump has buffered so far without
// blocking.
func (d *doorProc) drainOutput() []byte {
	var out []byte
	for {
		select {
		case chunk := <-d.outCh:
			out = append(out, chunk...)
		default:
			return out
		}
	}
}

func (d *doorProc) finished() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// startDoorWait looks up the pending DOOR wait's name and launches it.
// It returns false if the name is unknown or the process fails to
// start, in which case the caller resumes the script immediately rather
// than suspending on a door that will never run.
func (s *Session) startDoorWait() bool {
	name := s.pending.FileID
	cfg, ok := s.Doors[name]
	if !ok {
		return false
	}

	subs := map[string]string{
		"%HANDLE%": s.User.Handle,
		"%NODE%":   strconv.Itoa(s.LineID),
	}

	d, err := startDoor(cfg, subs)
	if err != nil {
		return false
	}
	s.Line.SetTransferActive(true)
	s.door = d
	return true
}

// serviceDoor drives the pending DOOR wait by one Step() visit, piping
// newly-arrived line input into the door and the door's output back out
// to the line, resolving once the process exits.
func (s *Session) serviceDoor(chunk []byte) bool {
	if s.door == nil {
		if !s.startDoorWait() {
			s.pending = nil
			s.Interp.Resume("ERROR")
			return true
		}
	}

	s.door.writeInput(chunk)
	if out := s.door.drainOutput(); len(out) > 0 {
		_, _ = s.Plane.EnqueueOutput(s.LineID, out)
	}
	if !s.door.finished() {
		return false
	}
	if out := s.door.drainOutput(); len(out) > 0 {
		_, _ = s.Plane.EnqueueOutput(s.LineID, out)
	}

	result := "OK"
	if s.door.err != nil {
		result = "ERROR"
	}
	s.Line.SetTransferActive(false)
	s.door = nil
	s.pending = nil
	s.Interp.Resume(result)
	return true
}
