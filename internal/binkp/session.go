package binkp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Role distinguishes which side of the handshake a Session plays.
type Role int

const (
	RoleAnswerer Role = iota
	RoleCaller
)

// dataChunkSize bounds a single outbound data frame's payload.
const dataChunkSize = 4096

// shortPollInterval is the read deadline used while we still have local
// files queued to send, so inbound frames (M_GOT/M_SKIP/M_GET/M_EOB) are
// noticed promptly without stalling our own sends.
const shortPollInterval = 100 * time.Millisecond

// defaultIdleTimeout is used when Config.IdleTimeout is zero.
const defaultIdleTimeout = 60 * time.Second

// FileOffer describes one file queued for outbound transfer. Either Path
// (read from disk) or Data (served from memory, e.g. a freshly packed
// bundle) must be set.
type FileOffer struct {
	Name    string
	Path    string
	Data    []byte
	Size    int64
	ModTime time.Time
}

// ReceivedFile is a file this session accepted from the peer.
type ReceivedFile struct {
	Name    string
	Size    int64
	ModTime time.Time
	Data    []byte
}

// Config carries the local identity and policy a Session presents to its
// peer.
type Config struct {
	Addresses   []string // local 4D addresses, e.g. "21:4/158.1"
	Password    string   // expected packet password for this link
	SystemName  string
	Sysop       string
	Location    string
	IdleTimeout time.Duration // 0 = defaultIdleTimeout
}

func (c Config) idleTimeout() time.Duration {
	if c.IdleTimeout > 0 {
		return c.IdleTimeout
	}
	return defaultIdleTimeout
}

// ResolveOutboundFunc looks up the files queued for a peer once its
// address is known from M_ADR — only used by an answerer, since a caller
// already knows who it is dialing.
type ResolveOutboundFunc func(peerAddr string) []FileOffer

// Session drives one BinkP TCP connection, caller or answerer side, to
// completion: handshake, optional CRAM-MD5 authentication, then the file
// exchange loop.
type Session struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
	cfg  Config
	role Role

	resolveOutbound ResolveOutboundFunc
	freqRoot        string // FTNNetworkConfig.FreqPath; "" disables inbound FREQ service

	peerAddrs []string
	outbound  []FileOffer
	Received  []ReceivedFile

	sendIdx       int
	sendAnnounced bool
	sendOffset    int64
	sendSource    fileSource

	recvActive bool
	recvName   string
	recvSize   int64
	recvMTime  time.Time
	recvBuf    []byte

	localEOB  bool
	remoteEOB bool
}

// NewCaller builds a Session that dials out, already knowing which files
// it wants to push (outbound may be nil/empty).
func NewCaller(conn net.Conn, cfg Config, outbound []FileOffer) *Session {
	return &Session{conn: conn, r: bufio.NewReader(conn), w: bufio.NewWriter(conn), cfg: cfg, role: RoleCaller, outbound: outbound}
}

// NewAnswerer builds a Session for an accepted inbound connection.
// resolveOutbound is called once the peer's M_ADR is known, to queue
// whatever is pending for that address; freqRoot, if non-empty, serves
// M_GET-as-FREQ requests from that directory.
func NewAnswerer(conn net.Conn, cfg Config, resolveOutbound ResolveOutboundFunc, freqRoot string) *Session {
	return &Session{conn: conn, r: bufio.NewReader(conn), w: bufio.NewWriter(conn), cfg: cfg, role: RoleAnswerer, resolveOutbound: resolveOutbound, freqRoot: freqRoot}
}

// PeerAddresses returns the 4D addresses the peer announced via M_ADR.
func (s *Session) PeerAddresses() []string { return s.peerAddrs }

// Run executes the full session: handshake, then exchange, returning once
// both sides have sent M_EOB or an error/abort condition is reached. The
// caller is responsible for closing conn afterward.
func (s *Session) Run() error {
	var err error
	if s.role == RoleCaller {
		err = s.runCallerHandshake()
	} else {
		err = s.runAnswererHandshake()
	}
	if err != nil {
		return err
	}
	return s.exchange()
}

func (s *Session) setDeadline(d time.Duration) {
	s.conn.SetReadDeadline(time.Now().Add(d))
}

func (s *Session) sendGreeting(challenge string) error {
	fields := []struct{ name, value string }{
		{"SYS", s.cfg.SystemName},
		{"ZYZ", s.cfg.Sysop},
		{"LOC", s.cfg.Location},
		{"NDL", "115200,TCP,BINKP"},
		{"TIME", time.Now().Format(time.RFC1123Z)},
		{"VER", "v3bbs-binkp/1.0,binkp/1.0"},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := writeCommand(s.w, MNul, f.name+" "+f.value); err != nil {
			return err
		}
	}
	if challenge != "" {
		if err := writeCommand(s.w, MNul, "OPT CRAM-MD5-"+challenge); err != nil {
			return err
		}
	}
	return writeCommand(s.w, MAdr, strings.Join(s.cfg.Addresses, " "))
}

// runAnswererHandshake implements LISTEN->ACCEPT->SEND_GREETING->WAIT_ADR->
// WAIT_PWD->CHECK->SEND_OK.
func (s *Session) runAnswererHandshake() error {
	challenge, err := generateChallenge()
	if err != nil {
		return fmt.Errorf("binkp: generate challenge: %w", err)
	}
	if err := s.sendGreeting(challenge); err != nil {
		return err
	}

	gotAdr, gotPwd := false, false
	var pwdValue string
	for !gotAdr || !gotPwd {
		s.setDeadline(s.cfg.idleTimeout())
		id, args, err := s.readCommand()
		if err != nil {
			return fmt.Errorf("binkp: awaiting peer handshake: %w", err)
		}
		switch id {
		case MAdr:
			s.peerAddrs = strings.Fields(args)
			gotAdr = true
		case MPwd:
			pwdValue = args
			gotPwd = true
		case MNul:
			// peer's own greeting fields; nothing to act on
		case MErr, MBsy:
			return fmt.Errorf("binkp: peer aborted handshake: %s %s", id, args)
		default:
			return fmt.Errorf("binkp: unexpected %s during handshake", id)
		}
	}

	if !checkPassword(pwdValue, s.cfg.Password, challenge) {
		writeCommand(s.w, MErr, "password mismatch")
		return fmt.Errorf("binkp: authentication failed for %v", s.peerAddrs)
	}

	if s.resolveOutbound != nil && len(s.peerAddrs) > 0 {
		s.outbound = s.resolveOutbound(s.peerAddrs[0])
	}
	return writeCommand(s.w, MOk, "secure")
}

// runCallerHandshake implements CONNECT->WAIT_GREETING->SEND_ADR->SEND_PWD->
// WAIT_OK.
func (s *Session) runCallerHandshake() error {
	var challenge string
	gotAdr := false
	for !gotAdr {
		s.setDeadline(s.cfg.idleTimeout())
		id, args, err := s.readCommand()
		if err != nil {
			return fmt.Errorf("binkp: awaiting answerer greeting: %w", err)
		}
		switch id {
		case MNul:
			field, value := mNulField(args)
			if field == "OPT" {
				if c, ok := parseCRAMChallenge(value); ok {
					challenge = c
				}
			}
		case MAdr:
			s.peerAddrs = strings.Fields(args)
			gotAdr = true
		case MErr, MBsy:
			return fmt.Errorf("binkp: answerer aborted handshake: %s %s", id, args)
		default:
			return fmt.Errorf("binkp: unexpected %s during handshake", id)
		}
	}

	if err := writeCommand(s.w, MAdr, strings.Join(s.cfg.Addresses, " ")); err != nil {
		return err
	}
	pwd := s.cfg.Password
	if challenge != "" {
		pwd = formatCRAMPassword(s.cfg.Password, challenge)
	}
	if err := writeCommand(s.w, MPwd, pwd); err != nil {
		return err
	}

	s.setDeadline(s.cfg.idleTimeout())
	id, args, err := s.readCommand()
	if err != nil {
		return fmt.Errorf("binkp: awaiting M_OK: %w", err)
	}
	switch id {
	case MOk:
		return nil
	case MErr, MBsy:
		return fmt.Errorf("binkp: answerer rejected session: %s %s", id, args)
	default:
		return fmt.Errorf("binkp: expected M_OK, got %s", id)
	}
}

func (s *Session) readCommand() (Command, string, error) {
	isCmd, payload, err := readFrame(s.r)
	if err != nil {
		return 0, "", err
	}
	if !isCmd {
		return 0, "", fmt.Errorf("binkp: expected command frame, got data frame")
	}
	id, args := parseCommand(payload)
	return id, args, nil
}

// exchange drives the interleaved send/receive loop until both sides have
// signalled M_EOB.
func (s *Session) exchange() error {
	defer s.closeSendSource()

	for {
		if !s.sentAllLocal() {
			if err := s.sendNextChunk(); err != nil {
				return err
			}
			handled, err := s.pollOnce(shortPollInterval)
			if err != nil {
				return err
			}
			_ = handled
			continue
		}
		if !s.localEOB {
			if err := writeCommand(s.w, MEob, ""); err != nil {
				return err
			}
			s.localEOB = true
		}
		if s.remoteEOB {
			return nil
		}
		s.setDeadline(s.cfg.idleTimeout())
		handled, err := s.pollOnce(s.cfg.idleTimeout())
		if err != nil {
			return err
		}
		if !handled {
			return fmt.Errorf("binkp: idle timeout waiting for peer M_EOB")
		}
	}
}

func (s *Session) sentAllLocal() bool { return s.sendIdx >= len(s.outbound) }

func (s *Session) closeSendSource() {
	if s.sendSource != nil {
		s.sendSource.Close()
		s.sendSource = nil
	}
}

// sendNextChunk announces the current outbound file if needed, then writes
// one data frame's worth of its bytes; it advances to the next file on EOF.
func (s *Session) sendNextChunk() error {
	f := s.outbound[s.sendIdx]
	if !s.sendAnnounced {
		src, err := openSource(f)
		if err != nil {
			return fmt.Errorf("binkp: open %s: %w", f.Name, err)
		}
		s.sendSource = src
		s.sendOffset = 0
		s.sendAnnounced = true
		args := fmt.Sprintf("%s %d %d %d", f.Name, f.Size, f.ModTime.Unix(), 0)
		if err := writeCommand(s.w, MFile, args); err != nil {
			return err
		}
	}

	buf := make([]byte, dataChunkSize)
	n, readErr := s.sendSource.Read(buf)
	if n > 0 {
		if err := writeFrame(s.w, false, buf[:n]); err != nil {
			return err
		}
		if err := s.w.Flush(); err != nil {
			return err
		}
		s.sendOffset += int64(n)
	}
	if readErr == io.EOF || s.sendOffset >= f.Size {
		s.closeSendSource()
		s.sendIdx++
		s.sendAnnounced = false
		return nil
	}
	if readErr != nil {
		return fmt.Errorf("binkp: read %s: %w", f.Name, readErr)
	}
	return nil
}

// pollOnce reads at most one frame with the given deadline. handled is
// false only when the deadline elapsed with nothing to read.
func (s *Session) pollOnce(deadline time.Duration) (handled bool, err error) {
	s.setDeadline(deadline)
	isCmd, payload, err := readFrame(s.r)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, err
	}

	if !isCmd {
		if !s.recvActive {
			return true, fmt.Errorf("binkp: unexpected data frame outside a file receive")
		}
		s.recvBuf = append(s.recvBuf, payload...)
		if int64(len(s.recvBuf)) >= s.recvSize {
			s.Received = append(s.Received, ReceivedFile{
				Name: s.recvName, Size: s.recvSize, ModTime: s.recvMTime, Data: s.recvBuf[:s.recvSize],
			})
			ack := fmt.Sprintf("%s %d %d", s.recvName, s.recvSize, s.recvMTime.Unix())
			if err := writeCommand(s.w, MGot, ack); err != nil {
				return true, err
			}
			s.recvActive = false
			s.recvBuf = nil
		}
		return true, nil
	}

	id, args := parseCommand(payload)
	switch id {
	case MFile:
		name, size, mtime, _, perr := parseFileArgs(args)
		if perr != nil {
			return true, fmt.Errorf("binkp: malformed M_FILE %q: %w", args, perr)
		}
		s.recvActive = true
		s.recvName = name
		s.recvSize = size
		s.recvMTime = mtime
		s.recvBuf = make([]byte, 0, size)
	case MGot, MSkip:
		// Logical ack/decline for one of our announced files. This session
		// sends every queued file's data eagerly rather than pacing on
		// acks, so there is nothing further to drive here.
	case MGet:
		name, size, mtime, offset, perr := parseFileArgs(args)
		if perr != nil {
			return true, fmt.Errorf("binkp: malformed M_GET %q: %w", args, perr)
		}
		if size == 0 && mtime.Unix() == 0 {
			s.handleFreq(name)
		} else {
			s.handleResume(name, offset)
		}
	case MEob:
		s.remoteEOB = true
	case MErr:
		return true, fmt.Errorf("binkp: peer M_ERR: %s", args)
	case MBsy:
		return true, fmt.Errorf("binkp: peer M_BSY: %s", args)
	case MNul:
		// informational during exchange; ignore
	}
	return true, nil
}

// handleFreq answers an M_GET-as-FREQ: size=0, offset=0, name is a
// wildcard pattern. Matches are appended to the outbound queue; a miss is
// answered with M_SKIP per spec.
func (s *Session) handleFreq(pattern string) {
	if s.freqRoot == "" {
		writeCommand(s.w, MSkip, fmt.Sprintf("%s 0 0", pattern))
		return
	}
	matches, err := ResolveFreq(s.freqRoot, pattern)
	if err != nil || len(matches) == 0 {
		writeCommand(s.w, MSkip, fmt.Sprintf("%s 0 0", pattern))
		return
	}
	s.outbound = append(s.outbound, matches...)
}

// handleResume repositions the named file's send cursor to offset, if it
// is the file currently being sent. Files already fully sent, or not yet
// reached, do not support mid-stream resume in this implementation.
func (s *Session) handleResume(name string, offset int64) {
	if s.sendIdx >= len(s.outbound) || s.outbound[s.sendIdx].Name != name || s.sendSource == nil {
		return
	}
	if _, err := s.sendSource.Seek(offset, io.SeekStart); err == nil {
		s.sendOffset = offset
	}
}

// parseFileArgs parses the common "<name> <size> <unix-time> <offset>"
// shape shared by M_FILE and M_GET.
func parseFileArgs(args string) (name string, size int64, mtime time.Time, offset int64, err error) {
	fields := strings.Fields(args)
	if len(fields) < 4 {
		return "", 0, time.Time{}, 0, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	name = fields[0]
	size, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", 0, time.Time{}, 0, err
	}
	unixTime, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", 0, time.Time{}, 0, err
	}
	mtime = time.Unix(unixTime, 0)
	offset, err = strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return "", 0, time.Time{}, 0, err
	}
	return name, size, mtime, offset, nil
}

// fileSource is the minimal interface sendNextChunk needs, satisfied by
// both *os.File (on-disk outbound files) and memSource (in-memory
// bundles, e.g. just-packed ZIP data not yet flushed to the staging dir).
type fileSource interface {
	io.Reader
	io.Seeker
	io.Closer
}

func openSource(f FileOffer) (fileSource, error) {
	if f.Data != nil {
		return &memSource{r: bytes.NewReader(f.Data)}, nil
	}
	return os.Open(f.Path)
}

type memSource struct{ r *bytes.Reader }

func (m *memSource) Read(p []byte) (int, error)                 { return m.r.Read(p) }
func (m *memSource) Seek(offset int64, whence int) (int64, error) { return m.r.Seek(offset, whence) }
func (m *memSource) Close() error                                { return nil }
