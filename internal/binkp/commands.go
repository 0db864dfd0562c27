package binkp

import (
	"bufio"
	"strings"
)

// Command identifies a BinkP command frame (FTS-1026 §3).
type Command byte

const (
	MNul  Command = 0
	MAdr  Command = 1
	MPwd  Command = 2
	MFile Command = 3
	MOk   Command = 4
	MEob  Command = 5
	MGot  Command = 6
	MErr  Command = 7
	MBsy  Command = 8
	MGet  Command = 9
	MSkip Command = 10
)

var commandNames = map[Command]string{
	MNul: "M_NUL", MAdr: "M_ADR", MPwd: "M_PWD", MFile: "M_FILE",
	MOk: "M_OK", MEob: "M_EOB", MGot: "M_GOT", MErr: "M_ERR",
	MBsy: "M_BSY", MGet: "M_GET", MSkip: "M_SKIP",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "M_UNKNOWN"
}

// buildCommand encodes a command frame's payload: one id byte followed by
// the ASCII argument string.
func buildCommand(id Command, args string) []byte {
	b := make([]byte, 0, 1+len(args))
	b = append(b, byte(id))
	b = append(b, args...)
	return b
}

// writeCommand writes a command frame to w.
func writeCommand(w *bufio.Writer, id Command, args string) error {
	if err := writeFrame(w, true, buildCommand(id, args)); err != nil {
		return err
	}
	return w.Flush()
}

// parseCommand splits a command frame's payload into its id and argument
// string. The argument string may carry a trailing NUL (some senders
// terminate M_NUL fields that way); it is trimmed.
func parseCommand(payload []byte) (Command, string) {
	if len(payload) == 0 {
		return MNul, ""
	}
	id := Command(payload[0])
	args := strings.TrimRight(string(payload[1:]), "\x00")
	return id, args
}

// mNulField splits an M_NUL argument into its field name and value, e.g.
// "SYS Vision/3 BBS" -> ("SYS", "Vision/3 BBS").
func mNulField(args string) (field, value string) {
	sp := strings.IndexByte(args, ' ')
	if sp < 0 {
		return args, ""
	}
	return args[:sp], strings.TrimSpace(args[sp+1:])
}
