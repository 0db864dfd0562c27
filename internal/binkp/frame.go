// Package binkp implements the BinkP (FTS-1026) mail-exchange protocol:
// frame codec, CRAM-MD5 authentication, and the caller/answerer session
// state machines used to trade FTN packet bundles over TCP.
package binkp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxPayload is the largest payload a single frame can carry: 15 bits of
// length, per the wire format's (T|L_hi)(L_lo) header.
const maxPayload = 0x7FFF

// cmdFlag marks a frame as a command frame rather than a data frame; it is
// bit 15 of the two-byte big-endian length header.
const cmdFlag = 0x8000

var (
	ErrFrameTooLarge = errors.New("binkp: frame payload exceeds 32767 bytes")
	ErrShortFrame    = errors.New("binkp: truncated frame header")
)

// writeFrame writes one frame: a two-byte header (command bit + 15-bit
// length) followed by payload.
func writeFrame(w io.Writer, isCommand bool, payload []byte) error {
	if len(payload) > maxPayload {
		return ErrFrameTooLarge
	}
	var hdr [2]byte
	length := uint16(len(payload))
	if isCommand {
		length |= cmdFlag
	}
	binary.BigEndian.PutUint16(hdr[:], length)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("binkp: write frame header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("binkp: write frame payload: %w", err)
	}
	return nil
}

// readFrame reads one frame from r, a *bufio.Reader so the two-byte header
// read and the payload read land in one buffered round trip.
func readFrame(r *bufio.Reader) (isCommand bool, payload []byte, err error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return false, nil, err
	}
	length := binary.BigEndian.Uint16(hdr[:])
	isCommand = length&cmdFlag != 0
	size := int(length &^ cmdFlag)
	if size == 0 {
		return isCommand, nil, nil
	}
	payload = make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return false, nil, fmt.Errorf("binkp: read frame payload: %w", err)
	}
	return isCommand, payload, nil
}
