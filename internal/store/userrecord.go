package store

import (
	"encoding/binary"
	"fmt"
	"time"
)

// userRecordSize is the on-disk size of one fixed-width user record. The
// layout is written out explicitly below rather than relying on a struct's
// compiler-chosen padding, so the registry file format does not silently
// change across Go versions or architectures.
const userRecordSize = 256

const (
	ufID           = 0  // uint32
	ufUsername     = 4  // [32]byte
	ufPasswordHash = 36 // [64]byte
	ufHandle       = 100 // [32]byte
	ufAccessLevel  = 132 // uint16
	ufFlags        = 134 // [16]byte
	ufLastLogin    = 150 // int64 unix seconds
	ufTimesCalled  = 158 // uint32
	ufCreatedAt    = 162 // int64 unix seconds
	ufValidated    = 170 // byte, 0/1
	ufTimeLimit    = 171 // uint16, minutes
	ufRealName     = 173 // [32]byte
	ufLocation     = 205 // [32]byte
	// bytes 237..255 reserved for future fields; always written as zero.
)

// UserRecord is the decoded, in-memory form of a registry record.
type UserRecord struct {
	ID           uint32
	Username     string
	PasswordHash string
	Handle       string
	AccessLevel  uint16
	Flags        string
	LastLogin    time.Time
	TimesCalled  uint32
	CreatedAt    time.Time
	Validated    bool
	TimeLimit    uint16
	RealName     string
	Location     string
}

func putFixedString(buf []byte, off, width int, s string) {
	for i := 0; i < width; i++ {
		buf[off+i] = 0
	}
	copy(buf[off:off+width], s)
}

func getFixedString(buf []byte, off, width int) string {
	end := off
	for end < off+width && buf[end] != 0 {
		end++
	}
	return string(buf[off:end])
}

// encodeUserRecord marshals r into a userRecordSize-byte plaintext record
// (masking is applied separately by the registry on write).
func encodeUserRecord(r UserRecord) []byte {
	buf := make([]byte, userRecordSize)
	binary.BigEndian.PutUint32(buf[ufID:], r.ID)
	putFixedString(buf, ufUsername, 32, r.Username)
	putFixedString(buf, ufPasswordHash, 64, r.PasswordHash)
	putFixedString(buf, ufHandle, 32, r.Handle)
	binary.BigEndian.PutUint16(buf[ufAccessLevel:], r.AccessLevel)
	putFixedString(buf, ufFlags, 16, r.Flags)
	binary.BigEndian.PutUint64(buf[ufLastLogin:], uint64(r.LastLogin.Unix()))
	binary.BigEndian.PutUint32(buf[ufTimesCalled:], r.TimesCalled)
	binary.BigEndian.PutUint64(buf[ufCreatedAt:], uint64(r.CreatedAt.Unix()))
	if r.Validated {
		buf[ufValidated] = 1
	}
	binary.BigEndian.PutUint16(buf[ufTimeLimit:], r.TimeLimit)
	putFixedString(buf, ufRealName, 32, r.RealName)
	putFixedString(buf, ufLocation, 32, r.Location)
	return buf
}

func decodeUserRecord(buf []byte) (UserRecord, error) {
	if len(buf) != userRecordSize {
		return UserRecord{}, fmt.Errorf("store: user record has %d bytes, want %d", len(buf), userRecordSize)
	}
	r := UserRecord{
		ID:          binary.BigEndian.Uint32(buf[ufID:]),
		Username:    getFixedString(buf, ufUsername, 32),
		PasswordHash: getFixedString(buf, ufPasswordHash, 64),
		Handle:      getFixedString(buf, ufHandle, 32),
		AccessLevel: binary.BigEndian.Uint16(buf[ufAccessLevel:]),
		Flags:       getFixedString(buf, ufFlags, 16),
		LastLogin:   time.Unix(int64(binary.BigEndian.Uint64(buf[ufLastLogin:])), 0).UTC(),
		TimesCalled: binary.BigEndian.Uint32(buf[ufTimesCalled:]),
		CreatedAt:   time.Unix(int64(binary.BigEndian.Uint64(buf[ufCreatedAt:])), 0).UTC(),
		Validated:   buf[ufValidated] != 0,
		TimeLimit:   binary.BigEndian.Uint16(buf[ufTimeLimit:]),
		RealName:    getFixedString(buf, ufRealName, 32),
		Location:    getFixedString(buf, ufLocation, 32),
	}
	return r, nil
}

// deriveRecordKey produces a per-record keystream for the XOR mask applied
// to user records at rest (spec §4.6: "per-record derived key"). This is
// explicitly an obfuscation, not encryption — it keeps a casual directory
// listing from showing plaintext password hashes, nothing more. The actual
// password hash bytes are themselves bcrypt output, which is where any real
// cryptographic strength comes from.
func deriveRecordKey(id uint32, length int) []byte {
	key := make([]byte, length)
	seed := uint32(0x9E3779B9) ^ id
	for i := range key {
		seed = seed*1664525 + 1013904223
		key[i] = byte(seed >> 16)
	}
	return key
}

// xorMaskPayload masks everything past the plaintext ID prefix (bytes
// [4:userRecordSize)) so a reader can always learn which record it is
// looking at without first needing the key it derives from that same ID.
func xorMaskPayload(id uint32, payload []byte) []byte {
	key := deriveRecordKey(id, len(payload))
	out := make([]byte, len(payload))
	for i := range payload {
		out[i] = payload[i] ^ key[i]
	}
	return out
}
