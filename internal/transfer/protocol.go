package transfer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Connection type constants for ProtocolConfig.ConnectionType.
const (
	ConnTypeAny    = ""       // Available on all connection types
	ConnTypeSSH    = "ssh"    // SSH sessions only
	ConnTypeTelnet = "telnet" // Telnet sessions only
)

// ProtocolKind selects which in-process state machine a ProtocolConfig
// constructs. Unlike vision3's ProtocolConfig this no longer names an
// external binary — every protocol here runs as a pair of non-blocking
// Sender/Receiver types driven directly off a line's byte stream.
type ProtocolKind string

const (
	KindXModem   ProtocolKind = "xmodem"    // classic XMODEM, 128-byte blocks, additive checksum
	KindXModem1K ProtocolKind = "xmodem-1k" // XMODEM-1K, 1024-byte blocks, CRC-16
	KindYModem   ProtocolKind = "ymodem"    // YMODEM batch, built on XMODEM-1K framing
	KindZModem   ProtocolKind = "zmodem"    // ZMODEM batch, hex headers + CRC-16 subpackets
)

// ProtocolConfig defines a user-visible file transfer protocol.
type ProtocolConfig struct {
	Key            string       `json:"key"`             // Selection key shown to users (e.g. "Z", "X1K")
	Name           string       `json:"name"`             // Display name shown to users
	Description    string       `json:"description"`     // Short description for help text
	Kind           ProtocolKind `json:"kind"`             // Which engine this protocol constructs
	BatchSend      bool         `json:"batch_send"`       // True if the protocol supports multi-file batch sends
	Default        bool         `json:"default"`          // True if this is the default protocol when none is selected
	ConnectionType string       `json:"connection_type"`  // "" = any, "ssh" = SSH only, "telnet" = telnet only
}

// defaultProtocols returns the built-in selection table.
func defaultProtocols() []ProtocolConfig {
	return []ProtocolConfig{
		{Key: "X", Name: "Xmodem", Description: "Xmodem (checksum)", Kind: KindXModem},
		{Key: "X1K", Name: "Xmodem-1K", Description: "Xmodem-1K (CRC-16, 1024-byte blocks)", Kind: KindXModem1K},
		{Key: "Y", Name: "Ymodem", Description: "Ymodem batch", Kind: KindYModem, BatchSend: true},
		{Key: "Z", Name: "Zmodem", Description: "Zmodem batch", Kind: KindZModem, BatchSend: true, Default: true},
	}
}

// LoadProtocols reads a JSON array of ProtocolConfig definitions from path.
func LoadProtocols(path string) ([]ProtocolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("INFO: protocols file not found, using built-in defaults")
			return defaultProtocols(), nil
		}
		return nil, fmt.Errorf("failed to read protocols file %q: %w", path, err)
	}
	var protocols []ProtocolConfig
	if err := json.Unmarshal(data, &protocols); err != nil {
		return nil, fmt.Errorf("failed to parse protocols file %q: %w", path, err)
	}
	return protocols, nil
}

func FindProtocol(ps []ProtocolConfig, key string) (ProtocolConfig, bool) {
	u := strings.ToUpper(key)
	for _, p := range ps {
		if strings.ToUpper(p.Key) == u {
			return p, true
		}
	}
	d, _ := DefaultProtocol(ps)
	return d, false
}

// DefaultProtocol returns the first protocol marked as default, or the first
// protocol in the slice if none is marked default. Returns false if the slice
// is empty.
func DefaultProtocol(protocols []ProtocolConfig) (ProtocolConfig, bool) {
	if len(protocols) == 0 {
		return ProtocolConfig{}, false
	}
	for _, p := range protocols {
		if p.Default {
			return p, true
		}
	}
	return protocols[0], true
}

// blockMode returns the XMODEM block size and checksum kind this
// protocol's single-file engines use. Only meaningful for KindXModem and
// KindXModem1K; YMODEM and ZMODEM manage framing themselves.
func (p ProtocolConfig) blockMode() (BlockSize, ChecksumKind) {
	if p.Kind == KindXModem {
		return Block128, ChecksumSum
	}
	return Block1K, ChecksumCRC16
}

// NewSingleFileSender builds the sending-side engine for KindXModem or
// KindXModem1K. It panics if called for a batch protocol — callers pick
// this or NewBatchSender based on p.BatchSend.
func (p ProtocolConfig) NewSingleFileSender(data []byte) *Sender {
	size, _ := p.blockMode()
	return NewSender(data, size)
}

// NewSingleFileReceiver builds the receiving-side engine for KindXModem
// or KindXModem1K.
func (p ProtocolConfig) NewSingleFileReceiver() *Receiver {
	_, mode := p.blockMode()
	return NewReceiver(mode)
}

// BatchSender is satisfied by YSender and ZSender.
type BatchSender interface {
	Start() []byte
	Input([]byte) []byte
	Done() bool
	Err() error
}

// BatchReceiver is satisfied by YReceiver and ZReceiver.
type BatchReceiver interface {
	Start() []byte
	Retry() []byte
	Input([]byte) []byte
	Done() bool
	Err() error
	Files() []YFile
}

// NewBatchSender builds the sending-side engine for KindYModem or
// KindZModem.
func (p ProtocolConfig) NewBatchSender(files []YFile) BatchSender {
	if p.Kind == KindZModem {
		return NewZSender(files)
	}
	return NewYSender(files)
}

// NewBatchReceiver builds the receiving-side engine for KindYModem or
// KindZModem.
func (p ProtocolConfig) NewBatchReceiver() BatchReceiver {
	if p.Kind == KindZModem {
		return NewZReceiver()
	}
	return NewYReceiver()
}
