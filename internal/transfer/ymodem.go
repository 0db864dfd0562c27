package transfer

import (
	"strconv"
	"strings"
)

// YFile is one member of a YMODEM batch.
type YFile struct {
	Name string
	Data []byte
}

// batchHeader builds the block-0 frame: a NUL-terminated filename
// followed by the decimal file size, the two fields YMODEM implementations
// actually rely on (the remaining optional fields — mtime, mode, serial
// number — are routinely omitted and are omitted here too).
func batchHeader(name string, size int) []byte {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(0)
	if size > 0 {
		b.WriteString(strconv.Itoa(size))
	}
	return []byte(b.String())
}

// parseBatchHeader recovers the filename and size a batchHeader encoded.
// An empty name marks the end-of-batch block.
func parseBatchHeader(data []byte) (name string, size int) {
	nul := -1
	for i, b := range data {
		if b == 0 {
			nul = i
			break
		}
	}
	if nul <= 0 {
		return "", 0
	}
	name = string(data[:nul])
	rest := data[nul+1:]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	size, _ = strconv.Atoi(string(rest[:digits]))
	return name, size
}

// ySenderPhase tracks a YSender across the header block, the file's data
// blocks, and the next file's header.
type ySenderPhase int

const (
	yPhaseHeader ySenderPhase = iota
	yPhaseData
	yPhaseBatchDone
)

// YSender drives the sending side of a YMODEM batch: one block-0 header
// per file followed by that file's data as XMODEM-1K blocks, and a final
// empty header block once every file has been sent.
type YSender struct {
	files []YFile
	index int
	phase ySenderPhase
	block *Sender // the active single-file Sender (header or data)
	err   error
}

// NewYSender prepares to send a batch. Every real YMODEM implementation
// negotiates CRC mode; that happens per block via the same handshake
// byte XMODEM-CRC uses, so there is nothing to configure here.
func NewYSender(files []YFile) *YSender {
	return &YSender{files: files}
}

func (y *YSender) Done() bool { return y.phase == yPhaseBatchDone && y.block != nil && y.block.Done() }
func (y *YSender) Err() error { return y.err }

// Start returns nothing: YMODEM, like ZMODEM, is receiver-initiated —
// the first 'C' arrives via Input, not something the sender volunteers.
func (y *YSender) Start() []byte { return nil }

// Input feeds peer bytes through to whichever inner Sender is currently
// active, advancing to the next file (or to the terminating empty header)
// whenever that inner Sender finishes.
func (y *YSender) Input(p []byte) []byte {
	if y.block == nil {
		y.startHeader()
	}
	// Bytes are fed one at a time so that a handshake byte arriving in the
	// same chunk as the ACK that finished the previous inner Sender (the
	// receiver's "ACK, C") reaches the next inner Sender.
	var out []byte
	for _, b := range p {
		if y.phase == yPhaseBatchDone {
			break
		}
		out = append(out, y.block.Input([]byte{b})...)
		if err := y.block.Err(); err != nil {
			y.err = err
			return out
		}
		if !y.block.Done() {
			continue
		}
		switch y.phase {
		case yPhaseHeader:
			if y.index >= len(y.files) {
				y.phase = yPhaseBatchDone
				continue
			}
			y.phase = yPhaseData
			y.block = NewSenderAt(y.files[y.index].Data, Block1K, 1)
		case yPhaseData:
			y.index++
			y.phase = yPhaseHeader
			y.startHeader()
		}
	}
	return out
}

func (y *YSender) startHeader() {
	var header []byte
	if y.index < len(y.files) {
		header = batchHeader(y.files[y.index].Name, len(y.files[y.index].Data))
	} // empty header == batch terminator
	y.block = newHeaderSender(header)
}

// yReceiverPhase mirrors ySenderPhase from the receiving side.
type yReceiverPhase int

const (
	yRecvHeader yReceiverPhase = iota
	yRecvData
	yRecvBatchDone
)

// YReceiver drives the receiving side of a YMODEM batch.
type YReceiver struct {
	phase    yReceiverPhase
	block    *Receiver
	curName  string
	curSize  int
	files    []YFile
	started  bool
	err      error
}

func NewYReceiver() *YReceiver {
	return &YReceiver{block: newHeaderReceiver()}
}

func (y *YReceiver) Done() bool  { return y.phase == yRecvBatchDone }
func (y *YReceiver) Err() error  { return y.err }
func (y *YReceiver) Files() []YFile { return y.files }

// Start returns the initial 'C' byte requesting the first header block.
func (y *YReceiver) Start() []byte {
	y.started = true
	return y.block.Start()
}

func (y *YReceiver) Retry() []byte { return y.block.Retry() }

func (y *YReceiver) Input(p []byte) []byte {
	if !y.started {
		return y.Start()
	}
	out := y.block.Input(p)
	if err := y.block.Err(); err != nil {
		y.err = err
		return out
	}
	if !y.block.Done() {
		return out
	}
	switch y.phase {
	case yRecvHeader:
		name, size := parseBatchHeader(y.block.Bytes())
		if name == "" {
			y.phase = yRecvBatchDone
			return out
		}
		y.curName, y.curSize = name, size
		y.phase = yRecvData
		y.block = NewReceiver(ChecksumCRC16)
		out = append(out, y.block.Start()...)
	case yRecvData:
		data := y.block.Bytes()
		if y.curSize > 0 && y.curSize < len(data) {
			data = data[:y.curSize]
		}
		y.files = append(y.files, YFile{Name: y.curName, Data: data})
		y.phase = yRecvHeader
		y.block = newHeaderReceiver()
		out = append(out, y.block.Start()...)
	case yRecvBatchDone:
	}
	return out
}
