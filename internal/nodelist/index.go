package nodelist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// Field widths for the fixed-size on-disk entry; overlong values are
// truncated, matching the fixed-width layout used elsewhere in this
// codebase's on-disk records.
const (
	nameLen     = 36
	locationLen = 28
	sysopLen    = 36
	phoneLen    = 20
	hostLen     = 48
)

// indexRecord is the fixed-size on-disk form of an Entry.
type indexRecord struct {
	Zone, Net, Node, Point uint16
	Status                 byte
	Flags                  byte
	IBNPort                uint16
	Baud                   uint32
	HubNode, HostNode      uint16
	ZoneCoordZone          uint16
	ZoneCoordNet           uint16
	ZoneCoordNode          uint16
	Name                   [nameLen]byte
	Location               [locationLen]byte
	Sysop                  [sysopLen]byte
	Phone                  [phoneLen]byte
	IBNHost                [hostLen]byte
}

// IndexRecordSize is the fixed byte size of one compiled index entry.
const IndexRecordSize = 2*3 + 2 /*point*/ + 1 + 1 + 2 + 4 + 2 + 2 + 2 + 2 + 2 + nameLen + locationLen + sysopLen + phoneLen + hostLen

func toRecord(e Entry) indexRecord {
	r := indexRecord{
		Zone: e.Zone, Net: e.Net, Node: e.Node, Point: e.Point,
		Status: byte(e.Status), Flags: e.Flags, IBNPort: e.IBNPort,
		Baud:          uint32(e.Baud),
		HubNode:       e.HubNode,
		HostNode:      e.HostNode,
		ZoneCoordZone: e.ZoneCoordZone,
		ZoneCoordNet:  e.ZoneCoordNet,
		ZoneCoordNode: e.ZoneCoordNode,
	}
	copy(r.Name[:], e.Name)
	copy(r.Location[:], e.Location)
	copy(r.Sysop[:], e.Sysop)
	copy(r.Phone[:], e.Phone)
	copy(r.IBNHost[:], e.IBNHost)
	return r
}

func fromRecord(r indexRecord) Entry {
	return Entry{
		Zone: r.Zone, Net: r.Net, Node: r.Node, Point: r.Point,
		Status: Status(r.Status),
		Name:   cstr(r.Name[:]), Location: cstr(r.Location[:]), Sysop: cstr(r.Sysop[:]), Phone: cstr(r.Phone[:]),
		Baud:          int(r.Baud),
		Flags:         r.Flags,
		IBNHost:       cstr(r.IBNHost[:]),
		IBNPort:       r.IBNPort,
		HubNode:       r.HubNode,
		HostNode:      r.HostNode,
		ZoneCoordZone: r.ZoneCoordZone,
		ZoneCoordNet:  r.ZoneCoordNet,
		ZoneCoordNode: r.ZoneCoordNode,
	}
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// sortKey orders entries by (zone,net,node,point) for binary search.
func sortKey(e Entry) [4]uint16 { return [4]uint16{e.Zone, e.Net, e.Node, e.Point} }

// Compile sorts entries by (zone,net,node,point) and writes the binary
// index: a 4-byte record-count header followed by fixed-size records.
func Compile(w io.Writer, entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sortKey(sorted[i]), sortKey(sorted[j])
		return a[0] < b[0] || (a[0] == b[0] && (a[1] < b[1] || (a[1] == b[1] && (a[2] < b[2] || (a[2] == b[2] && a[3] < b[3])))))
	})

	if err := binary.Write(w, binary.LittleEndian, uint32(len(sorted))); err != nil {
		return fmt.Errorf("nodelist: write index header: %w", err)
	}
	for _, e := range sorted {
		rec := toRecord(e)
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("nodelist: write index record: %w", err)
		}
	}
	return nil
}

// LoadIndex reads a compiled binary index back into sorted Entry order.
func LoadIndex(r io.Reader) ([]Entry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("nodelist: read index header: %w", err)
	}
	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec indexRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("nodelist: read index record %d: %w", i, err)
		}
		entries = append(entries, fromRecord(rec))
	}
	return entries, nil
}
