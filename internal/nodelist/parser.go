// Package nodelist parses FTS-0005 nodelists into a compact, binary-search-
// able per-network index with an LRU lookup cache, and resolves BinkP hub
// routes from that index.
package nodelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Status is the nodelist keyword preceding a record, or StatusNormal when
// the keyword field is empty.
type Status byte

const (
	StatusNormal Status = iota
	StatusZone
	StatusRegion
	StatusHost
	StatusHub
	StatusPvt
	StatusHold
	StatusDown
)

var statusNames = map[string]Status{
	"":       StatusNormal,
	"Zone":   StatusZone,
	"Region": StatusRegion,
	"Host":   StatusHost,
	"Hub":    StatusHub,
	"Pvt":    StatusPvt,
	"Hold":   StatusHold,
	"Down":   StatusDown,
}

// Flag bits, stored together in Entry.Flags.
const (
	FlagCM byte = 1 << iota
	FlagMO
	FlagLO
	FlagIBN
	FlagITN
)

// Entry is one parsed nodelist record, enriched with the structural
// pointers (hub/host/zone-coordinator) routing needs.
type Entry struct {
	Zone, Net, Node, Point uint16
	Status                Status
	Name, Location, Sysop string
	Phone                 string
	Baud                  int
	Flags                 byte
	IBNHost               string // explicit IBN:<host> hostname, "" if the node's own hostname should be used
	IBNPort               uint16 // 0 = default 24554

	// Structural pointers for hub-route resolution, filled in while
	// parsing by tracking the most recent governing Hub/Host/Zone lines.
	HubNode                           uint16
	HostNode                          uint16
	ZoneCoordZone, ZoneCoordNet, ZoneCoordNode uint16
}

// ParseNodelist parses an FTS-0005 nodelist from r. Comment lines (';'
// prefix) and blank lines are skipped. Zone/Region/Host/Hub lines become
// Entry records like any other (so they can be looked up as routing
// targets) but also update the parser's structural context for the
// entries that follow.
func ParseNodelist(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var (
		entries                       []Entry
		curZone                       uint16
		curNet                        uint16
		curHub                        uint16
		curHost                       uint16
		curZoneCoordZone, curZoneCoordNet, curZoneCoordNode uint16
	)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) < 7 {
			return nil, fmt.Errorf("nodelist: line %d: expected at least 7 fields, got %d", line, len(fields))
		}

		status, ok := statusNames[fields[0]]
		if !ok {
			return nil, fmt.Errorf("nodelist: line %d: unknown keyword %q", line, fields[0])
		}

		node, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("nodelist: line %d: invalid node number %q: %w", line, fields[1], err)
		}

		baud, _ := strconv.Atoi(fields[6]) // malformed baud is tolerated; default to 0

		e := Entry{
			Status:   status,
			Name:     unpad(fields[2]),
			Location: unpad(fields[3]),
			Sysop:    unpad(fields[4]),
			Phone:    unpad(fields[5]),
			Baud:     baud,
		}

		switch status {
		case StatusZone:
			curZone = uint16(node)
			curNet = uint16(node)
			curHub = 0
			curHost = 0
			curZoneCoordZone, curZoneCoordNet, curZoneCoordNode = curZone, curNet, uint16(node)
		case StatusRegion, StatusHost:
			curNet = uint16(node)
			curHub = 0
			curHost = uint16(node)
		case StatusHub:
			curHub = uint16(node)
		}

		e.Zone = curZone
		e.Net = curNet
		e.Node = uint16(node)
		e.HubNode = curHub
		e.HostNode = curHost
		e.ZoneCoordZone = curZoneCoordZone
		e.ZoneCoordNet = curZoneCoordNet
		e.ZoneCoordNode = curZoneCoordNode

		parseFlags(&e, fields[7:])
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("nodelist: scan: %w", err)
	}
	return entries, nil
}

// unpad converts FTS-0005's '_' space-placeholder in Name/Location/Sysop
// fields back to literal spaces.
func unpad(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func parseFlags(e *Entry, flags []string) {
	for _, f := range flags {
		f = strings.TrimSpace(f)
		switch {
		case f == "CM":
			e.Flags |= FlagCM
		case f == "MO":
			e.Flags |= FlagMO
		case f == "LO":
			e.Flags |= FlagLO
		case f == "ITN" || strings.HasPrefix(f, "ITN:"):
			e.Flags |= FlagITN
		case f == "IBN" || strings.HasPrefix(f, "IBN:"):
			e.Flags |= FlagIBN
			rest := strings.TrimPrefix(f, "IBN:")
			if rest == "" || rest == f {
				continue
			}
			parts := strings.SplitN(rest, ":", 2)
			e.IBNHost = parts[0]
			if len(parts) == 2 {
				if p, err := strconv.Atoi(parts[1]); err == nil {
					e.IBNPort = uint16(p)
				}
			}
		}
	}
}

// Hostname returns the (hostname, port) a BinkP dialer should use to
// reach e, applying the default port when the nodelist didn't specify
// one. hostname is empty if e advertised no IBN flag at all.
func (e Entry) Hostname() (string, uint16) {
	if e.Flags&FlagIBN == 0 {
		return "", 0
	}
	port := e.IBNPort
	if port == 0 {
		port = 24554
	}
	return e.IBNHost, port
}
