package nodelist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNodelist = `;S3353
;A Vision/3 sample nodelist fragment for testing.
Zone,1,Zone_1,Zoneville,Coordinator,1-555-555-1212,9600,CM,INA1:hub.example.com
Host,100,Net_100,Hostburg,Host_Coordinator,1-555-555-1000,33600,CM,IBN
Hub,101,Hub_Site,Hubtown,Hub_Sysop,1-555-555-1001,33600,CM,IBN:hub1.example.com:24554
,158,Leaf_Node,Leafville,Leaf_Sysop,1-555-555-1580,14400,IBN
,159,Quiet_Node,Quietville,Quiet_Sysop,-Unpublished-,0,
`

func parseSample(t *testing.T) []Entry {
	t.Helper()
	entries, err := ParseNodelist(strings.NewReader(sampleNodelist))
	if err != nil {
		t.Fatalf("ParseNodelist: %v", err)
	}
	return entries
}

func TestParseNodelist(t *testing.T) {
	entries := parseSample(t)
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}

	zone := entries[0]
	if zone.Status != StatusZone || zone.Node != 1 || zone.Name != "Zone 1" {
		t.Fatalf("zone entry = %+v", zone)
	}

	leaf := entries[3]
	if leaf.Node != 158 || leaf.Net != 100 || leaf.Zone != 1 {
		t.Fatalf("leaf address = %d:%d/%d, want 1:100/158", leaf.Zone, leaf.Net, leaf.Node)
	}
	if leaf.HubNode != 101 || leaf.HostNode != 100 {
		t.Fatalf("leaf structural pointers = hub %d host %d, want 101/100", leaf.HubNode, leaf.HostNode)
	}
	if leaf.Flags&FlagIBN == 0 {
		t.Fatal("leaf should carry IBN flag")
	}
	if host, port := leaf.Hostname(); host != "" || port != 24554 {
		t.Fatalf("bare IBN leaf Hostname() = %q:%d, want empty host (no explicit host) on default port 24554", host, port)
	}

	hub := entries[2]
	if hub.Node != 101 {
		t.Fatalf("hub node = %d, want 101", hub.Node)
	}
	if host, port := hub.Hostname(); host != "hub1.example.com" || port != 24554 {
		t.Fatalf("hub Hostname() = %q:%d, want hub1.example.com:24554", host, port)
	}

	quiet := entries[4]
	if quiet.Baud != 0 || quiet.Phone != "-Unpublished-" {
		t.Fatalf("quiet entry = %+v", quiet)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	entries := parseSample(t)

	var buf bytes.Buffer
	if err := Compile(&buf, entries); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	loaded, err := LoadIndex(&buf)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(loaded), len(entries))
	}

	// Compile sorts by (zone,net,node,point); confirm ordering and that
	// a round-tripped record matches its source field-for-field.
	for i := 1; i < len(loaded); i++ {
		a, b := loaded[i-1], loaded[i]
		if less(b.Zone, b.Net, b.Node, b.Point, a.Zone, a.Net, a.Node, a.Point) {
			t.Fatalf("index not sorted at %d: %+v then %+v", i, a, b)
		}
	}

	var hub Entry
	for _, e := range loaded {
		if e.Node == 101 {
			hub = e
		}
	}
	if hub.Name != "Hub Site" || hub.Sysop != "Hub Sysop" {
		t.Fatalf("round-tripped hub = %+v", hub)
	}
	if host, port := hub.Hostname(); host != "hub1.example.com" || port != 24554 {
		t.Fatalf("round-tripped hub Hostname() = %q:%d", host, port)
	}
}

func TestDirectoryLookupAndRoute(t *testing.T) {
	entries := parseSample(t)

	dir, err := NewDirectory()
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fsxnet.idx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create index file: %v", err)
	}
	if err := Compile(f, entries); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	f.Close()

	if err := dir.LoadNetwork("fsxnet", path); err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}

	e, ok := dir.Lookup("fsxnet", 1, 100, 158, 0)
	if !ok {
		t.Fatal("expected to find 1:100/158")
	}
	if e.Name != "Leaf Node" {
		t.Fatalf("looked-up entry = %+v", e)
	}

	if _, ok := dir.Lookup("fsxnet", 1, 100, 9999, 0); ok {
		t.Fatal("expected no entry for nonexistent node 9999")
	}

	// 1:100/158 has no direct IBN host; Route must climb to its hub
	// (101), which does advertise one.
	host, port, err := dir.Route("fsxnet", 1, 100, 158, 0)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if host != "hub1.example.com" || port != 24554 {
		t.Fatalf("Route() = %q:%d, want hub1.example.com:24554", host, port)
	}

	// The hub (101) advertises an explicit IBN host itself, so routing to
	// it connects directly without climbing.
	host, port, err = dir.Route("fsxnet", 1, 100, 101, 0)
	if err != nil {
		t.Fatalf("Route to hub: %v", err)
	}
	if host != "hub1.example.com" || port != 24554 {
		t.Fatalf("Route to hub itself = %q:%d", host, port)
	}

	// Node 159 advertises no flags of its own, but its hub (101) does
	// carry an explicit IBN host, so it is still reachable via climb.
	host, port, err = dir.Route("fsxnet", 1, 100, 159, 0)
	if err != nil {
		t.Fatalf("Route via hub climb for node 159: %v", err)
	}
	if host != "hub1.example.com" || port != 24554 {
		t.Fatalf("Route via hub climb = %q:%d", host, port)
	}
}
