package nodelist

import "fmt"

// binarySearch finds the entry matching (zone,net,node,point) in entries,
// which must already be sorted that way (LoadIndex preserves Compile's
// ordering).
func binarySearch(entries []Entry, zone, net, node, point uint16) (Entry, bool) {
	lo, hi := 0, len(entries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		e := entries[mid]
		switch {
		case less(e.Zone, e.Net, e.Node, e.Point, zone, net, node, point):
			lo = mid + 1
		case less(zone, net, node, point, e.Zone, e.Net, e.Node, e.Point):
			hi = mid - 1
		default:
			return e, true
		}
	}
	return Entry{}, false
}

func less(z1, n1, d1, p1, z2, n2, d2, p2 uint16) bool {
	if z1 != z2 {
		return z1 < z2
	}
	if n1 != n2 {
		return n1 < n2
	}
	if d1 != d2 {
		return d1 < d2
	}
	return p1 < p2
}

// Route resolves the hostname/port a BinkP dialer should connect to in
// order to reach (zone,net,node,point), climbing Hub -> Host -> Zone
// Coordinator until it finds an entry advertising an IBN hostname.
// Direct-connect (the target itself has an IBN flag) is preferred over
// any climb.
func (d *Directory) Route(network string, zone, net, node, point uint16) (host string, port uint16, err error) {
	target, ok := d.Lookup(network, zone, net, node, point)
	if !ok {
		return "", 0, fmt.Errorf("nodelist: no entry for %d:%d/%d.%d in %q", zone, net, node, point, network)
	}
	if h, p := target.Hostname(); h != "" {
		return h, p, nil
	}

	// Climb: hub node in the target's own net, then the host node, then
	// the zone coordinator. Each hop is tried directly; if none of them
	// have an IBN flag, the link cannot be reached over BinkP.
	candidates := []struct{ zone, net, node, point uint16 }{
		{target.Zone, target.Net, target.HubNode, 0},
		{target.Zone, target.Net, target.HostNode, 0},
		{target.ZoneCoordZone, target.ZoneCoordNet, target.ZoneCoordNode, 0},
	}
	for _, c := range candidates {
		if c.node == 0 {
			continue
		}
		if c.node == target.Node && c.net == target.Net && c.zone == target.Zone {
			continue
		}
		e, ok := d.Lookup(network, c.zone, c.net, c.node, c.point)
		if !ok {
			continue
		}
		if h, p := e.Hostname(); h != "" {
			return h, p, nil
		}
	}

	return "", 0, fmt.Errorf("nodelist: no route to %d:%d/%d.%d in %q (no IBN host found on target, hub, host, or zone coordinator)", zone, net, node, point, network)
}
