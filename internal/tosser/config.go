package tosser

import (
	"sort"
	"strings"

	"github.com/stlalpha/v3bbs/internal/config"
	"github.com/stlalpha/v3bbs/internal/message"
)

// networkConfig holds the settings a Tosser needs for a single FTN network.
// It is assembled from config.FTNNetworkConfig (per-network) and
// config.FTNConfig (shared paths) by NewFromFTN.
type networkConfig struct {
	InternalTosserEnabled bool
	OwnAddress            string
	InboundPath           string
	SecureInboundPath     string
	OutboundPath          string
	BinkdOutboundPath     string
	TempPath              string
	PollSeconds           int
	NetmailAreaTag        string // area messages with no AREA kludge are filed under
	BadAreaTag            string // area unroutable messages are filed under
	DupeAreaTag           string // area duplicate messages are filed under (in addition to being dupe-skipped)
	Links                 []linkConfig
}

// linkConfig defines an FTN link (uplink/downlink node) as the tosser sees it.
type linkConfig struct {
	Address   string
	Password  string
	Name      string
	EchoAreas []string // echo tags (or "*") routed to this link
	Flavour   string   // Normal (default), Crash, Hold, Direct
}

// NewFromFTN builds a Tosser for a single network from the shared
// configs/ftn.json structures. Each link's EchoAreas is the union of its
// explicit AreaFix subscriptions and, where the link declares Groups, every
// area in this network whose Groups overlap the link's.
func NewFromFTN(networkName string, netCfg config.FTNNetworkConfig, ftnCfg config.FTNConfig, dupeDB *DupeDB, msgMgr *message.MessageManager) (*Tosser, error) {
	areas := msgMgr.ListAreas()

	links := make([]linkConfig, len(netCfg.Links))
	for i, l := range netCfg.Links {
		links[i] = linkConfig{
			Address:   l.Address,
			Password:  l.PacketPassword,
			Name:      l.Name,
			EchoAreas: linkEchoAreas(l, areas, networkName),
			Flavour:   l.Flavour,
		}
	}

	cfg := networkConfig{
		InternalTosserEnabled: netCfg.InternalTosserEnabled,
		OwnAddress:            netCfg.OwnAddress,
		InboundPath:           ftnCfg.InboundPath,
		SecureInboundPath:     ftnCfg.SecureInboundPath,
		OutboundPath:          ftnCfg.OutboundPath,
		BinkdOutboundPath:     ftnCfg.BinkdOutboundPath,
		TempPath:              ftnCfg.TempPath,
		PollSeconds:           netCfg.PollSeconds,
		NetmailAreaTag:        ftnCfg.NetmailAreaTag,
		BadAreaTag:            ftnCfg.BadAreaTag,
		DupeAreaTag:           ftnCfg.DupeAreaTag,
		Links:                 links,
	}

	return New(networkName, cfg, dupeDB, msgMgr)
}

// linkEchoAreas computes the set of echo tags routed to link: its explicit
// AreaFix subscriptions, plus (when the link declares Groups) every area in
// network whose Groups overlap the link's.
func linkEchoAreas(link config.FTNLinkConfig, areas []*message.MessageArea, network string) []string {
	set := make(map[string]bool)
	for _, tag := range link.AreafixSubscriptions {
		set[strings.ToUpper(tag)] = true
	}
	if len(link.Groups) > 0 {
		for _, area := range areas {
			if area.AreaType != "echomail" && area.AreaType != "echo" {
				continue
			}
			if !strings.EqualFold(area.Network, network) {
				continue
			}
			if groupsOverlap(link.Groups, area.Groups) {
				set[strings.ToUpper(area.EchoTag)] = true
			}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// groupsOverlap reports whether a and b share at least one group,
// case-insensitively. An ungrouped side (empty slice) matches anything.
func groupsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
