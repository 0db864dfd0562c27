package tosser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stlalpha/v3bbs/internal/config"
	"github.com/stlalpha/v3bbs/internal/echofix"
	"github.com/stlalpha/v3bbs/internal/file"
	"github.com/stlalpha/v3bbs/internal/ftn"
	"github.com/stlalpha/v3bbs/internal/jam"
	"github.com/stlalpha/v3bbs/internal/message"
)

// EnableEchoFix wires AreaFix/FileFix processing into ProcessInbound:
// netmail addressed to AreaFix/FileFix is intercepted, validated and
// applied against ftnCfg's live link state, and a reply is mailed back
// instead of filing the request as ordinary netmail. fileMgr may be nil,
// in which case FileFix requests are logged and dropped without a reply
// (no file-echo area registry to validate tags against).
//
// ftnCfg must be the same value the caller loaded with
// config.LoadFTNConfig; changes AreaFix/FileFix commands make to
// subscription lists are written straight back through it, then saved to
// configDir/ftn.json so the next toss run sees them.
func (t *Tosser) EnableEchoFix(ftnCfg *config.FTNConfig, configDir string, fileMgr *file.FileManager) {
	t.ftnCfg = ftnCfg
	t.ftnConfigDir = configDir
	t.fileMgr = fileMgr
}

// tryEchoFix handles msg if its recipient is a recognized AreaFix/FileFix
// pseudo-user, mailing a reply back to the originating link and
// persisting any subscription change. It reports whether msg was an
// AreaFix/FileFix request at all; when false the caller should fall
// through to ordinary netmail filing.
func (t *Tosser) tryEchoFix(msg *ftn.PackedMessage, parsed *ftn.ParsedBody) (handled bool, err error) {
	kind, ok := echofix.RecipientKind(msg.To)
	if !ok {
		return false, nil
	}

	if t.ftnCfg == nil {
		log.Printf("WARN: EchoFix: request from %s to %s ignored, no config wired for persistence", msg.From, msg.To)
		return true, nil
	}

	netCfg, ok := t.ftnCfg.Networks[t.networkName]
	if !ok {
		return true, fmt.Errorf("echofix: network %q not found in config", t.networkName)
	}

	linkIdx := findLinkIndexByAddr(netCfg.Links, msg.OrigNet, msg.OrigNode)
	if linkIdx < 0 {
		log.Printf("WARN: EchoFix: request from unconfigured node %d/%d, ignoring", msg.OrigNet, msg.OrigNode)
		return true, nil
	}
	linkCfg := &netCfg.Links[linkIdx]

	link := &echofix.Link{Password: linkCfg.AreafixPassword, Paused: &linkCfg.EchoFixPaused}
	var knownTags []string
	switch kind {
	case echofix.KindArea:
		link.Subscriptions = &linkCfg.AreafixSubscriptions
		link.Allowed = linkCfg.AllowedEchoes
		link.MaxCount = linkCfg.MaxAreas
		knownTags = echoAreaTags(t.msgMgr.ListAreas(), t.networkName)
	case echofix.KindFile:
		if t.fileMgr == nil {
			log.Printf("WARN: EchoFix: FileFix request from %s, no file area manager wired", msg.From)
			return true, nil
		}
		link.Subscriptions = &linkCfg.FilefixSubscriptions
		link.Allowed = linkCfg.AllowedFiles
		link.MaxCount = linkCfg.MaxFileAreas
		knownTags = fileAreaTags(t.fileMgr.ListAreas(), t.networkName)
	}

	password, cmdLines := echofix.ParseRequest(parsed.Text)
	cmds := echofix.ParseCommands(cmdLines)

	reply, procErr := echofix.Process(kind, password, cmds, link, knownTags)
	if procErr != nil {
		log.Printf("WARN: EchoFix: request from %s rejected: %v", msg.From, procErr)
		return true, nil
	}

	// netCfg is a local copy of the map value; linkCfg mutated its Links
	// slice's backing array in place (shared with the map entry), but
	// the map entry's own struct fields still need writing back.
	t.ftnCfg.Networks[t.networkName] = netCfg

	if t.ftnConfigDir != "" {
		if err := config.SaveFTNConfig(t.ftnConfigDir, *t.ftnCfg); err != nil {
			log.Printf("WARN: EchoFix: failed to save ftn.json: %v", err)
		}
	}

	if err := t.mailEchoFixReply(msg, reply); err != nil {
		log.Printf("WARN: EchoFix: failed to queue reply to %s: %v", msg.From, err)
	}
	return true, nil
}

// findLinkIndexByAddr finds the configured link whose address has the
// given net/node, matching the way PackOutbound resolves a packet's
// destination header back to a link (zone is not compared: a network's
// links all share the packet's own zone).
func findLinkIndexByAddr(links []config.FTNLinkConfig, net, node uint16) int {
	for i, l := range links {
		addr, err := jam.ParseAddress(l.Address)
		if err != nil {
			continue
		}
		if uint16(addr.Net) == net && uint16(addr.Node) == node {
			return i
		}
	}
	return -1
}

// mailEchoFixReply writes a one-message netmail .PKT to the outbound
// staging directory, addressed back to msg's origin, the same way
// export.go's createOutboundPacket builds echomail packets.
func (t *Tosser) mailEchoFixReply(msg *ftn.PackedMessage, replyText string) error {
	hdr := ftn.NewPacketHeader(
		uint16(t.ownAddr.Zone), uint16(t.ownAddr.Net), uint16(t.ownAddr.Node), uint16(t.ownAddr.Point),
		uint16(t.ownAddr.Zone), msg.OrigNet, msg.OrigNode, 0,
		"",
	)

	packed := &ftn.PackedMessage{
		MsgType:  2,
		OrigNode: uint16(t.ownAddr.Node),
		DestNode: msg.OrigNode,
		OrigNet:  uint16(t.ownAddr.Net),
		DestNet:  msg.OrigNet,
		Attr:     ftn.MsgAttrLocal,
		DateTime: ftn.FormatFTNDateTime(time.Now()),
		To:       msg.From,
		From:     msg.To,
		Subject:  "AreaFix/FileFix reply",
		Body:     replyText,
	}

	filename := fmt.Sprintf("%08x.pkt", time.Now().UnixNano()&0xFFFFFFFF)
	pktPath := filepath.Join(t.config.OutboundPath, filename)

	f, err := os.Create(pktPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", pktPath, err)
	}
	defer f.Close()

	if err := ftn.WritePacket(f, hdr, []*ftn.PackedMessage{packed}); err != nil {
		os.Remove(pktPath)
		return fmt.Errorf("write packet: %w", err)
	}

	log.Printf("INFO: EchoFix: queued reply to %s in %s", msg.From, filename)
	return nil
}

// echoAreaTags returns the echo tags of network's echomail areas.
func echoAreaTags(areas []*message.MessageArea, network string) []string {
	var tags []string
	for _, a := range areas {
		if a.AreaType != "echomail" && a.AreaType != "echo" {
			continue
		}
		if !strings.EqualFold(a.Network, network) {
			continue
		}
		tags = append(tags, a.EchoTag)
	}
	return tags
}

// fileAreaTags returns the TIC tags of network's file areas.
func fileAreaTags(areas []file.FileArea, network string) []string {
	var tags []string
	for _, a := range areas {
		if !strings.EqualFold(a.Network, network) {
			continue
		}
		tags = append(tags, a.Tag)
	}
	return tags
}
