package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/stlalpha/v3bbs/internal/binkp"
	"github.com/stlalpha/v3bbs/internal/config"
	"github.com/stlalpha/v3bbs/internal/ftn"
	"github.com/stlalpha/v3bbs/internal/jam"
	"github.com/stlalpha/v3bbs/internal/nodelist"
)

// loadBinkpDeps loads ftn.json and resolves its paths against the BBS root,
// the same way loadFTNDeps does for toss/scan/ftn-pack, but without the
// message manager or dupe DB that only the toss/scan paths need.
func loadBinkpDeps(configDir, dataDir string) (config.FTNConfig, string, error) {
	ftnCfg, err := config.LoadFTNConfig(configDir)
	if err != nil {
		return config.FTNConfig{}, "", fmt.Errorf("load ftn config: %w", err)
	}

	absData, err := filepath.Abs(dataDir)
	if err != nil {
		absData = dataDir
	}
	bbsRoot := filepath.Dir(absData)

	ftnCfg.InboundPath = resolveFTNPath(bbsRoot, ftnCfg.InboundPath)
	ftnCfg.SecureInboundPath = resolveFTNPath(bbsRoot, ftnCfg.SecureInboundPath)
	ftnCfg.OutboundPath = resolveFTNPath(bbsRoot, ftnCfg.OutboundPath)
	ftnCfg.BinkdOutboundPath = resolveFTNPath(bbsRoot, ftnCfg.BinkdOutboundPath)
	ftnCfg.TempPath = resolveFTNPath(bbsRoot, ftnCfg.TempPath)

	for name, netCfg := range ftnCfg.Networks {
		netCfg.FreqPath = resolveFTNPath(bbsRoot, netCfg.FreqPath)
		netCfg.NodelistPath = resolveFTNPath(bbsRoot, netCfg.NodelistPath)
		ftnCfg.Networks[name] = netCfg
	}

	return ftnCfg, bbsRoot, nil
}

// findNetwork resolves --network against ftnCfg.Networks, defaulting to the
// sole entry when the config only lists one.
func findNetwork(ftnCfg config.FTNConfig, name string) (string, config.FTNNetworkConfig, error) {
	if name != "" {
		netCfg, ok := ftnCfg.Networks[name]
		if !ok {
			return "", config.FTNNetworkConfig{}, fmt.Errorf("unknown network %q", name)
		}
		return name, netCfg, nil
	}
	if len(ftnCfg.Networks) == 1 {
		for k, v := range ftnCfg.Networks {
			return k, v, nil
		}
	}
	return "", config.FTNNetworkConfig{}, fmt.Errorf("--network is required when ftn.json defines more than one network")
}

// findLink resolves --link (a 4D address) against netCfg.Links, defaulting
// to the sole configured link when there is exactly one.
func findLink(netCfg config.FTNNetworkConfig, address string) (config.FTNLinkConfig, error) {
	if address != "" {
		for _, l := range netCfg.Links {
			if l.Address == address {
				return l, nil
			}
		}
		return config.FTNLinkConfig{}, fmt.Errorf("unknown link %q", address)
	}
	if len(netCfg.Links) == 1 {
		return netCfg.Links[0], nil
	}
	return config.FTNLinkConfig{}, fmt.Errorf("--link is required when the network defines more than one link")
}

// outboundBundlesForLink scans ftnCfg.BinkdOutboundPath (the C9 pack staging
// area internal/tosser.PackOutbound fills) for bundle files addressed to
// link, by matching the BSO hex net/node prefix internal/tosser uses to name
// them. This is the C10<-C9 handoff: binkp sends whatever pack already
// staged, it does not toss or pack anything itself.
func outboundBundlesForLink(ftnCfg config.FTNConfig, link config.FTNLinkConfig) ([]binkp.FileOffer, error) {
	destAddr, err := jam.ParseAddress(link.Address)
	if err != nil {
		return nil, fmt.Errorf("parse link address %q: %w", link.Address, err)
	}
	prefix := fmt.Sprintf("%04x%04x", destAddr.Net, destAddr.Node)

	entries, err := os.ReadDir(ftnCfg.BinkdOutboundPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read binkd outbound dir: %w", err)
	}

	var offers []binkp.FileOffer
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		if !ftn.BundleExtension(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		offers = append(offers, binkp.FileOffer{
			Name:    name,
			Path:    filepath.Join(ftnCfg.BinkdOutboundPath, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return offers, nil
}

// absorbReceived writes files a binkp session collected into the FTN
// inbound directory so the next 'v3mail toss' run picks them up: ZIP
// bundles are unpacked in place (internal/ftn.ExtractBundle), bare .pkt
// files are written through unchanged.
func absorbReceived(ftnCfg config.FTNConfig, received []binkp.ReceivedFile, quiet bool) error {
	if len(received) == 0 {
		return nil
	}
	if err := os.MkdirAll(ftnCfg.InboundPath, 0755); err != nil {
		return fmt.Errorf("create inbound dir: %w", err)
	}

	for _, f := range received {
		tmpPath := filepath.Join(ftnCfg.TempPath, f.Name)
		if err := os.MkdirAll(filepath.Dir(tmpPath), 0755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		if err := os.WriteFile(tmpPath, f.Data, 0644); err != nil {
			return fmt.Errorf("stage received file %s: %w", f.Name, err)
		}

		isZip, _ := ftn.IsZIPBundle(tmpPath)
		if isZip {
			extracted, err := ftn.ExtractBundle(tmpPath, ftnCfg.InboundPath)
			os.Remove(tmpPath)
			if err != nil {
				return fmt.Errorf("extract bundle %s: %w", f.Name, err)
			}
			if !quiet {
				fmt.Printf("  received %s: extracted %d packet(s)\n", f.Name, len(extracted))
			}
			continue
		}

		destPath := filepath.Join(ftnCfg.InboundPath, filepath.Base(f.Name))
		if err := os.Rename(tmpPath, destPath); err != nil {
			return fmt.Errorf("move received file %s: %w", f.Name, err)
		}
		if !quiet {
			fmt.Printf("  received %s\n", f.Name)
		}
	}
	return nil
}

// removeSentBundles deletes the outbound bundle files a session pushed, once
// the session has completed without error. BinkP's M_GOT/M_SKIP exchange
// happens per-chunk inside internal/binkp and isn't surfaced per-file here,
// so (as with internal/tosser.PackOutbound's own staged-.pkt cleanup) a
// clean session run is treated as full delivery.
func removeSentBundles(offers []binkp.FileOffer) {
	for _, o := range offers {
		if o.Path == "" {
			continue
		}
		if err := os.Remove(o.Path); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: failed to remove sent bundle %s: %v\n", o.Path, err)
		}
	}
}

// binkpSessionConfig builds the binkp.Config a Session presents to its
// peer for one network/link pairing.
func binkpSessionConfig(netCfg config.FTNNetworkConfig, link config.FTNLinkConfig, serverCfg config.ServerConfig) binkp.Config {
	return binkp.Config{
		Addresses:  []string{netCfg.OwnAddress},
		Password:   link.PacketPassword,
		SystemName: serverCfg.BoardName,
		Sysop:      serverCfg.SysOpName,
	}
}

// cmdBinkpListen implements 'v3mail binkp-listen': run a BinkP answerer,
// accepting inbound sessions from one network's uplink/downlinks until
// interrupted (spec §2 C10).
func cmdBinkpListen(args []string) {
	fs := flag.NewFlagSet("binkp-listen", flag.ExitOnError)
	configDir := fs.String("config", "configs", "Config directory")
	dataDir := fs.String("data", "data", "Data directory")
	networkName := fs.String("network", "", "FTN network to listen for (required if more than one is configured)")
	quiet := fs.Bool("q", false, "Quiet mode")
	fs.Parse(args)

	ftnCfg, _, err := loadBinkpDeps(*configDir, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	name, netCfg, err := findNetwork(ftnCfg, *networkName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !netCfg.BinkPListenEnabled {
		fmt.Fprintf(os.Stderr, "Error: network %q does not have binkp_listen_enabled\n", name)
		os.Exit(1)
	}
	if len(netCfg.Links) == 0 {
		fmt.Fprintf(os.Stderr, "Error: network %q has no links configured\n", name)
		os.Exit(1)
	}

	serverCfg, _ := config.LoadServerConfig(*configDir)
	// A listening answerer accepts whichever configured link dials in; since
	// binkp.Config carries one shared password, this only supports the
	// common single-uplink-listens-for-this-bbs topology (one configured
	// link). Multi-link inbound password-per-peer isn't expressible through
	// the current binkp.Config shape.
	link := netCfg.Links[0]
	cfg := binkpSessionConfig(netCfg, link, serverCfg)

	resolveOutbound := func(peerAddr string) []binkp.FileOffer {
		for _, l := range netCfg.Links {
			if l.Address != peerAddr {
				continue
			}
			offers, err := outboundBundlesForLink(ftnCfg, l)
			if err != nil {
				fmt.Fprintf(os.Stderr, "WARN: resolve outbound for %s: %v\n", peerAddr, err)
				return nil
			}
			return offers
		}
		return nil
	}

	port := netCfg.BinkPListenPort
	if port == 0 {
		port = 24554
	}
	addr := fmt.Sprintf(":%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if !*quiet {
		fmt.Printf("[%s] binkp-listen: accepting on %s\n", name, addr)
	}
	if err := binkp.ListenAndServe(ctx, addr, cfg, resolveOutbound, netCfg.FreqPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: binkp-listen: %v\n", err)
		os.Exit(1)
	}
}

// cmdBinkpDial implements 'v3mail binkp-dial': dial one link once, push
// whatever internal/tosser.PackOutbound staged for it, and absorb whatever
// the peer sends back (spec §2 C10, single-shot form).
func cmdBinkpDial(args []string) {
	fs := flag.NewFlagSet("binkp-dial", flag.ExitOnError)
	configDir := fs.String("config", "configs", "Config directory")
	dataDir := fs.String("data", "data", "Data directory")
	networkName := fs.String("network", "", "FTN network the link belongs to")
	linkAddr := fs.String("link", "", "Link 4D address to dial")
	quiet := fs.Bool("q", false, "Quiet mode")
	fs.Parse(args)

	runDial(*configDir, *dataDir, *networkName, *linkAddr, *quiet, 0, 0)
}

// cmdBinkpPoll implements 'v3mail binkp-poll': like binkp-dial, but retries
// with exponential backoff until it connects or --max-attempts is exhausted
// (0 = unlimited).
func cmdBinkpPoll(args []string) {
	fs := flag.NewFlagSet("binkp-poll", flag.ExitOnError)
	configDir := fs.String("config", "configs", "Config directory")
	dataDir := fs.String("data", "data", "Data directory")
	networkName := fs.String("network", "", "FTN network the link belongs to")
	linkAddr := fs.String("link", "", "Link 4D address to poll")
	maxInterval := fs.Duration("max-interval", 10*time.Minute, "Cap on the retry backoff interval")
	maxAttempts := fs.Int("max-attempts", 0, "Give up after this many attempts (0 = unlimited)")
	quiet := fs.Bool("q", false, "Quiet mode")
	fs.Parse(args)

	runDial(*configDir, *dataDir, *networkName, *linkAddr, *quiet, *maxInterval, *maxAttempts)
}

// runDial resolves the link's dial target and runs either a single Dial
// (maxInterval == 0) or a PollLink retry loop, then absorbs the result. When
// the link has no explicit BinkPHost, the target is resolved from the
// network's nodelist directory instead (spec §2 "C11 feeds C10").
func runDial(configDir, dataDir, networkName, linkAddrFlag string, quiet bool, maxInterval time.Duration, maxAttempts int) {
	ftnCfg, _, err := loadBinkpDeps(configDir, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	name, netCfg, err := findNetwork(ftnCfg, networkName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	link, err := findLink(netCfg, linkAddrFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	host, port, err := resolveDialTarget(name, netCfg, link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	offers, err := outboundBundlesForLink(ftnCfg, link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serverCfg, _ := config.LoadServerConfig(configDir)
	cfg := binkpSessionConfig(netCfg, link, serverCfg)

	if !quiet {
		fmt.Printf("[%s] dialing %s (%s) with %d bundle(s) queued\n", name, link.Address, addr, len(offers))
	}

	ctx := context.Background()
	var sess *binkp.Session
	if maxInterval <= 0 && maxAttempts == 0 {
		sess, err = binkp.Dial(ctx, addr, cfg, offers)
	} else {
		sess, err = binkp.PollLink(ctx, addr, cfg, offers, maxInterval, maxAttempts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: session with %s failed: %v\n", link.Address, err)
		os.Exit(1)
	}

	removeSentBundles(offers)
	if err := absorbReceived(ftnCfg, sess.Received, quiet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !quiet {
		fmt.Printf("[%s] session with %s complete: sent %d bundle(s), received %d file(s)\n",
			name, link.Address, len(offers), len(sess.Received))
	}
}

// resolveDialTarget prefers the link's explicit BinkPHost/BinkPPort, falling
// back to the network's nodelist directory (internal/nodelist) to resolve
// the link's 4D address to a dial target (spec §2: "C11 feeds C10").
// networkName keys the Directory's loaded index, matching netCfg's own
// network key in ftn.json, not the link's own address.
func resolveDialTarget(networkName string, netCfg config.FTNNetworkConfig, link config.FTNLinkConfig) (string, uint16, error) {
	if link.BinkPHost != "" {
		port := link.BinkPPort
		if port == 0 {
			port = 24554
		}
		return link.BinkPHost, uint16(port), nil
	}
	if netCfg.NodelistPath == "" {
		return "", 0, fmt.Errorf("link %q has no binkp_host and network has no nodelist_path configured", link.Address)
	}

	destAddr, err := jam.ParseAddress(link.Address)
	if err != nil {
		return "", 0, fmt.Errorf("parse link address %q: %w", link.Address, err)
	}

	dir, err := nodelist.NewDirectory()
	if err != nil {
		return "", 0, fmt.Errorf("open nodelist directory: %w", err)
	}
	indexPath := filepath.Join(netCfg.NodelistPath, "nodelist.idx")
	if err := dir.LoadNetwork(networkName, indexPath); err != nil {
		return "", 0, fmt.Errorf("load nodelist index for %s: %w", networkName, err)
	}

	host, port, err := dir.Route(networkName, uint16(destAddr.Zone), uint16(destAddr.Net), uint16(destAddr.Node), uint16(destAddr.Point))
	if err != nil {
		return "", 0, fmt.Errorf("resolve route to %s: %w", link.Address, err)
	}
	return host, port, nil
}

// cmdNodelistCompile implements 'v3mail nodelist-compile': parse an FTS-0005
// nodelist text file and write the compiled binary index resolveDialTarget
// loads via internal/nodelist.Directory.LoadNetwork (spec §2 C11).
func cmdNodelistCompile(args []string) {
	fs := flag.NewFlagSet("nodelist-compile", flag.ExitOnError)
	input := fs.String("input", "", "Raw FTS-0005 nodelist file (required)")
	output := fs.String("output", "", "Destination for the compiled index (default: <input dir>/nodelist.idx)")
	quiet := fs.Bool("q", false, "Quiet mode")
	fs.Parse(args)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		os.Exit(1)
	}
	out := *output
	if out == "" {
		out = filepath.Join(filepath.Dir(*input), "nodelist.idx")
	}

	f, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open %s: %v\n", *input, err)
		os.Exit(1)
	}
	entries, err := nodelist.ParseNodelist(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse %s: %v\n", *input, err)
		os.Exit(1)
	}

	w, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create %s: %v\n", out, err)
		os.Exit(1)
	}
	defer w.Close()
	if err := nodelist.Compile(w, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error: compile index: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Printf("nodelist-compile: wrote %d entries to %s\n", len(entries), out)
	}
}
