// Command v3bbs is the runnable spec core: it wires C2 (internal/linetransport)
// telnet lines to C1 (internal/pipeplane), C3 (internal/session) per-line
// sessions, and C4 (internal/script) together behind one scheduler tick,
// replacing the blocking SSH-channel-per-connection model vision3's own
// cmd/vision3 used.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/stlalpha/v3bbs/internal/config"
	"github.com/stlalpha/v3bbs/internal/linetransport"
	"github.com/stlalpha/v3bbs/internal/pipeplane"
	"github.com/stlalpha/v3bbs/internal/script"
	"github.com/stlalpha/v3bbs/internal/session"
	"github.com/stlalpha/v3bbs/internal/store"
	"github.com/stlalpha/v3bbs/internal/transfer"
	"github.com/stlalpha/v3bbs/internal/uievents"
)

// defaultLogonScript is installed as scripts/logon.scr the first time the
// server runs against an empty -scripts directory, so a fresh checkout is
// connectable without hand-authoring a script first.
const defaultLogonScript = "logon\n" +
	"if %{logon_result} == OK then\n" +
	"  print `\\r\\nWelcome back.\\r\\n`\n" +
	"else\n" +
	"  print `\\r\\nLogin failed.\\r\\n`\n" +
	"end if\n" +
	"anykey\n"

func main() {
	configDir := flag.String("config", "configs", "directory holding config.json, ftn.json, protocols.json, doors.json")
	storeDir := flag.String("store", "data/store", "object store root (spec §4.6)")
	scriptsDir := flag.String("scripts", "scripts", "directory holding .scr scripts")
	logonName := flag.String("logon", "logon.scr", "entry script name, resolved under -scripts")
	transferDir := flag.String("transfers", "data/transfers", "root directory SENDFILE/RECEIVEFILE paths resolve under")
	flag.Parse()

	srvCfg, err := config.LoadServerConfig(*configDir)
	if err != nil {
		log.Fatalf("FATAL: load server config: %v", err)
	}

	protocols, err := transfer.LoadProtocols(filepath.Join(*configDir, "protocols.json"))
	if err != nil {
		log.Fatalf("FATAL: load protocols: %v", err)
	}

	doors, err := config.LoadDoors(filepath.Join(*configDir, "doors.json"))
	if err != nil {
		log.Fatalf("FATAL: load doors: %v", err)
	}

	if err := os.MkdirAll(*transferDir, 0755); err != nil {
		log.Fatalf("FATAL: create transfer directory: %v", err)
	}

	st, err := store.Open(*storeDir)
	if err != nil {
		log.Fatalf("FATAL: open object store: %v", err)
	}

	maxNodes := srvCfg.MaxNodes
	if maxNodes <= 0 {
		maxNodes = 10
	}

	types := make([]linetransport.Type, maxNodes)
	enabled := make([]bool, maxNodes)
	for i := range types {
		types[i] = linetransport.TypeTelnet
		enabled[i] = true
	}
	registry := linetransport.NewRegistry(types, enabled)
	plane := pipeplane.New(len(registry.Lines()), 4096)
	events := uievents.NewBus()
	sessions := session.NewRegistry()

	loader := scriptLoader(*scriptsDir)
	prog, err := loadOrSeedLogon(*scriptsDir, *logonName, loader)
	if err != nil {
		log.Fatalf("FATAL: load logon script: %v", err)
	}

	for _, line := range registry.Lines() {
		sess := session.New(line.ID, line, plane, st)
		sess.TransferDir = *transferDir
		sess.Protocols = protocols
		sess.Doors = doors
		sessions.Register(sess)
	}

	go runScheduler(sessions, prog, loader)

	server := linetransport.NewTelnetServer(registry, plane, events)

	host := srvCfg.TelnetHost
	port := srvCfg.TelnetPort
	if port == 0 {
		port = linetransport.DefaultTelnetPort
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("FATAL: listen on %s: %v", addr, err)
	}
	log.Printf("INFO: v3bbs listening on %s (%d lines)", addr, maxNodes)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("WARN: accept: %v", err)
			continue
		}
		go acceptConn(server, sessions, conn)
	}
}

// acceptConn attaches one TCP connection to a free line and pumps it for
// the life of the connection; the scheduler goroutine drives the session
// state machine bound to the same line independently.
func acceptConn(server *linetransport.TelnetServer, sessions *session.Registry, conn net.Conn) {
	link, err := server.Accept(conn)
	if err != nil {
		log.Printf("WARN: telnet negotiate failed: %v", err)
		return
	}
	if link == nil {
		return // no free line, or not accepting; already closed
	}

	line := link.Line()
	log.Printf("INFO: line %d: connected from %s", line.ID, line.Peer())

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := link.PumpOutbound(); err != nil {
					return
				}
			}
		}
	}()

	if err := server.Serve(link); err != nil {
		log.Printf("INFO: line %d: disconnected: %v", line.ID, err)
	}
	close(stop)

	if sess := sessions.Get(line.ID); sess != nil {
		sess.End()
	}
}

// runScheduler is the spec §5 scheduler tick: visit every registered
// session in turn, starting the logon script on newly-connected lines and
// advancing everyone else by one Step().
func runScheduler(sessions *session.Registry, prog *script.Program, loader script.Loader) {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		for _, sess := range sessions.ListActive() {
			if sess.State() == session.StateDisconnected {
				if sess.Line.State() != linetransport.Connected {
					continue
				}
				sess.Begin()
				sess.StartScript(prog, loader)
				continue
			}
			if sess.IdleExceeded() {
				log.Printf("INFO: line %d: idle timeout", sess.LineID)
				sess.End()
				continue
			}
			sess.Step()
		}
	}
}

// scriptLoader resolves a script.Loader against dir, serving SCRIPT
// subscript calls the same way the top-level entry script is loaded.
func scriptLoader(dir string) script.Loader {
	return func(name string) (*script.Program, error) {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", name, err)
		}
		return script.Parse(path, string(data))
	}
}

// loadOrSeedLogon loads the entry script, writing out defaultLogonScript
// first if neither the script nor its directory exists yet.
func loadOrSeedLogon(dir, name string, loader script.Loader) (*script.Program, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(defaultLogonScript), 0644); err != nil {
			return nil, err
		}
		log.Printf("INFO: seeded default logon script at %s", path)
	}
	return loader(name)
}
