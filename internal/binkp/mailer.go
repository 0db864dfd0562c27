package binkp

import (
	"context"
	"log"
	"net"
	"time"
)

// ListenAndServe accepts inbound BinkP connections on addr until ctx is
// cancelled, running one answerer Session per connection in its own
// goroutine. resolveOutbound and freqRoot are passed through to each
// Session unchanged.
func ListenAndServe(ctx context.Context, addr string, cfg Config, resolveOutbound ResolveOutboundFunc, freqRoot string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("INFO: binkp: listening on %s", addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				log.Printf("ERROR: binkp: accept: %v", err)
				continue
			}
		}
		go serveOne(conn, cfg, resolveOutbound, freqRoot)
	}
}

func serveOne(conn net.Conn, cfg Config, resolveOutbound ResolveOutboundFunc, freqRoot string) {
	defer conn.Close()
	peer := conn.RemoteAddr().String()
	sess := NewAnswerer(conn, cfg, resolveOutbound, freqRoot)
	if err := sess.Run(); err != nil {
		log.Printf("WARN: binkp: session with %s failed: %v", peer, err)
		return
	}
	log.Printf("INFO: binkp: session with %s (%v) complete: received %d file(s)",
		peer, sess.PeerAddresses(), len(sess.Received))
}

// Dial connects to a remote BinkP answerer at addr and runs the caller
// side of a session, pushing outbound and collecting whatever the peer
// sends in return.
func Dial(ctx context.Context, addr string, cfg Config, outbound []FileOffer) (*Session, error) {
	d := net.Dialer{Timeout: 30 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	sess := NewCaller(conn, cfg, outbound)
	err = sess.Run()
	conn.Close()
	return sess, err
}

// PollLink dials a single uplink/downlink address, retrying with
// exponential backoff capped at maxInterval until success, ctx
// cancellation, or maxAttempts is exhausted (0 = unlimited).
func PollLink(ctx context.Context, addr string, cfg Config, outbound []FileOffer, maxInterval time.Duration, maxAttempts int) (*Session, error) {
	backoff := time.Second
	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		sess, err := Dial(ctx, addr, cfg, outbound)
		if err == nil {
			return sess, nil
		}
		log.Printf("WARN: binkp: poll %s attempt %d failed: %v", addr, attempt, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxInterval {
			backoff = maxInterval
		}
	}
	return nil, context.DeadlineExceeded
}
