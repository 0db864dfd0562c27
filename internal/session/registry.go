package session

import (
	"sort"
	"sync"
)

// Registry tracks every active Session, keyed by line ID, and supplies the
// "online users" listing the script engine's ONLINE built-in needs (spec
// §4.4) — the one piece of session state that can't be answered by a
// single session in isolation.
//
// Grounded on vision3's internal/session/registry.go (sorted ListActive by
// node id); generalized from the BbsSession/nodeID pairing to Session/lineID
// and wired to hand each Session a closure back into itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]*Session)}
}

// Register adds s and wires its "who else is online" callback.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.onlineUsersFunc = r.onlineHandles
	r.sessions[s.LineID] = s
}

func (r *Registry) Unregister(lineID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, lineID)
}

func (r *Registry) Get(lineID int) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[lineID]
}

func (r *Registry) ListActive() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LineID < result[j].LineID
	})
	return result
}

// onlineHandles lists the handle of every authenticated session, in line
// order. Held under the registry's own lock, not each session's, so it is
// safe to call from any session's host adapter.
func (r *Registry) onlineHandles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		s := r.sessions[id]
		if s.State() == StateAuthenticated {
			out = append(out, s.User.Handle)
		}
	}
	return out
}
