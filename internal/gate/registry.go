package gate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geniusclasses/backend/internal/platform/logger"
)

// DefaultTTL is how long an idle gate session survives before the sweeper
// drops it. Sessions are volatile by design: a restart sends every visitor
// back to stage one.
const DefaultTTL = 30 * time.Minute

type session struct {
	machine  *Machine
	lastSeen time.Time
}

// Registry holds the in-memory gate sessions, keyed by an opaque token the
// client carries between gesture requests.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	log      *logger.Logger
}

func NewRegistry(baseLog *logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		ttl:      DefaultTTL,
		log:      baseLog.With("service", "GateRegistry"),
	}
}

// Begin creates a fresh session at the first stage and returns its token.
func (r *Registry) Begin() (string, *Machine) {
	token := uuid.NewString()
	m := NewMachine()
	r.mu.Lock()
	r.sessions[token] = &session{machine: m, lastSeen: time.Now()}
	r.mu.Unlock()
	return token, m
}

// Get returns the machine for token, or nil when the token is unknown or
// has expired. A hit refreshes the session's idle clock.
func (r *Registry) Get(token string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil
	}
	if time.Since(s.lastSeen) > r.ttl {
		delete(r.sessions, token)
		return nil
	}
	s.lastSeen = time.Now()
	return s.machine
}

// Drop removes a session, typically after a successful login.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// StartSweeper evicts expired sessions until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	removed := 0
	for token, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, token)
			removed++
		}
	}
	remaining := len(r.sessions)
	r.mu.Unlock()
	if removed > 0 {
		r.log.Debug("Swept expired gate sessions", "removed", removed, "remaining", remaining)
	}
}
