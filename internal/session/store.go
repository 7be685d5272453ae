// Package session holds the authenticated principal for the process
// lifetime. The store is the only state shared across concurrent requests;
// install and clear are single atomic swaps guarded by a mutex, so the
// transport never observes a partially updated session.
package session

import (
	"log/slog"
	"sync"

	"github.com/ViFerX/research-assistant/internal/domain/user"
)

// Session is the authenticated principal: bearer token plus user profile.
type Session struct {
	Token string
	User  user.User
}

// Store holds at most one Session. Every install or clear bumps a
// generation counter; unauthorized-triggered eviction is gated on the
// generation observed when the offending request was stamped, so a burst of
// 401s evicts the session exactly once.
type Store struct {
	mu        sync.Mutex
	session   *Session
	gen       uint64
	onExpired []func()
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Login installs the session. Visible to the transport before the next
// request is stamped.
func (s *Store) Login(token string, u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{Token: token, User: u}
	s.gen++
	slog.Debug("session installed", "user_id", u.ID, "role", u.Role)
}

// Logout clears the session, independent of any in-flight request.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	s.session = nil
	s.gen++
	slog.Debug("session cleared")
}

// Authenticated reports whether a session is installed.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Current returns a copy of the installed session, or nil.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Stamp returns the bearer token to attach to an outgoing request along
// with the generation it belongs to. An empty token means no session; the
// request goes out without an Authorization header.
func (s *Store) Stamp() (token string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", s.gen
	}
	return s.session.Token, s.gen
}

// Expire evicts the session in response to an unauthorized reply, but only
// if gen still matches the generation the offending request was stamped
// with. Returns true when this call performed the eviction; at most one
// call per installed session does. Expiry callbacks run outside the lock.
func (s *Store) Expire(gen uint64) bool {
	s.mu.Lock()
	if s.session == nil || s.gen != gen {
		s.mu.Unlock()
		return false
	}
	s.session = nil
	s.gen++
	callbacks := make([]func(), len(s.onExpired))
	copy(callbacks, s.onExpired)
	s.mu.Unlock()

	slog.Info("session evicted: backend reported unauthorized")
	for _, fn := range callbacks {
		fn()
	}
	return true
}

// OnExpired registers a callback fired when the session is evicted by an
// unauthorized response. The hosting application subscribes here instead of
// the store knowing anything about navigation.
func (s *Store) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}
