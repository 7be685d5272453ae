package session_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ViFerX/research-assistant/internal/domain/user"
	"github.com/ViFerX/research-assistant/internal/session"
)

func TestLoginLogout(t *testing.T) {
	s := session.NewStore()

	if s.Authenticated() {
		t.Fatal("fresh store should not be authenticated")
	}
	if tok, _ := s.Stamp(); tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}

	s.Login("tok-1", user.User{ID: 7, Name: "Ada", Role: user.RoleResearcher})

	if !s.Authenticated() {
		t.Fatal("expected authenticated after login")
	}
	tok, _ := s.Stamp()
	if tok != "tok-1" {
		t.Fatalf("expected tok-1, got %q", tok)
	}
	if cur := s.Current(); cur == nil || cur.User.ID != 7 {
		t.Fatalf("unexpected current session: %+v", cur)
	}

	s.Logout()
	if s.Authenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
}

func TestExpireFiresOnce(t *testing.T) {
	s := session.NewStore()
	s.Login("tok", user.User{ID: 1})

	var fired atomic.Int32
	s.OnExpired(func() { fired.Add(1) })

	// Three concurrent requests stamped against the same session all see 401.
	_, gen := s.Stamp()

	var wg sync.WaitGroup
	var evicted atomic.Int32
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Expire(gen) {
				evicted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := evicted.Load(); got != 1 {
		t.Fatalf("expected exactly one eviction, got %d", got)
	}
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected callback fired once, got %d", got)
	}
	if s.Authenticated() {
		t.Fatal("expected session cleared")
	}
}

func TestExpireIgnoresStaleGeneration(t *testing.T) {
	s := session.NewStore()
	s.Login("old", user.User{ID: 1})
	_, staleGen := s.Stamp()

	// A new login supersedes the session the stale 401 belongs to.
	s.Login("new", user.User{ID: 1})

	if s.Expire(staleGen) {
		t.Fatal("stale 401 must not evict a newer session")
	}
	if !s.Authenticated() {
		t.Fatal("newer session should survive")
	}
	tok, _ := s.Stamp()
	if tok != "new" {
		t.Fatalf("expected new token, got %q", tok)
	}
}

func TestExpireOnEmptyStore(t *testing.T) {
	s := session.NewStore()
	if s.Expire(0) {
		t.Fatal("expire on empty store should be a no-op")
	}
}
