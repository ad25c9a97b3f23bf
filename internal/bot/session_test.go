package bot

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestSessions(t *testing.T, clock *fakeClock) *SessionStore {
	t.Helper()
	s, err := NewSessionStore(SessionStoreOpts{Now: clock.Now})
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	return s
}

func TestNewSessionStore_RejectsNegativeWindows(t *testing.T) {
	if _, err := NewSessionStore(SessionStoreOpts{DedupeWindow: -time.Second}); err == nil {
		t.Fatal("expected error for negative window")
	}
}

func TestKey(t *testing.T) {
	if got := Key(ChannelTelegram, "42"); got != "telegram:42" {
		t.Fatalf("Key = %q", got)
	}
}

func TestIsDuplicate_Window(t *testing.T) {
	clock := newFakeClock()
	s := newTestSessions(t, clock)
	key := Key(ChannelTelegram, "u1")

	if s.IsDuplicate(key, "halo") {
		t.Fatal("first sighting flagged as duplicate")
	}
	clock.Advance(30 * time.Second)
	if !s.IsDuplicate(key, "halo") {
		t.Fatal("repeat inside the window not flagged")
	}
	if s.IsDuplicate(key, "apa kabar") {
		t.Fatal("different text flagged as duplicate")
	}
}

func TestIsDuplicate_ExpiresPastWindow(t *testing.T) {
	clock := newFakeClock()
	s := newTestSessions(t, clock)
	key := Key(ChannelTelegram, "u1")

	s.IsDuplicate(key, "halo")
	clock.Advance(DefaultDedupeWindow + time.Second)
	if s.IsDuplicate(key, "halo") {
		t.Fatal("repeat past the window flagged as duplicate")
	}
}

func TestIsDuplicate_PrunesStaleEntries(t *testing.T) {
	clock := newFakeClock()
	s := newTestSessions(t, clock)
	key := Key(ChannelTelegram, "u1")

	s.IsDuplicate(key, "satu")
	s.IsDuplicate(key, "dua")
	clock.Advance(DefaultPruneAfter + time.Second)
	s.IsDuplicate(key, "tiga")

	sess := s.Session(key)
	if _, ok := sess.Recent["satu"]; ok {
		t.Fatal("stale dedupe entry survived pruning")
	}
	if _, ok := sess.Recent["tiga"]; !ok {
		t.Fatal("fresh entry missing after pruning")
	}
}

func TestRespondedGuard(t *testing.T) {
	clock := newFakeClock()
	s := newTestSessions(t, clock)
	key := Key(ChannelTelegram, "u1")

	if s.HasResponded(key, "m1") {
		t.Fatal("unseen message id reported as responded")
	}
	s.MarkResponded(key, "m1")
	if !s.HasResponded(key, "m1") {
		t.Fatal("marked message id not reported as responded")
	}
	// Transports without message ids skip the guard entirely.
	s.MarkResponded(key, "")
	if s.HasResponded(key, "") {
		t.Fatal("empty message id must never match")
	}
}

func TestSweep(t *testing.T) {
	clock := newFakeClock()
	s := newTestSessions(t, clock)

	idle := Key(ChannelTelegram, "idle")
	busy := Key(ChannelTelegram, "busy")
	s.Session(idle)
	s.Session(busy).Corruption = &CorruptionSession{State: corruptionStateReporting, Data: map[string]string{}}

	clock.Advance(DefaultPruneAfter + time.Minute)
	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d records, want 1", removed)
	}

	s.mu.Lock()
	_, idleKept := s.sessions[idle]
	_, busyKept := s.sessions[busy]
	s.mu.Unlock()
	if idleKept {
		t.Fatal("idle record survived the sweep")
	}
	if !busyKept {
		t.Fatal("record with an active flow was swept")
	}
}
