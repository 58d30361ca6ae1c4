// Package textstore is the time-limited key→text cache bridging the
// submit-text step and a later analyze-text step. Entries are owned
// exclusively by the store; nothing holds them across requests.
package textstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one stored wish text. The expiry timestamp is the single source
// of truth for freshness: the scheduled removal is purely advisory cleanup,
// so a lookup racing the timer can never observe stale data.
type Entry struct {
	ID        string
	Text      string
	ExpiresAt time.Time
}

// Store is an in-memory text store with a fixed TTL.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
}

// New creates a Store whose entries expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
	}
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put stores text under a fresh opaque id and schedules its removal after
// the TTL. The returned entry carries the id and expiry to hand back to the
// caller.
func (s *Store) Put(text string) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Text:      text,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[e.ID] = e
	s.mu.Unlock()

	time.AfterFunc(s.ttl, func() { s.Delete(e.ID) })
	return e
}

// Get returns the entry for id. An entry past its expiry timestamp reports
// not-found even when the deferred removal has not run yet; reads never
// extend or consume the entry.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.ExpiresAt) {
		return Entry{}, false
	}
	return e, true
}

// Delete removes an entry by id. Deleting a missing id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports the number of entries currently held, including ones past
// expiry that the timer has not removed yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
