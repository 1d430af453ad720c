package resolver

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// EventContext remembers the last event a session successfully created or
// updated, so a follow-up like "spostala di un'ora" can resolve without a
// title.
type EventContext struct {
	EventID   string
	Title     string
	Timestamp time.Time
}

// ContextStore is a session-keyed, TTL-bound store of EventContext entries.
// Entries expire on their own; a stale entry is never returned.
type ContextStore struct {
	cache *expirable.LRU[string, EventContext]
	ttl   time.Duration
}

// NewContextStore builds a store whose entries live for ttl (typically a few
// minutes). Capacity is bounded so an abandoned session cannot grow memory.
func NewContextStore(ttl time.Duration) *ContextStore {
	return &ContextStore{
		cache: expirable.NewLRU[string, EventContext](1024, nil, ttl),
		ttl:   ttl,
	}
}

// Remember records the last touched event for a session, overwriting any
// previous entry.
func (s *ContextStore) Remember(sessionID, eventID, title string) {
	s.cache.Add(sessionID, EventContext{
		EventID:   eventID,
		Title:     title,
		Timestamp: time.Now(),
	})
}

// Last returns the session's last touched event, if one was recorded within
// the TTL window.
func (s *ContextStore) Last(sessionID string) (EventContext, bool) {
	entry, ok := s.cache.Get(sessionID)
	if !ok {
		return EventContext{}, false
	}
	if time.Since(entry.Timestamp) >= s.ttl {
		return EventContext{}, false
	}
	return entry, true
}

// Forget drops the session's entry, used after the remembered event is
// deleted.
func (s *ContextStore) Forget(sessionID string) {
	s.cache.Remove(sessionID)
}
