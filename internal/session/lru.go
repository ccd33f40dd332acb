package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for the evicting store, sized for a typical exam cohort: at most
// 100 live encounters, idle sessions dropped after an hour.
const (
	DefaultMaxSessions = 100
	DefaultSessionTTL  = time.Hour
)

// LRUStore is a bounded Store that evicts least-recently-used sessions and
// expires idle ones. Eviction is the store's concern, not the engine's: an
// evicted session simply starts over on its next GetOrCreate.
type LRUStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

// NewLRUStore returns an evicting store. size <= 0 selects
// DefaultMaxSessions; ttl <= 0 selects DefaultSessionTTL.
func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &LRUStore{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

// GetOrCreate implements Store. The surrounding mutex makes the check-then-add
// atomic so two concurrent first references yield the same session.
func (l *LRUStore) GetOrCreate(id string) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.cache.Get(id); ok {
		return s
	}
	s := NewSession(id)
	l.cache.Add(id, s)
	return s
}

// Len returns the number of live sessions.
func (l *LRUStore) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Len()
}
