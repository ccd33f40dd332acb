package session

import "sync"

// Store maps session identifiers to sessions. The engine receives a Store at
// construction so tests can supply isolated stores and production can back it
// with an evicting or persistent implementation.
type Store interface {
	// GetOrCreate returns the session for id, creating it on first reference.
	GetOrCreate(id string) *Session
}

// MemStore is an unbounded in-memory Store. Suitable for tests and for
// single-shot CLI runs where the process lifetime bounds the map.
type MemStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*Session)}
}

// GetOrCreate implements Store.
func (m *MemStore) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id)
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
