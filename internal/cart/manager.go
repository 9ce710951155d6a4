package cart

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

type entry struct {
	store       *Store
	unsubscribe func()

	loadMu sync.Mutex
	loaded bool
}

// Manager owns one Store per signed-in user. A store is created and loaded
// on first access and dropped when its user's session turns
// unauthenticated or when it sits idle.
type Manager struct {
	persister Persister
	sessions  *session.Registry

	mu      sync.Mutex
	entries map[string]*entry
}

func NewManager(persister Persister, sessions *session.Registry) *Manager {
	return &Manager{
		persister: persister,
		sessions:  sessions,
		entries:   make(map[string]*entry),
	}
}

// Get returns userID's store, loading it from the cart document the first
// time. A failed load is retried on the next Get; until then the store
// works locally and reports the failure in State.Err.
func (m *Manager) Get(ctx context.Context, userID string) *Store {
	e := m.entry(userID)
	e.store.touch()

	e.loadMu.Lock()
	defer e.loadMu.Unlock()
	if !e.loaded {
		if err := e.store.Load(ctx); err == nil {
			e.loaded = true
		}
	}
	return e.store
}

func (m *Manager) entry(userID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[userID]; ok {
		return e
	}

	e := &entry{store: NewStore(userID, m.persister)}
	e.unsubscribe = m.sessions.Subscribe(userID, func(st session.State) {
		if !st.Loading && !st.User.Authenticated {
			m.signedOut(userID, e)
		}
	})
	m.entries[userID] = e
	return e
}

// signedOut empties the in-memory cart and forgets it. The remote document
// is kept for the next sign-in.
func (m *Manager) signedOut(userID string, e *entry) {
	e.store.Reset()
	e.unsubscribe()

	m.mu.Lock()
	if m.entries[userID] == e {
		delete(m.entries, userID)
	}
	m.mu.Unlock()

	logger.Debug("Cart reset on sign-out", map[string]interface{}{
		"user_id": userID,
	})
}

// Evict flushes and drops stores idle for longer than ttl. Stores with
// subscribers are kept. It returns the number of stores dropped.
func (m *Manager) Evict(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	var idle []*entry
	for userID, e := range m.entries {
		if e.store.Subscribers() > 0 || e.store.IdleSince().After(cutoff) {
			continue
		}
		idle = append(idle, e)
		delete(m.entries, userID)
	}
	m.mu.Unlock()

	for _, e := range idle {
		e.unsubscribe()
		e.store.Flush()
	}
	return len(idle)
}

// Flush waits for every store's pending remote writes.
func (m *Manager) Flush() {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.entries))
	for _, e := range m.entries {
		stores = append(stores, e.store)
	}
	m.mu.Unlock()

	for _, s := range stores {
		s.Flush()
	}
}

// Len is the number of stores in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
