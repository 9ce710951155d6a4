// Package reactive provides a value holder with explicit subscriptions.
// Session and cart state are published through it instead of relying on a
// client framework to notice changes.
package reactive

import "sync"

// Store holds a value of type T and notifies subscribers on every change.
// Subscribers are called synchronously, in subscription order, outside the
// store's lock, so a subscriber may read the store but must not block.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID uint64
	subs   map[uint64]func(T)
	order  []uint64
}

// New returns a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		value: initial,
		subs:  make(map[uint64]func(T)),
	}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value atomically with respect to other
// writers, then notifies subscribers with the result.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v
}

// UpdateIf is Update for conditional writes: fn reports whether it changed
// the value, and subscribers are notified only when it did.
func (s *Store[T]) UpdateIf(fn func(T) (T, bool)) (T, bool) {
	s.mu.Lock()
	v, changed := fn(s.value)
	if !changed {
		current := s.value
		s.mu.Unlock()
		return current, false
	}
	s.value = v
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v, true
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, sid := range s.order {
				if sid == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store[T]) snapshotLocked() []func(T) {
	subs := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	return subs
}
