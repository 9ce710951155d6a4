// Package session publishes a per-user "current user" projection that other
// components subscribe to.
package session

import (
	"context"
	"sync"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/reactive"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// State is the projection plus a loading flag raised while it is resolved.
type State struct {
	User    model.CurrentUser `json:"user"`
	Loading bool              `json:"loading"`

	// generation counts sign-ins and sign-outs. Resolve only applies its
	// result when no such transition happened during the lookup.
	generation uint64
}

// UserFinder loads the identity record behind a session.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Registry holds one projection store per user ID.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*reactive.Store[State]
	users  UserFinder
}

func NewRegistry(users UserFinder) *Registry {
	return &Registry{
		stores: make(map[string]*reactive.Store[State]),
		users:  users,
	}
}

// Store returns the projection store for userID, creating an
// unauthenticated one on first use.
func (r *Registry) Store(userID string) *reactive.Store[State] {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[userID]
	if !ok {
		s = reactive.New(State{})
		r.stores[userID] = s
	}
	return s
}

// Current returns the latest projection for userID.
func (r *Registry) Current(userID string) State {
	return r.Store(userID).Get()
}

// Subscribe registers fn for userID's projection changes.
func (r *Registry) Subscribe(userID string, fn func(State)) (unsubscribe func()) {
	return r.Store(userID).Subscribe(fn)
}

// SignedIn publishes an authenticated projection for user.
func (r *Registry) SignedIn(user *model.User) {
	r.Store(user.ID).Update(func(s State) State {
		return State{User: authenticated(user), generation: s.generation + 1}
	})
}

// SignedOut publishes the unauthenticated projection for userID.
func (r *Registry) SignedOut(userID string) {
	r.Store(userID).Update(func(s State) State {
		return State{generation: s.generation + 1}
	})
	logger.Debug("Session signed out", map[string]interface{}{
		"user_id": userID,
	})
}

// Resolve reloads userID from the identity store. Loading is published
// while the lookup runs; a failed lookup leaves the user unauthenticated.
// A sign-in or sign-out during the lookup wins over its result.
func (r *Registry) Resolve(ctx context.Context, userID string) (State, error) {
	store := r.Store(userID)
	started := store.Update(func(s State) State {
		s.Loading = true
		return s
	}).generation

	user, err := r.users.FindByID(ctx, userID)

	state, applied := store.UpdateIf(func(s State) (State, bool) {
		if s.generation != started {
			return s, false
		}
		if err != nil {
			return State{generation: s.generation}, true
		}
		return State{User: authenticated(user), generation: s.generation}, true
	})
	if !applied {
		logger.Debug("Session changed during resolve, keeping newer state", map[string]interface{}{
			"user_id": userID,
		})
	}
	return state, err
}

func authenticated(user *model.User) model.CurrentUser {
	return model.CurrentUser{
		Authenticated: true,
		ID:            user.ID,
		Email:         user.Email,
	}
}
