// Package cart keeps each signed-in user's cart in memory and mirrors it to
// the per-user cart document.
package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/reactive"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// Persister reads and overwrites the remote cart document.
type Persister interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
}

// State is what subscribers observe. Items are in insertion order.
type State struct {
	Items   []model.CartItem `json:"items"`
	Loading bool             `json:"loading"`
	Err     *Error           `json:"error,omitempty"`
}

// Total is recomputed from Items on every call.
func (s State) Total() float64 {
	return model.Subtotal(s.Items)
}

// Store is one user's cart. Mutations apply to local state synchronously
// and in call order; each one then overwrites the remote document from a
// goroutine, so remote writes may complete out of order.
type Store struct {
	userID    string
	persister Persister
	state     *reactive.Store[State]

	mu     sync.Mutex
	mirror bool // guarded by mu; false until Load and after Reset

	pending     sync.WaitGroup
	lastTouched atomic.Int64
}

func NewStore(userID string, persister Persister) *Store {
	s := &Store{
		userID:    userID,
		persister: persister,
		state:     reactive.New(State{Items: []model.CartItem{}}),
	}
	s.touch()
	return s
}

func (s *Store) UserID() string {
	return s.userID
}

// Load replaces local state with the remote document, or with an empty
// cart when none exists, and enables mirroring. After a failed load the
// cart stays local until the next successful Load, which merges the lines
// added in the meantime onto the remote items and saves the result once.
func (s *Store) Load(ctx context.Context) error {
	s.state.Update(func(st State) State {
		st.Loading = true
		return st
	})

	doc, err := s.persister.Get(ctx, s.userID)

	s.mu.Lock()

	var remote []model.CartItem
	switch {
	case errors.Is(err, repository.ErrNotFound):
		remote = []model.CartItem{}
	case err != nil:
		cartErr := &Error{Op: "load", Message: "failed to load cart", Err: err}
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"user_id": s.userID,
		})
		s.state.Update(func(st State) State {
			st.Loading = false
			st.Err = cartErr
			return st
		})
		s.mu.Unlock()
		return cartErr
	default:
		remote = model.CopyItems(doc.Items)
	}

	var local []model.CartItem
	if !s.mirror {
		local = s.state.Get().Items
	}
	items := mergeItems(remote, local)

	s.mirror = true
	s.state.Set(State{Items: items})
	snapshot := model.CopyItems(items)
	s.mu.Unlock()

	if len(local) > 0 {
		logger.Info("Merging offline cart lines", map[string]interface{}{
			"user_id": s.userID,
			"lines":   len(local),
		})
		s.saveAsync("load", snapshot)
	}
	return nil
}

// mergeItems adds each local line to remote: quantities add up for a
// product already present, other lines are appended in order.
func mergeItems(remote, local []model.CartItem) []model.CartItem {
	for _, item := range local {
		found := false
		for i := range remote {
			if remote[i].ID == item.ID {
				remote[i].Quantity += item.Quantity
				found = true
				break
			}
		}
		if !found {
			remote = append(remote, item)
		}
	}
	return remote
}

// Add increases the quantity of an existing line or appends a new one with
// the product's current fields. Stock is not re-checked for existing lines.
func (s *Store) Add(product *model.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mutate("add", func(items []model.CartItem) []model.CartItem {
		for i := range items {
			if items[i].ID == product.ID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, model.NewCartItem(product, quantity))
	})
	return nil
}

// Remove deletes the line for productID; absent IDs are ignored.
func (s *Store) Remove(productID string) {
	s.mutate("remove", func(items []model.CartItem) []model.CartItem {
		return removeItem(items, productID)
	})
}

// SetQuantity overwrites a line's quantity without clamping to stock.
// Quantities of zero or less remove the line.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mutate("set_quantity", func(items []model.CartItem) []model.CartItem {
		if quantity <= 0 {
			return removeItem(items, productID)
		}
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity = quantity
				break
			}
		}
		return items
	})
}

// Clear empties the cart and overwrites the remote document with no items.
func (s *Store) Clear() {
	s.mutate("clear", func([]model.CartItem) []model.CartItem {
		return []model.CartItem{}
	})
}

// Reset empties local state and stops mirroring. The remote document is
// left as it is.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = false
	s.state.Set(State{Items: []model.CartItem{}})
}

func (s *Store) Items() []model.CartItem {
	return model.CopyItems(s.state.Get().Items)
}

func (s *Store) Total() float64 {
	return s.state.Get().Total()
}

func (s *Store) State() State {
	st := s.state.Get()
	st.Items = model.CopyItems(st.Items)
	return st
}

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

func (s *Store) Subscribers() int {
	return s.state.Subscribers()
}

// Flush waits for remote writes issued so far.
func (s *Store) Flush() {
	s.pending.Wait()
}

// IdleSince reports when the store was last touched.
func (s *Store) IdleSince() time.Time {
	return time.Unix(0, s.lastTouched.Load())
}

func (s *Store) touch() {
	s.lastTouched.Store(time.Now().UnixNano())
}

func (s *Store) mutate(op string, fn func([]model.CartItem) []model.CartItem) {
	s.mu.Lock()
	next := s.state.Update(func(st State) State {
		st.Items = fn(model.CopyItems(st.Items))
		return st
	})
	mirror := s.mirror
	snapshot := model.CopyItems(next.Items)
	s.mu.Unlock()

	s.touch()
	if mirror {
		s.saveAsync(op, snapshot)
	}
}

func (s *Store) saveAsync(op string, items []model.CartItem) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		doc := &model.Cart{UserID: s.userID, Items: items, UpdatedAt: time.Now()}
		if err := s.persister.Save(context.Background(), doc); err != nil {
			logger.Error("Failed to save cart", err, map[string]interface{}{
				"user_id": s.userID,
				"op":      op,
			})
			s.state.Update(func(st State) State {
				st.Err = &Error{Op: "save", Message: "failed to save cart", Err: err}
				return st
			})
			return
		}

		if s.state.Get().Err != nil {
			s.state.Update(func(st State) State {
				st.Err = nil
				return st
			})
		}
	}()
}

func removeItem(items []model.CartItem, productID string) []model.CartItem {
	for i := range items {
		if items[i].ID == productID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
