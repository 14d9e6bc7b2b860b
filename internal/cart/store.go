package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/bitebank/ordercore/internal/storage"
)

var (
	// ErrInvalidQuantity marks a contract violation: AddItem requires a
	// positive quantity and never coerces.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrNotHydrated is returned by mutations issued before Hydrate has
	// restored the persisted snapshot. Accepting them would overwrite a
	// legitimately persisted cart with a stale empty one.
	ErrNotHydrated = errors.New("cart store has not been hydrated")
)

// SwitchConfirmer is the blocking user decision taken when an AddItem
// targets a different restaurant than the current cart. Returning false
// keeps the existing cart untouched and makes the call a no-op.
type SwitchConfirmer func(current *models.CartState, next *models.Restaurant) bool

// DeclineSwitch never discards the existing cart. It is the default when no
// confirmer is supplied.
func DeclineSwitch(*models.CartState, *models.Restaurant) bool { return false }

// Store owns the single active cart: item identity and merge, quantity
// mutation, totals, and persistence of the snapshot after every mutation.
// Mutations run to completion under one lock, including the restaurant
// switch confirmation, so no other mutation can observe the cart while a
// confirmation is pending.
type Store struct {
	mu       sync.Mutex
	snapshot storage.SnapshotStore
	key      string
	confirm  SwitchConfirmer

	hydrated bool
	state    *models.CartState // nil means no cart
}

func NewStore(snapshot storage.SnapshotStore, key string, confirm SwitchConfirmer) *Store {
	if confirm == nil {
		confirm = DeclineSwitch
	}
	return &Store{
		snapshot: snapshot,
		key:      key,
		confirm:  confirm,
	}
}

// Hydrate restores the last persisted snapshot. It runs exactly once; a
// malformed or invariant-violating snapshot is discarded and the store
// starts with an absent cart rather than failing the caller.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	data, found, err := s.snapshot.Read(s.key)
	if err != nil {
		return fmt.Errorf("failed to hydrate cart: %w", err)
	}
	if found {
		state := &models.CartState{}
		if err := json.Unmarshal(data, state); err != nil || !state.Validate() {
			log.Printf("Discarding corrupt cart snapshot for key %s", s.key)
			if err := s.snapshot.Delete(s.key); err != nil {
				return fmt.Errorf("failed to discard corrupt cart snapshot: %w", err)
			}
		} else {
			s.state = state
		}
	}

	s.hydrated = true
	return nil
}

// AddItem puts qty units of the product with the given option selection
// into the cart. If the cart belongs to a different restaurant the
// configured confirmer decides whether to discard it first; a declined
// switch returns applied=false and leaves the cart untouched. Additions of
// an already present product+options line merge additively into it.
func (s *Store) AddItem(restaurant *models.Restaurant, product *models.Product, options []models.CartOption, qty int) (applied bool, err error) {
	if qty < 1 {
		return false, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return false, ErrNotHydrated
	}

	if s.state != nil && s.state.RestaurantID != restaurant.ID {
		// Blocking user decision; the lock stays held so no other
		// mutation can run while the confirmation is pending.
		if !s.confirm(s.state, restaurant) {
			return false, nil
		}
		s.state = nil
	}

	if s.state == nil {
		s.state = &models.CartState{
			RestaurantID:   restaurant.ID,
			RestaurantSlug: restaurant.SlugName,
			RestaurantName: restaurant.Name,
		}
	}

	key := models.ItemKey(product.ID, options)
	if idx := s.state.FindItem(key); idx >= 0 {
		item := &s.state.Items[idx]
		item.Qty += qty
		item.Recompute()
	} else {
		item := models.CartItem{
			Key:            key,
			ProductID:      product.ID,
			Name:           product.Name,
			BasePriceCents: product.BasePriceCents,
			Qty:            qty,
			Options:        options,
		}
		item.Recompute()
		s.state.Items = append(s.state.Items, item)
	}

	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem deletes the line with the given key and reports whether a
// line was actually removed. Removing the last line destroys the cart; an
// absent key is a no-op.
func (s *Store) RemoveItem(key string) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return false, ErrNotHydrated
	}
	if s.state == nil {
		return false, nil
	}

	idx := s.state.FindItem(key)
	if idx < 0 {
		return false, nil
	}
	s.state.Items = append(s.state.Items[:idx], s.state.Items[idx+1:]...)
	if len(s.state.Items) == 0 {
		s.state = nil
	}
	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// SetQty replaces the line's quantity and reports whether the cart changed.
// A quantity below one removes the line; an absent key is a no-op.
func (s *Store) SetQty(key string, qty int) (changed bool, err error) {
	if qty < 1 {
		return s.RemoveItem(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return false, ErrNotHydrated
	}
	if s.state == nil {
		return false, nil
	}

	idx := s.state.FindItem(key)
	if idx < 0 {
		return false, nil
	}
	item := &s.state.Items[idx]
	item.Qty = qty
	item.Recompute()
	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// Clear unconditionally destroys the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}
	s.state = nil
	return s.persist()
}

// Totals reports the cart subtotal and item count. An absent cart reports
// zeros, never an error.
func (s *Store) Totals() models.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Totals()
}

// State returns a deep copy of the current cart, or nil when absent.
func (s *Store) State() *models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil
	}
	copied := *s.state
	copied.Items = make([]models.CartItem, len(s.state.Items))
	copy(copied.Items, s.state.Items)
	for i := range copied.Items {
		options := make([]models.CartOption, len(copied.Items[i].Options))
		copy(options, copied.Items[i].Options)
		copied.Items[i].Options = options
	}
	return &copied
}

// persist writes the snapshot after the in-memory mutation has completed,
// so a crash in between leaves the previous persisted snapshot intact.
// Caller holds the lock.
func (s *Store) persist() error {
	if s.state == nil {
		if err := s.snapshot.Delete(s.key); err != nil {
			return fmt.Errorf("failed to delete cart snapshot: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to serialize cart snapshot: %w", err)
	}
	if err := s.snapshot.Write(s.key, data); err != nil {
		return fmt.Errorf("failed to persist cart snapshot: %w", err)
	}
	return nil
}
