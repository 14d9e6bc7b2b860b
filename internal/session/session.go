package session

import (
	"encoding/json"
	"log"
	"time"

	"github.com/bitebank/ordercore/internal/availability"
	"github.com/bitebank/ordercore/internal/cart"
	"github.com/bitebank/ordercore/internal/eligibility"
	"github.com/bitebank/ordercore/internal/models"
)

// Session wires the cart store, the availability evaluator and the
// eligibility gate into one order-composition flow, and emits an audit
// event for every mutation and every checkout decision. Events are an
// append-only trail; the cart of record stays in client-local storage.
type Session struct {
	store     *cart.Store
	evaluator *availability.Evaluator
	output    OutputDestination
	now       func() time.Time
}

func NewSession(store *cart.Store, evaluator *availability.Evaluator, output OutputDestination) *Session {
	return &Session{
		store:     store,
		evaluator: evaluator,
		output:    output,
		now:       time.Now,
	}
}

// AddItem resolves the option selection against the product and adds it to
// the cart. applied is false when a restaurant switch was declined.
func (s *Session) AddItem(restaurant *models.Restaurant, product *models.Product, optionItemIDs []string, qty int) (applied bool, err error) {
	options := product.SelectOptions(optionItemIDs)
	applied, err = s.store.AddItem(restaurant, product, options, qty)
	if err != nil || !applied {
		return applied, err
	}

	totals := s.store.Totals()
	item := models.CartItem{BasePriceCents: product.BasePriceCents, Options: options}
	s.emit(TopicCartItemAdded, &CartItemAddedEvent{
		BaseEvent:      s.base("CartItemAdded", restaurant.ID),
		ItemKey:        models.ItemKey(product.ID, options),
		ProductID:      product.ID,
		Qty:            int64(qty),
		UnitPriceCents: item.UnitPriceCents(),
		SubtotalCents:  totals.SubtotalCents,
		TotalItems:     int64(totals.TotalItems),
	})
	return true, nil
}

// RemoveItem deletes the line and records a removal event. An absent key
// leaves the cart untouched and emits nothing.
func (s *Session) RemoveItem(key string) error {
	restaurantID := s.restaurantID()
	removed, err := s.store.RemoveItem(key)
	if err != nil || !removed {
		return err
	}
	totals := s.store.Totals()
	s.emit(TopicCartItemRemoved, &CartItemRemovedEvent{
		BaseEvent:     s.base("CartItemRemoved", restaurantID),
		ItemKey:       key,
		SubtotalCents: totals.SubtotalCents,
		TotalItems:    int64(totals.TotalItems),
	})
	return nil
}

// SetQty replaces the line's quantity and records a quantity-change event.
// A quantity below one is a removal and is audited as one; a no-op on an
// absent key emits nothing.
func (s *Session) SetQty(key string, qty int) error {
	if qty < 1 {
		return s.RemoveItem(key)
	}
	restaurantID := s.restaurantID()
	changed, err := s.store.SetQty(key, qty)
	if err != nil || !changed {
		return err
	}
	totals := s.store.Totals()
	s.emit(TopicCartQtyChanged, &CartQtyChangedEvent{
		BaseEvent:     s.base("CartQtyChanged", restaurantID),
		ItemKey:       key,
		Qty:           int64(qty),
		SubtotalCents: totals.SubtotalCents,
		TotalItems:    int64(totals.TotalItems),
	})
	return nil
}

func (s *Session) Clear() error {
	restaurantID := s.restaurantID()
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.emit(TopicCartCleared, &CartClearedEvent{
		BaseEvent: s.base("CartCleared", restaurantID),
	})
	return nil
}

func (s *Session) Totals() models.CartTotals {
	return s.store.Totals()
}

func (s *Session) State() *models.CartState {
	return s.store.State()
}

// CheckEligibility runs the checkout gate for the given restaurant against
// the current cart: open state from the schedule, totals from the store,
// threshold from the restaurant profile.
func (s *Session) CheckEligibility(restaurant *models.Restaurant) models.EligibilityVerdict {
	open := s.evaluator.IsOpenAt(restaurant.Hours, restaurant.Override, s.now())
	totals := s.store.Totals()
	verdict := eligibility.Evaluate(totals, open, restaurant.MinOrderCents)

	reasons, _ := json.Marshal(verdict.Reasons)
	s.emit(TopicEligibilityCheck, &EligibilityCheckEvent{
		BaseEvent:      s.base("EligibilityCheck", restaurant.ID),
		Allowed:        verdict.Allowed,
		Reasons:        string(reasons),
		RestaurantOpen: open,
		SubtotalCents:  totals.SubtotalCents,
		TotalItems:     int64(totals.TotalItems),
		MinOrderCents:  restaurant.MinOrderCents,
	})
	return verdict
}

func (s *Session) Close() error {
	return s.output.Close()
}

func (s *Session) base(eventType, restaurantID string) BaseEvent {
	return BaseEvent{
		Timestamp:    s.now().Unix(),
		EventType:    eventType,
		RestaurantID: restaurantID,
	}
}

func (s *Session) restaurantID() string {
	if state := s.store.State(); state != nil {
		return state.RestaurantID
	}
	return ""
}

// emit serializes and writes the event. Sink failures are logged, not
// propagated: the audit trail never blocks a cart mutation that has
// already been persisted.
func (s *Session) emit(topic string, event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to serialize %s event: %v", topic, err)
		return
	}
	if err := s.output.WriteMessage(topic, msg); err != nil {
		log.Printf("Failed to write %s event: %v", topic, err)
	}
}

// WithClock overrides the session clock. Used by the demo replay and tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	if now != nil {
		s.now = now
	}
	return s
}
