package models

import (
	"sort"
	"strings"
)

// CartOption is one selected choice inside a product's option group. The
// price delta is signed; zero-delta options still participate in item
// identity.
type CartOption struct {
	GroupID         string `json:"group_id"`
	GroupName       string `json:"group_name"`
	ItemID          string `json:"item_id"`
	ItemName        string `json:"item_name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

// CartItem is one line in the cart. Key identifies the product plus its
// exact option selection; two additions with the same product and option
// set collapse into one line regardless of selection order.
type CartItem struct {
	Key            string       `json:"key"`
	ProductID      string       `json:"product_id"`
	Name           string       `json:"name"`
	BasePriceCents int64        `json:"base_price_cents"`
	Qty            int          `json:"qty"`
	Options        []CartOption `json:"options"`
	ItemTotalCents int64        `json:"item_total_cents"`
}

// CartState is the single active cart. All items belong to the same
// restaurant. An empty item list is never persisted; the cart collapses to
// absent instead.
type CartState struct {
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantSlug string     `json:"restaurant_slug"`
	RestaurantName string     `json:"restaurant_name"`
	Items          []CartItem `json:"items"`
}

type CartTotals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TotalItems    int   `json:"total_items"`
}

// ItemKey derives the deterministic line identity for a product and option
// selection. Option item ids are sorted before joining so selection order
// never changes the key.
func ItemKey(productID string, options []CartOption) string {
	if len(options) == 0 {
		return productID
	}
	ids := make([]string, len(options))
	for i, opt := range options {
		ids[i] = opt.ItemID
	}
	sort.Strings(ids)
	return productID + ":" + strings.Join(ids, "+")
}

// UnitPriceCents is the per-unit price of the line: base price plus the sum
// of the selected option deltas.
func (ci *CartItem) UnitPriceCents() int64 {
	unit := ci.BasePriceCents
	for _, opt := range ci.Options {
		unit += opt.PriceDeltaCents
	}
	return unit
}

// Recompute restores the item total invariant from the item's own unit
// price and quantity. Called after every quantity mutation.
func (ci *CartItem) Recompute() {
	ci.ItemTotalCents = ci.UnitPriceCents() * int64(ci.Qty)
}

// Totals sums the line totals and quantities. A nil state reports zeros.
func (cs *CartState) Totals() CartTotals {
	if cs == nil {
		return CartTotals{}
	}
	var totals CartTotals
	for i := range cs.Items {
		totals.SubtotalCents += cs.Items[i].ItemTotalCents
		totals.TotalItems += cs.Items[i].Qty
	}
	return totals
}

// FindItem returns the index of the line with the given key, or -1.
func (cs *CartState) FindItem(key string) int {
	for i := range cs.Items {
		if cs.Items[i].Key == key {
			return i
		}
	}
	return -1
}

// Validate reports whether the state satisfies the cart invariants: at
// least one item, a restaurant id, all items on that restaurant, positive
// quantities and consistent line totals. Hydration discards snapshots that
// fail this check.
func (cs *CartState) Validate() bool {
	if cs == nil || cs.RestaurantID == "" || len(cs.Items) == 0 {
		return false
	}
	for i := range cs.Items {
		item := &cs.Items[i]
		if item.Qty < 1 || item.Key == "" {
			return false
		}
		if item.ItemTotalCents != item.UnitPriceCents()*int64(item.Qty) {
			return false
		}
	}
	return true
}
