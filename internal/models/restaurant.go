package models

// Restaurant is the ordering profile the core reads: identity, the
// minimum-order threshold, the weekly schedule and an optional per-date
// override. The admin console owns and mutates all of it; the core only
// consumes the snapshot.
type Restaurant struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	SlugName      string              `json:"slug_name"`
	Phone         string              `json:"phone"`
	Town          string              `json:"town"`
	Cuisines      []string            `json:"cuisines"`
	MinOrderCents int64               `json:"min_order_cents"`
	Hours         []RestaurantHours   `json:"hours,omitempty"`
	Override      *RestaurantOverride `json:"override,omitempty"`
}
