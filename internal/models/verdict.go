package models

// Eligibility reasons block checkout. They are ordinary values, not errors:
// a closed restaurant or a thin cart is a user-facing state, and several
// reasons may hold at once so the UI can surface all of them together.
const (
	ReasonEmptyCart        = "EMPTY_CART"
	ReasonRestaurantClosed = "RESTAURANT_CLOSED"
	ReasonBelowMinOrder    = "BELOW_MIN_ORDER"
)

// EligibilityVerdict is the checkout-permission decision. Allowed is true
// iff Reasons is empty.
type EligibilityVerdict struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons"`
}

func (v EligibilityVerdict) HasReason(reason string) bool {
	for _, r := range v.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
