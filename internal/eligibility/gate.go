package eligibility

import "github.com/bitebank/ordercore/internal/models"

// Evaluate combines the cart totals, the restaurant's open state and its
// minimum-order threshold into the checkout-permission verdict. Reasons are
// independent and cumulative: a closed restaurant with an under-threshold
// cart reports both, so the presentation layer can show every blocking
// condition at once. The gate is consulted, not driven: it takes no action
// and has no side effects.
func Evaluate(totals models.CartTotals, restaurantOpen bool, minOrderCents int64) models.EligibilityVerdict {
	var reasons []string
	if totals.TotalItems == 0 {
		reasons = append(reasons, models.ReasonEmptyCart)
	}
	if !restaurantOpen {
		reasons = append(reasons, models.ReasonRestaurantClosed)
	}
	if totals.SubtotalCents < minOrderCents {
		reasons = append(reasons, models.ReasonBelowMinOrder)
	}
	return models.EligibilityVerdict{
		Allowed: len(reasons) == 0,
		Reasons: reasons,
	}
}
