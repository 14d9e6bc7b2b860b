package models

// Product is one orderable catalog entry for a restaurant.
type Product struct {
	ID             string        `json:"id"`
	RestaurantID   string        `json:"restaurant_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	BasePriceCents int64         `json:"base_price_cents"`
	Category       string        `json:"category"`
	Available      bool          `json:"available"`
	OptionGroups   []OptionGroup `json:"option_groups,omitempty"`
}

// OptionGroup bounds how many of its items may be selected for a product
// (e.g. "Size" with min 1 max 1, "Extras" with min 0 max 3).
type OptionGroup struct {
	ID        string       `json:"id"`
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	MinSelect int          `json:"min_select"`
	MaxSelect int          `json:"max_select"`
	Items     []OptionItem `json:"items,omitempty"`
}

// OptionItem is one selectable choice, priced as a signed delta on the
// product's base price.
type OptionItem struct {
	ID              string `json:"id"`
	GroupID         string `json:"group_id"`
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

// SelectOptions resolves a set of option item ids against the product's
// groups into CartOption values. Unknown ids are skipped; the caller's
// presentation layer enforces min/max selection rules before checkout.
func (p *Product) SelectOptions(itemIDs []string) []CartOption {
	if len(itemIDs) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var selected []CartOption
	for _, group := range p.OptionGroups {
		for _, item := range group.Items {
			if wanted[item.ID] {
				selected = append(selected, CartOption{
					GroupID:         group.ID,
					GroupName:       group.Name,
					ItemID:          item.ID,
					ItemName:        item.Name,
					PriceDeltaCents: item.PriceDeltaCents,
				})
			}
		}
	}
	return selected
}
