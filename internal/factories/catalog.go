package factories

import (
	"math/rand"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type CatalogFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

// NewCatalogFactory builds a factory whose generated data is fully
// determined by the seed.
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

var productCategories = []string{"Starters", "Mains", "Sides", "Desserts", "Drinks"}

// CreateProduct builds a demo product priced in whole tens of cents, with a
// size group on mains and an optional extras group.
func (cf *CatalogFactory) CreateProduct(restaurantID string) *models.Product {
	category := productCategories[cf.rng.Intn(len(productCategories))]
	product := &models.Product{
		ID:             cuid.New(),
		RestaurantID:   restaurantID,
		Name:           generateRandomDish(cf.rng, category),
		Description:    cf.fake.Lorem().Sentence(8),
		BasePriceCents: int64(cf.fake.IntBetween(35, 180)) * 10,
		Category:       category,
		Available:      true,
	}

	if category == "Mains" {
		product.OptionGroups = append(product.OptionGroups, cf.createSizeGroup(product.ID))
		if cf.rng.Intn(2) == 0 {
			product.OptionGroups = append(product.OptionGroups, cf.createExtrasGroup(product.ID))
		}
	}
	return product
}

func generateRandomDish(rng *rand.Rand, category string) string {
	dishes := map[string][]string{
		"Starters": {"Garlic Bread", "Bruschetta", "Spring Rolls", "Halloumi Fries"},
		"Mains":    {"Margherita Pizza", "Chicken Tikka Masala", "Pad Thai", "Classic Cheeseburger", "Spaghetti Carbonara"},
		"Sides":    {"Skin-on Fries", "House Salad", "Onion Rings", "Steamed Rice"},
		"Desserts": {"Tiramisu", "Baklava", "Chocolate Brownie", "Mango Sticky Rice"},
		"Drinks":   {"Fresh Lemonade", "Mango Lassi", "Sparkling Water", "Iced Coffee"},
	}
	if names, ok := dishes[category]; ok {
		return names[rng.Intn(len(names))]
	}
	return "Special of the Day"
}

func (cf *CatalogFactory) createSizeGroup(productID string) models.OptionGroup {
	group := models.OptionGroup{
		ID:        cuid.New(),
		ProductID: productID,
		Name:      "Size",
		MinSelect: 1,
		MaxSelect: 1,
	}
	group.Items = []models.OptionItem{
		{ID: cuid.New(), GroupID: group.ID, Name: "Regular", PriceDeltaCents: 0},
		{ID: cuid.New(), GroupID: group.ID, Name: "Large", PriceDeltaCents: 250},
	}
	return group
}

func (cf *CatalogFactory) createExtrasGroup(productID string) models.OptionGroup {
	group := models.OptionGroup{
		ID:        cuid.New(),
		ProductID: productID,
		Name:      "Extras",
		MinSelect: 0,
		MaxSelect: 3,
	}
	extras := []struct {
		name  string
		delta int64
	}{
		{"Extra Cheese", 120},
		{"Chilli Flakes", 0},
		{"Side Sauce", 80},
	}
	for _, extra := range extras {
		group.Items = append(group.Items, models.OptionItem{
			ID:              cuid.New(),
			GroupID:         group.ID,
			Name:            extra.name,
			PriceDeltaCents: extra.delta,
		})
	}
	return group
}
