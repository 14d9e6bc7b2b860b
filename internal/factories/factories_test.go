package factories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantFactoryDeterministicForSeed(t *testing.T) {
	a := NewRestaurantFactory(42).CreateRestaurant()
	b := NewRestaurantFactory(42).CreateRestaurant()

	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.SlugName, b.SlugName)
	assert.Equal(t, a.Town, b.Town)
	assert.Equal(t, a.Cuisines, b.Cuisines)
	assert.Equal(t, a.MinOrderCents, b.MinOrderCents)
}

func TestCatalogFactoryDeterministicForSeed(t *testing.T) {
	a := NewCatalogFactory(42)
	b := NewCatalogFactory(42)

	for i := 0; i < 10; i++ {
		pa := a.CreateProduct("rest-1")
		pb := b.CreateProduct("rest-1")
		assert.Equal(t, pa.Name, pb.Name)
		assert.Equal(t, pa.Category, pb.Category)
		assert.Equal(t, pa.BasePriceCents, pb.BasePriceCents)
		assert.Equal(t, len(pa.OptionGroups), len(pb.OptionGroups))
	}
}

func TestRestaurantFactoryHoursCoverWeek(t *testing.T) {
	restaurant := NewRestaurantFactory(7).CreateRestaurant()

	days := make(map[int]bool)
	for _, h := range restaurant.Hours {
		days[h.DayOfWeek] = true
	}
	for day := 0; day <= 6; day++ {
		assert.True(t, days[day], "day %d has an hours row", day)
	}
}

func TestSlugsAreUniquePerFactory(t *testing.T) {
	factory := NewRestaurantFactory(42)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		restaurant := factory.CreateRestaurant()
		require.False(t, seen[restaurant.SlugName], "slug %s repeated", restaurant.SlugName)
		seen[restaurant.SlugName] = true
	}
}
