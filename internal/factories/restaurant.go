package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type RestaurantFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	slugCache sync.Map // to track used slugs
}

// NewRestaurantFactory builds a factory whose generated data is fully
// determined by the seed.
func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// CreateRestaurant builds a demo restaurant with a plausible weekly
// schedule: split lunch/dinner service on weekdays and an overnight slot on
// Friday and Saturday, which exercises the midnight-crossing path.
func (rf *RestaurantFactory) CreateRestaurant() *models.Restaurant {
	name := rf.fake.Company().Name()

	restaurant := &models.Restaurant{
		ID:            cuid.New(),
		Name:          name,
		SlugName:      rf.createUniqueSlug(name),
		Phone:         rf.fake.Phone().Number(),
		Town:          rf.fake.Address().City(),
		Cuisines:      generateRandomCuisines(rf.rng),
		MinOrderCents: int64(rf.fake.IntBetween(5, 20)) * 100,
	}
	restaurant.Hours = generateWeeklyHours(restaurant.ID)
	return restaurant
}

func generateWeeklyHours(restaurantID string) []models.RestaurantHours {
	var hours []models.RestaurantHours
	for day := 0; day <= 6; day++ {
		switch day {
		case 5, 6: // Friday, Saturday: evening service running past midnight
			hours = append(hours, models.RestaurantHours{
				RestaurantID: restaurantID,
				DayOfWeek:    day,
				OpenTime:     "19:00:00",
				CloseTime:    "02:00:00",
			})
		case 0: // Sunday
			hours = append(hours, models.RestaurantHours{
				RestaurantID: restaurantID,
				DayOfWeek:    day,
				IsClosed:     true,
			})
		default:
			hours = append(hours,
				models.RestaurantHours{
					RestaurantID: restaurantID,
					DayOfWeek:    day,
					OpenTime:     "12:00:00",
					CloseTime:    "15:00:00",
				},
				models.RestaurantHours{
					RestaurantID: restaurantID,
					DayOfWeek:    day,
					OpenTime:     "18:00:00",
					CloseTime:    "22:30:00",
				},
			)
		}
	}
	return hours
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

func generateRandomCuisines(rng *rand.Rand) []string {
	allCuisines := []string{"Italian", "Cafe", "Indian", "American", "Japanese", "Mexican", "Chinese", "Thai", "Vietnamese", "Greek", "French", "Mediterranean", "Fast Food", "Street Food"}
	cuisineCount := rng.Intn(3) + 1
	cuisines := make([]string, cuisineCount)
	for i := 0; i < cuisineCount; i++ {
		cuisines[i] = allCuisines[rng.Intn(len(allCuisines))]
	}
	return cuisines
}
