package repositories

import (
	"context"
	"time"

	"github.com/bitebank/ordercore/internal/models"
)

// Read-side adapters over the relational store. The admin console owns the
// schema and all writes; the core only reads snapshots through these.

type RestaurantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	GetHours(ctx context.Context, restaurantID string) ([]models.RestaurantHours, error)
	GetOverride(ctx context.Context, restaurantID string, date time.Time) (*models.RestaurantOverride, error)
}

type CatalogRepository interface {
	GetProducts(ctx context.Context, restaurantID string) ([]*models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}
