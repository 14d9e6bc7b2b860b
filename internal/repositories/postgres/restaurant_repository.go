package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	query := `
        SELECT id, name, slug_name, phone, town, cuisines, min_order_cents
        FROM restaurants
        WHERE slug_name = $1
    `

	restaurant := &models.Restaurant{}
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.SlugName,
		&restaurant.Phone,
		&restaurant.Town,
		&restaurant.Cuisines,
		&restaurant.MinOrderCents,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (r *RestaurantRepository) GetHours(ctx context.Context, restaurantID string) ([]models.RestaurantHours, error) {
	query := `
        SELECT restaurant_id, day_of_week, open_time::text, close_time::text, is_closed
        FROM restaurant_hours
        WHERE restaurant_id = $1
        ORDER BY day_of_week, open_time
    `

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []models.RestaurantHours
	for rows.Next() {
		var slot models.RestaurantHours
		err := rows.Scan(
			&slot.RestaurantID,
			&slot.DayOfWeek,
			&slot.OpenTime,
			&slot.CloseTime,
			&slot.IsClosed,
		)
		if err != nil {
			return nil, err
		}
		hours = append(hours, slot)
	}
	return hours, rows.Err()
}

func (r *RestaurantRepository) GetOverride(ctx context.Context, restaurantID string, date time.Time) (*models.RestaurantOverride, error) {
	query := `
        SELECT restaurant_id, date::text, is_closed, open_time::text, close_time::text
        FROM restaurant_special_days
        WHERE restaurant_id = $1 AND date = $2
    `

	override := &models.RestaurantOverride{}
	err := r.pool.QueryRow(ctx, query, restaurantID, date.Format("2006-01-02")).Scan(
		&override.RestaurantID,
		&override.Date,
		&override.IsClosed,
		&override.OpenTime,
		&override.CloseTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return override, nil
}
