package postgres

import (
	"context"
	"errors"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetProducts(ctx context.Context, restaurantID string) ([]*models.Product, error) {
	query := `
        SELECT id, restaurant_id, name, description, base_price_cents, category, available
        FROM products
        WHERE restaurant_id = $1
        ORDER BY category, name
    `

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*models.Product)
	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID,
			&product.RestaurantID,
			&product.Name,
			&product.Description,
			&product.BasePriceCents,
			&product.Category,
			&product.Available,
		)
		if err != nil {
			return nil, err
		}
		byID[product.ID] = product
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachOptionGroups(ctx, byID); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	query := `
        SELECT id, restaurant_id, name, description, base_price_cents, category, available
        FROM products
        WHERE id = $1
    `

	product := &models.Product{}
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&product.ID,
		&product.RestaurantID,
		&product.Name,
		&product.Description,
		&product.BasePriceCents,
		&product.Category,
		&product.Available,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachOptionGroups(ctx, map[string]*models.Product{product.ID: product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *CatalogRepository) attachOptionGroups(ctx context.Context, products map[string]*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}

	groupQuery := `
        SELECT id, product_id, name, min_select, max_select
        FROM option_groups
        WHERE product_id = ANY($1)
        ORDER BY product_id, name
    `
	rows, err := r.pool.Query(ctx, groupQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	groupsByID := make(map[string]*models.OptionGroup)
	var groups []*models.OptionGroup
	var groupIDs []string
	for rows.Next() {
		group := &models.OptionGroup{}
		err := rows.Scan(&group.ID, &group.ProductID, &group.Name, &group.MinSelect, &group.MaxSelect)
		if err != nil {
			return err
		}
		groupsByID[group.ID] = group
		groups = append(groups, group)
		groupIDs = append(groupIDs, group.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}

	itemQuery := `
        SELECT id, group_id, name, price_delta_cents
        FROM option_items
        WHERE group_id = ANY($1)
        ORDER BY group_id, name
    `
	itemRows, err := r.pool.Query(ctx, itemQuery, groupIDs)
	if err != nil {
		return err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.OptionItem{}
		err := itemRows.Scan(&item.ID, &item.GroupID, &item.Name, &item.PriceDeltaCents)
		if err != nil {
			return err
		}
		if group, exists := groupsByID[item.GroupID]; exists {
			group.Items = append(group.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	for _, group := range groups {
		if product, exists := products[group.ProductID]; exists {
			product.OptionGroups = append(product.OptionGroups, *group)
		}
	}
	return nil
}
