package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/bitebank/ordercore/internal/repositories"
	"github.com/bitebank/ordercore/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu [restaurant-slug]",
	Short: "Print a restaurant's catalog snapshot",
	Long:  `menu loads the restaurant's products with their option groups from the relational store and prints them with cent-accurate prices, the same snapshot the cart composes items from.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := runMenu(cfg, args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cfg *models.Config, slug string) error {
	ctx := context.Background()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var restaurants repositories.RestaurantRepository = postgres.NewRestaurantRepository(pool)
	restaurant, err := restaurants.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load restaurant %s: %w", slug, err)
	}
	if restaurant == nil {
		return fmt.Errorf("restaurant %s not found", slug)
	}

	var catalog repositories.CatalogRepository = postgres.NewCatalogRepository(pool)
	products, err := catalog.GetProducts(ctx, restaurant.ID)
	if err != nil {
		return fmt.Errorf("failed to load catalog for %s: %w", slug, err)
	}

	fmt.Printf("%s: %d products, minimum order %s\n", restaurant.Name, len(products), models.FormatCents(restaurant.MinOrderCents))
	for _, product := range products {
		fmt.Printf("  [%s] %s  %s\n", product.Category, product.Name, models.FormatCents(product.BasePriceCents))
		for _, group := range product.OptionGroups {
			fmt.Printf("    %s (select %d-%d):\n", group.Name, group.MinSelect, group.MaxSelect)
			for _, item := range group.Items {
				fmt.Printf("      %s %+d\n", item.Name, item.PriceDeltaCents)
			}
		}
	}
	return nil
}
