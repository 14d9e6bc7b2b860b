package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bitebank/ordercore/internal/availability"
	"github.com/bitebank/ordercore/internal/cart"
	"github.com/bitebank/ordercore/internal/models"
	"github.com/bitebank/ordercore/internal/repositories"
	"github.com/bitebank/ordercore/internal/repositories/postgres"
	"github.com/bitebank/ordercore/internal/session"
	"github.com/bitebank/ordercore/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [restaurant-slug]",
	Short: "Evaluate checkout eligibility for the locally stored cart",
	Long:  `check loads the restaurant profile, weekly hours and any override for today from the relational store, hydrates the cart from local storage, and prints the eligibility verdict. Exits 0 only when checkout is allowed.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		allowed, err := runCheck(cfg, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !allowed {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck reports whether checkout is allowed. The exit code decision is
// left to the caller so the deferred session and pool cleanup, which flush
// the audit sink, always run first.
func runCheck(cfg *models.Config, slug string) (allowed bool, err error) {
	ctx := context.Background()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return false, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var restaurants repositories.RestaurantRepository = postgres.NewRestaurantRepository(pool)
	restaurant, err := restaurants.GetBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("failed to load restaurant %s: %w", slug, err)
	}
	if restaurant == nil {
		return false, fmt.Errorf("restaurant %s not found", slug)
	}

	location := cfg.Location()
	now := time.Now().In(location)

	restaurant.Hours, err = restaurants.GetHours(ctx, restaurant.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load hours for %s: %w", slug, err)
	}
	restaurant.Override, err = restaurants.GetOverride(ctx, restaurant.ID, now)
	if err != nil {
		return false, fmt.Errorf("failed to load override for %s: %w", slug, err)
	}

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		return false, err
	}
	store := cart.NewStore(fileStore, cfg.CartStorageKey, nil)
	if err := store.Hydrate(); err != nil {
		return false, err
	}

	output, err := session.DetermineOutput(cfg)
	if err != nil {
		return false, err
	}
	sess := session.NewSession(store, availability.NewEvaluator(location), output)
	defer sess.Close()

	verdict := sess.CheckEligibility(restaurant)
	totals := sess.Totals()

	fmt.Printf("Restaurant: %s (%s)\n", restaurant.Name, restaurant.SlugName)
	fmt.Printf("Cart: %d items, subtotal %s\n", totals.TotalItems, models.FormatCents(totals.SubtotalCents))
	fmt.Printf("Minimum order: %s\n", models.FormatCents(restaurant.MinOrderCents))
	if verdict.Allowed {
		fmt.Println("Checkout: allowed")
		return true, nil
	}
	fmt.Printf("Checkout: blocked %v\n", verdict.Reasons)
	return false, nil
}
