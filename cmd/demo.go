package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bitebank/ordercore/internal/availability"
	"github.com/bitebank/ordercore/internal/cart"
	"github.com/bitebank/ordercore/internal/factories"
	"github.com/bitebank/ordercore/internal/models"
	"github.com/bitebank/ordercore/internal/session"
	"github.com/bitebank/ordercore/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay a generated ordering session against local storage",
	Long:  `demo factory-generates a restaurant with weekly hours and a catalog with option groups, replays a scripted cart session, and finishes with an eligibility check. Audit events go to the configured sink.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := runDemo(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	demoCmd.Flags().Int("demo-products", 12, "Number of catalog products to generate")
	demoCmd.Flags().Int("demo-actions", 20, "Number of cart actions to replay")
	viper.BindPFlag("demo_products", demoCmd.Flags().Lookup("demo-products"))
	viper.BindPFlag("demo_actions", demoCmd.Flags().Lookup("demo-actions"))

	rootCmd.AddCommand(demoCmd)
}

func runDemo(cfg *models.Config) error {
	if cfg.DemoProducts < 1 {
		cfg.DemoProducts = 12
	}
	if cfg.DemoActions < 1 {
		cfg.DemoActions = 20
	}

	// A configured seed makes the generated restaurant and catalog
	// reproducible across runs; zero means a fresh session every time.
	seed := int64(cfg.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	restaurantFactory := factories.NewRestaurantFactory(seed)
	catalogFactory := factories.NewCatalogFactory(seed)

	restaurant := restaurantFactory.CreateRestaurant()
	products := make([]*models.Product, 0, cfg.DemoProducts)
	for i := 0; i < cfg.DemoProducts; i++ {
		products = append(products, catalogFactory.CreateProduct(restaurant.ID))
	}

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		return err
	}
	store := cart.NewStore(fileStore, cfg.CartStorageKey, func(current *models.CartState, next *models.Restaurant) bool {
		fmt.Printf("Discarding cart for %s in favour of %s\n", current.RestaurantName, next.Name)
		return true
	})
	if err := store.Hydrate(); err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}

	output, err := session.DetermineOutput(cfg)
	if err != nil {
		return err
	}
	sess := session.NewSession(store, availability.NewEvaluator(cfg.Location()), output)
	defer sess.Close()

	bar := progressbar.Default(int64(cfg.DemoActions), "replaying session")
	for i := 0; i < cfg.DemoActions; i++ {
		product := products[i%len(products)]
		var optionIDs []string
		for _, group := range product.OptionGroups {
			if len(group.Items) > 0 {
				optionIDs = append(optionIDs, group.Items[0].ID)
			}
		}
		if _, err := sess.AddItem(restaurant, product, optionIDs, 1+i%3); err != nil {
			return err
		}
		bar.Add(1)
	}

	verdict := sess.CheckEligibility(restaurant)
	totals := sess.Totals()
	fmt.Printf("\nSession complete: %d items, subtotal %s, min order %s\n",
		totals.TotalItems, models.FormatCents(totals.SubtotalCents), models.FormatCents(restaurant.MinOrderCents))
	if verdict.Allowed {
		fmt.Println("Checkout would be allowed")
	} else {
		fmt.Printf("Checkout blocked: %v\n", verdict.Reasons)
	}
	return nil
}
