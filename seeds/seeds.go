package seeds

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoStore is a seeded store and the key to call it with.
type DemoStore struct {
	ID     string
	APIKey string
	Plan   domain.PlanTier
	Legacy bool
}

// Stores is one store per plan tier plus a legacy store without plan tracking.
var Stores = []DemoStore{
	{ID: "store-free", APIKey: "demo-key-free", Plan: domain.PlanFree},
	{ID: "store-starter", APIKey: "demo-key-starter", Plan: domain.PlanStarter},
	{ID: "store-professional", APIKey: "demo-key-professional", Plan: domain.PlanProfessional},
	{ID: "store-agency", APIKey: "demo-key-agency", Plan: domain.PlanAgency},
	{ID: "store-legacy", APIKey: "demo-key-legacy", Plan: domain.PlanFree, Legacy: true},
}

type category struct {
	name      string
	basePrice float64
	names     []string
}

var categories = []category{
	{"Running Shoes", 90, []string{"Trail Runner", "Road Racer", "Carbon Sprint", "Daily Trainer", "Stability Max", "Minimal Glide", "Winter Grip", "Track Spike"}},
	{"Apparel", 35, []string{"Tech Tee", "Wind Jacket", "Split Shorts", "Thermal Tights", "Rain Shell", "Merino Base Layer", "Race Singlet", "Hoodie"}},
	{"Accessories", 15, []string{"Running Socks", "Cap", "Sweatband", "Arm Sleeves", "Buff", "Gloves", "Sunglasses", "Reflective Vest"}},
	{"Outdoor Gear", 60, []string{"Hydration Vest", "Headlamp", "Trekking Poles", "Water Bottle", "Belt Pack", "GPS Watch", "Emergency Blanket", "First Aid Kit"}},
	{"Nutrition", 8, []string{"Energy Gel", "Electrolyte Tabs", "Protein Bar", "Recovery Shake", "Caffeine Chews", "Oat Bar", "Salt Caps", "Isotonic Mix"}},
}

func Setup(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	rng := rand.New(rand.NewSource(42))
	logger = logger.With("component", "seed")

	// Truncate existing data before insert
	logger.Info("truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE events, interactions, products, stores CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	logger.Info("inserting stores", "count", len(Stores))
	if err := seedStores(ctx, pool, time.Now().UTC()); err != nil {
		return fmt.Errorf("seed stores: %w", err)
	}

	products := generateProducts(rng)
	logger.Info("inserting products", "count", len(products), "stores", len(Stores))
	for _, s := range Stores {
		if err := seedProducts(ctx, pool, s.ID, products); err != nil {
			return fmt.Errorf("seed products for %s: %w", s.ID, err)
		}
	}

	logger.Info("seeding complete")
	return nil
}

func seedStores(ctx context.Context, pool *pgxpool.Pool, now time.Time) error {
	rows := []string{}
	args := []any{}

	for _, s := range Stores {
		var (
			pagesPerMonth, maxProducts, maxStores, popups, pagesGenerated *int
			lastReset, periodStart, periodEnd                             *time.Time
		)
		if !s.Legacy {
			limits := domain.PlanLimitsFor(s.Plan)
			usage := domain.NewUsage(now)
			pagesPerMonth, maxProducts = &limits.PagesPerMonth, &limits.MaxProducts
			maxStores, popups = &limits.MaxStores, &limits.PopupsPerMonth
			pagesGenerated = &usage.PagesGenerated
			lastReset, periodStart, periodEnd = &usage.LastResetDate, &usage.CurrentPeriodStart, &usage.CurrentPeriodEnd
		}

		base := len(args)
		placeholders := make([]string, 13)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			s.ID, "Demo "+strings.TrimPrefix(s.ID, "store-"), s.APIKey, string(s.Plan), "https://"+s.ID+".example",
			pagesPerMonth, maxProducts, maxStores, popups, pagesGenerated, lastReset, periodStart, periodEnd,
		)
	}

	query := `INSERT INTO stores (id, name, api_key, plan, wordpress_url,
		pages_per_month, max_products, max_stores, popups_per_month,
		pages_generated, last_reset_at, period_start, period_end) VALUES ` + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func generateProducts(rng *rand.Rand) []domain.Product {
	var products []domain.Product
	id := 100
	for _, c := range categories {
		for _, name := range c.names {
			id++
			// price varies +-40% around the category base
			price := math.Round(c.basePrice*(0.6+rng.Float64()*0.8)*100) / 100
			stock := rng.Intn(120)
			products = append(products, domain.Product{
				ID:       domain.ProductID(fmt.Sprintf("%d", id)),
				Name:     name,
				Category: c.name,
				Price:    domain.NewPrice(price),
				Currency: "EUR",
				Stock:    &stock,
			})
		}
	}
	return products
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, storeID string, products []domain.Product) error {
	rows := []string{}
	args := []any{}

	for _, p := range products {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, storeID, p.ID.String(), p.Name, p.Category, p.Price.Amount, p.Currency, *p.Stock)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO products (store_id, id, name, category, price, currency, stock) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}
