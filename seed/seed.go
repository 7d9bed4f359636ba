// Package seed fills a store with demo products whose sales histories follow a
// normal demand model.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/yaml.v3"

	"inventory/analytics"
	"inventory/database"
	"inventory/logging"
	"inventory/models"
)

// HistoryDays is the length of generated sales histories.
const HistoryDays = 30

//go:embed catalog.yaml
var defaultCatalog []byte

// Template describes a demo product.
type Template struct {
	Name         string  `yaml:"name"`
	AvgDemand    int     `yaml:"avg_demand"`
	Volatility   float64 `yaml:"volatility"`
	LeadTime     int     `yaml:"lead_time"`
	ServiceLevel float64 `yaml:"service_level"`
}

type catalog struct {
	Products []Template `yaml:"products"`
}

// LoadCatalog parses a YAML product catalog.
func LoadCatalog(data []byte) ([]Template, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, t := range c.Products {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if t.AvgDemand < 0 || t.Volatility < 0 {
			return nil, fmt.Errorf("catalog entry %q: demand and volatility must be non-negative", t.Name)
		}
		if t.LeadTime < 1 {
			return nil, fmt.Errorf("catalog entry %q: lead time must be positive", t.Name)
		}
	}
	return c.Products, nil
}

// DefaultCatalog returns the embedded demo catalog.
func DefaultCatalog() []Template {
	templates, err := LoadCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return templates
}

// GenerateSalesHistory draws days of normally distributed demand with mean
// avgDemand and standard deviation avgDemand*volatility. Draws are rounded half to
// even and clamped at zero.
func GenerateSalesHistory(avgDemand int, volatility float64, days int, src rand.Source) analytics.SalesHistory {
	dist := distuv.Normal{
		Mu:    float64(avgDemand),
		Sigma: float64(avgDemand) * volatility,
		Src:   src,
	}

	history := make(analytics.SalesHistory, days)
	for i := range history {
		history[i] = math.Max(0, math.RoundToEven(dist.Rand()))
	}
	return history
}

// Seeder replaces the contents of a store with generated demo products.
type Seeder struct {
	store  database.Store
	rng    *rand.Rand
	src    rand.Source
	logger *logging.Logger
	now    func() time.Time
}

func NewSeeder(store database.Store, seed uint64, logger *logging.Logger) *Seeder {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Seeder{
		store:  store,
		rng:    rand.New(src),
		src:    src,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Product builds a product from a template. The starting quantity is uniform in
// [avg, avg*leadTime*2].
func (s *Seeder) Product(t Template) models.Product {
	lo := t.AvgDemand
	hi := max(lo, t.AvgDemand*t.LeadTime*2)
	now := s.now()

	return models.Product{
		ID:           uuid.NewString(),
		Name:         t.Name,
		Quantity:     lo + s.rng.IntN(hi-lo+1),
		LeadTime:     t.LeadTime,
		ServiceLevel: t.ServiceLevel,
		SalesHistory: GenerateSalesHistory(t.AvgDemand, t.Volatility, HistoryDays, s.src),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Run clears users, suppliers, products and orders, then inserts one product per
// template.
func (s *Seeder) Run(ctx context.Context, templates []Template) ([]models.Product, error) {
	if len(templates) == 0 {
		return nil, errors.New("catalog is empty")
	}

	s.logger.Info("Clearing existing data")
	if err := s.store.Reset(ctx); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(templates))
	for _, t := range templates {
		p := s.Product(t)
		if err := s.store.CreateProduct(ctx, &p); err != nil {
			return nil, fmt.Errorf("failed to insert %q: %w", t.Name, err)
		}
		products = append(products, p)
	}

	s.logger.Info("Seeded demo products", "count", len(products))
	return products, nil
}
