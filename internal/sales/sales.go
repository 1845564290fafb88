// Package sales derives a synthetic sales history from a scraped catalog
// dataset. The generator is deterministic for a fixed seed and catalog.
package sales

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

const (
	minItemsPerDay = 5
	maxQuantity    = 3
)

// Generator draws simulated sales from an explicit pseudo-random source,
// so no process-wide random state leaks into the output.
type Generator struct {
	days           int
	maxItemsPerDay int
	rng            *rand.Rand
}

// NewGenerator builds a generator for a window of past days. Pass a seeded
// rand.Rand to make the output reproducible.
func NewGenerator(days, maxItemsPerDay int, rng *rand.Rand) *Generator {
	return &Generator{
		days:           days,
		maxItemsPerDay: maxItemsPerDay,
		rng:            rng,
	}
}

// Generate simulates sales for every day of the window, newest first. Each
// sale picks a random catalog row and a quantity in [1,3]; the amount is
// the line total rounded to cents. The per-day item cap is bounded by half
// the catalog size or the 5-item floor, whichever is larger.
func (g *Generator) Generate(ds *models.CatalogDataset, today time.Time) ([]models.Sale, error) {
	if ds == nil || len(ds.Records) == 0 {
		return nil, fmt.Errorf("no products to simulate sales from")
	}

	dailyCap := g.maxItemsPerDay
	if bound := max(minItemsPerDay, len(ds.Records)/2); dailyCap > bound {
		dailyCap = bound
	}
	if dailyCap < minItemsPerDay {
		dailyCap = minItemsPerDay
	}

	day := time.Date(today.UTC().Year(), today.UTC().Month(), today.UTC().Day(), 0, 0, 0, 0, time.UTC)

	var sales []models.Sale
	for i := 0; i < g.days; i++ {
		date := day.AddDate(0, 0, -i)
		items := minItemsPerDay + g.rng.Intn(dailyCap-minItemsPerDay+1)
		for j := 0; j < items; j++ {
			record := ds.Records[g.rng.Intn(len(ds.Records))]
			quantity := 1 + g.rng.Intn(maxQuantity)
			sales = append(sales, models.Sale{
				Date:      date,
				Title:     record.Title,
				Category:  record.Category,
				UnitPrice: record.Price,
				Quantity:  quantity,
				Amount:    roundCents(record.Price * float64(quantity)),
			})
		}
	}
	return sales, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
