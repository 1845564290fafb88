package sales

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

func fixtureDataset(n int) *models.CatalogDataset {
	records := make([]models.BookRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.BookRecord{
			BookSummary: models.BookSummary{
				Title:      "Book " + string(rune('A'+i)),
				Price:      10.99 + float64(i),
				StockCount: i,
				DetailURL:  "https://test.local/catalogue/book.html",
			},
			Category: "Fiction",
		})
	}
	return &models.CatalogDataset{
		Records:        records,
		ExtractionDate: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		RunID:          "test-run",
	}
}

func TestGenerateIsDeterministicForFixedSeed(t *testing.T) {
	ds := fixtureDataset(20)
	today := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

	first, err := NewGenerator(60, 30, rand.New(rand.NewSource(42))).Generate(ds, today)
	require.NoError(t, err)
	second, err := NewGenerator(60, 30, rand.New(rand.NewSource(42))).Generate(ds, today)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	ds := fixtureDataset(20)
	today := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

	a, err := NewGenerator(60, 30, rand.New(rand.NewSource(1))).Generate(ds, today)
	require.NoError(t, err)
	b, err := NewGenerator(60, 30, rand.New(rand.NewSource(2))).Generate(ds, today)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerateRowInvariants(t *testing.T) {
	ds := fixtureDataset(12)
	today := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

	rows, err := NewGenerator(30, 30, rand.New(rand.NewSource(7))).Generate(ds, today)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Quantity, 1)
		assert.LessOrEqual(t, row.Quantity, 3)
		expected := math.Round(row.UnitPrice*float64(row.Quantity)*100) / 100
		assert.Equal(t, expected, row.Amount)
		assert.NotEmpty(t, row.Title)
		assert.Equal(t, "Fiction", row.Category)
		assert.False(t, row.Date.After(today))
	}
}

func TestGenerateCoversTheWholeWindow(t *testing.T) {
	ds := fixtureDataset(10)
	today := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	days := 14

	rows, err := NewGenerator(days, 30, rand.New(rand.NewSource(3))).Generate(ds, today)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.Date.Format("2006-01-02")] = true
	}
	// At least 5 sales per day means every day of the window appears.
	assert.Len(t, seen, days)
}

func TestGenerateCapsItemsPerDay(t *testing.T) {
	// A 6-item catalog bounds the daily cap at max(5, 3) = 5.
	ds := fixtureDataset(6)
	today := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	rows, err := NewGenerator(10, 30, rand.New(rand.NewSource(11))).Generate(ds, today)
	require.NoError(t, err)

	perDay := make(map[string]int)
	for _, row := range rows {
		perDay[row.Date.Format("2006-01-02")]++
	}
	for day, count := range perDay {
		assert.Equal(t, 5, count, day)
	}
}

func TestGenerateEmptyCatalogFails(t *testing.T) {
	_, err := NewGenerator(10, 30, rand.New(rand.NewSource(1))).Generate(&models.CatalogDataset{}, time.Now())
	require.Error(t, err)

	_, err = NewGenerator(10, 30, rand.New(rand.NewSource(1))).Generate(nil, time.Now())
	require.Error(t, err)
}
