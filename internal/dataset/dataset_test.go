package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

func record(title, category string, rating *int) models.BookRecord {
	return models.BookRecord{
		BookSummary: models.BookSummary{
			Title:      title,
			Price:      12.5,
			StockCount: 4,
			Rating:     rating,
			DetailURL:  "https://test.local/catalogue/" + title + ".html",
		},
		Category: category,
	}
}

func TestAssembleEmptyInputFails(t *testing.T) {
	_, err := Assemble(nil, time.Now())
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ElementsMatch(t, RequiredColumns, valErr.Missing)
}

func TestAssembleSucceedsWithAllRatingsAbsent(t *testing.T) {
	records := []models.BookRecord{
		record("one", "Poetry", nil),
		record("two", "Fiction", nil),
	}

	ds, err := Assemble(records, time.Now())
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Nil(t, ds.Records[0].Rating)
	assert.Nil(t, ds.Records[1].Rating)
}

func TestAssembleStampsSharedDateAndRunID(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))
	rating := 4
	ds, err := Assemble([]models.BookRecord{record("one", "Poetry", &rating)}, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), ds.ExtractionDate)
	assert.NotEmpty(t, ds.RunID)
}

func TestAssembleBackfillsCategorySentinel(t *testing.T) {
	ds, err := Assemble([]models.BookRecord{record("one", "", nil)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.UnknownCategory, ds.Records[0].Category)
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	records := []models.BookRecord{record("one", "", nil)}
	_, err := Assemble(records, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "", records[0].Category)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.June, 1, 23, 59, 59, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
