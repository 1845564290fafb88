// Package dataset assembles enriched records into the final tabular
// result of a scrape run.
package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

// RequiredColumns must each be populated by at least one record or
// assembly fails. Category is not required: it is backfilled with the
// sentinel instead.
var RequiredColumns = []string{"title", "price", "stock_count", "rating", "detail_url"}

// ValidationError reports required columns that are missing from the
// whole dataset.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Assemble merges records into one dataset, stamping a single date-only
// UTC extraction timestamp and a run id shared by all rows. It fails with
// a *ValidationError when a required column is absent from every record;
// a nil rating on individual rows is fine as long as the column carries a
// value somewhere. Empty categories are replaced with the sentinel.
func Assemble(records []models.BookRecord, now time.Time) (*models.CatalogDataset, error) {
	if missing := missingColumns(records); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	rows := make([]models.BookRecord, len(records))
	copy(rows, records)
	for i := range rows {
		if rows[i].Category == "" {
			rows[i].Category = models.UnknownCategory
		}
	}

	return &models.CatalogDataset{
		Records:        rows,
		ExtractionDate: DateOnly(now),
		RunID:          uuid.New().String(),
	}, nil
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// missingColumns flags a column only when no record at all populates it.
// An empty input has no columns, so everything is missing. Numeric columns
// and rating are carried by every record (nil rating is a legal value), so
// validation operates on columns, not rows.
func missingColumns(records []models.BookRecord) []string {
	if len(records) == 0 {
		missing := make([]string, len(RequiredColumns))
		copy(missing, RequiredColumns)
		return missing
	}

	present := map[string]bool{
		"price":       true,
		"stock_count": true,
		"rating":      true,
	}
	for _, r := range records {
		if r.Title != "" {
			present["title"] = true
		}
		if r.DetailURL != "" {
			present["detail_url"] = true
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	return missing
}
