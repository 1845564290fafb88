package models

import (
	"time"
)

// UnknownCategory is substituted whenever a detail page cannot be
// navigated or its breadcrumb trail does not carry a category segment.
const UnknownCategory = "Unknown"

// BookSummary is one product card as extracted from a catalog page.
// Summaries are immutable after extraction; the only later mutation is
// attaching the category during enrichment.
type BookSummary struct {
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	StockCount int     `json:"stock_count"`
	Rating     *int    `json:"rating,omitempty"`
	DetailURL  string  `json:"detail_url"`
}

// BookRecord is a summary enriched with its breadcrumb category.
type BookRecord struct {
	BookSummary
	Category string `json:"category"`
}

// CatalogDataset is the final tabular result of one scrape run. All rows
// share a single date-only UTC extraction timestamp.
type CatalogDataset struct {
	Records        []BookRecord `json:"records"`
	ExtractionDate time.Time    `json:"extraction_date"`
	RunID          string       `json:"run_id"`
}

// Sale is one row of the synthetic sales history.
type Sale struct {
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Amount    float64   `json:"amount"`
}

// NewRecord wraps a summary with a category, falling back to the sentinel.
func NewRecord(s BookSummary, category string) BookRecord {
	if category == "" {
		category = UnknownCategory
	}
	return BookRecord{BookSummary: s, Category: category}
}

// Validate reports which required fields are missing on the summary.
func (s *BookSummary) Validate() []string {
	var missing []string
	if s.Title == "" {
		missing = append(missing, "title")
	}
	if s.Price < 0 {
		missing = append(missing, "price")
	}
	if s.StockCount < 0 {
		missing = append(missing, "stock_count")
	}
	if s.Rating != nil && (*s.Rating < 1 || *s.Rating > 5) {
		missing = append(missing, "rating")
	}
	if s.DetailURL == "" {
		missing = append(missing, "detail_url")
	}
	return missing
}

// Len reports the number of rows in the dataset.
func (d *CatalogDataset) Len() int {
	return len(d.Records)
}
