package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/bookstore-scraper/internal/browser"
	"github.com/maltedev/bookstore-scraper/internal/cache"
	"github.com/maltedev/bookstore-scraper/internal/config"
	"github.com/maltedev/bookstore-scraper/internal/models"
	"github.com/maltedev/bookstore-scraper/internal/parser"
)

const breadcrumbSelector = "ul.breadcrumb"

// Enricher revisits each summary's detail page to recover the category
// from the breadcrumb trail. One failing item never aborts the batch.
type Enricher struct {
	renderer browser.Renderer
	cache    cache.CategoryCache
	cfg      config.ScraperConfig
	logger   *slog.Logger
	metrics  *Metrics
}

func NewEnricher(renderer browser.Renderer, categories cache.CategoryCache, cfg config.ScraperConfig, metrics *Metrics) *Enricher {
	return &Enricher{
		renderer: renderer,
		cache:    categories,
		cfg:      cfg,
		logger:   slog.Default().With("component", "detail_enricher"),
		metrics:  metrics,
	}
}

// Enrich returns one record per summary, in input order. Every record gets
// a category: the breadcrumb value when the detail fetch works, the
// sentinel otherwise.
func (e *Enricher) Enrich(ctx context.Context, summaries []models.BookSummary) []models.BookRecord {
	records := make([]models.BookRecord, 0, len(summaries))
	for i, summary := range summaries {
		if ctx.Err() != nil {
			// Cancellation keeps the batch shape: remaining items fall
			// back to the sentinel instead of being dropped.
			for _, rest := range summaries[i:] {
				records = append(records, models.NewRecord(rest, models.UnknownCategory))
			}
			return records
		}

		records = append(records, models.NewRecord(summary, e.category(ctx, summary.DetailURL)))

		// Politeness pacing between detail fetches.
		if err := pause(ctx, e.cfg.ItemDelay); err != nil {
			continue
		}
	}
	return records
}

func (e *Enricher) category(ctx context.Context, detailURL string) string {
	if e.cache != nil {
		if category, ok := e.cache.Get(ctx, detailURL); ok {
			e.metrics.IncEnrichment("cached")
			return category
		}
	}

	category, err := e.fetchCategory(detailURL)
	if err != nil {
		e.logger.Warn("detail enrichment failed, using sentinel", "url", detailURL, "error", err)
		e.metrics.IncEnrichment("fallback")
		e.metrics.IncError("enrichment")
		return models.UnknownCategory
	}

	if e.cache != nil {
		e.cache.Set(ctx, detailURL, category)
	}
	e.metrics.IncEnrichment("ok")
	return category
}

func (e *Enricher) fetchCategory(detailURL string) (string, error) {
	if err := e.renderer.Navigate(detailURL); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	if _, err := e.renderer.WaitForSelector(breadcrumbSelector, e.cfg.WaitTimeout); err != nil {
		return "", fmt.Errorf("breadcrumb wait: %w", err)
	}
	html, err := e.renderer.Content()
	if err != nil {
		return "", fmt.Errorf("content: %w", err)
	}

	category, ok := parser.BreadcrumbCategory(html)
	if !ok {
		// A short breadcrumb trail is a page-shape fact, not a failure.
		return models.UnknownCategory, nil
	}
	return category, nil
}
