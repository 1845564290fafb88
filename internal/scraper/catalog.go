package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/bookstore-scraper/internal/browser"
	"github.com/maltedev/bookstore-scraper/internal/config"
	"github.com/maltedev/bookstore-scraper/internal/models"
	"github.com/maltedev/bookstore-scraper/internal/parser"
)

const (
	cardSelector = "article.product_pod"
	nextSelector = "li.next > a"
)

// Crawler walks the paginated catalog by clicking the next-page control,
// collecting one summary per product card.
type Crawler struct {
	renderer browser.Renderer
	cfg      config.ScraperConfig
	logger   *slog.Logger
	metrics  *Metrics
}

func NewCrawler(renderer browser.Renderer, cfg config.ScraperConfig, metrics *Metrics) *Crawler {
	return &Crawler{
		renderer: renderer,
		cfg:      cfg,
		logger:   slog.Default().With("component", "catalog_crawler"),
		metrics:  metrics,
	}
}

// Traverse scrapes up to cfg.PageCount catalog pages starting at startURL.
// A page whose cards never render is fatal; a missing or unclickable next
// control stops traversal early with the rows collected so far.
func (c *Crawler) Traverse(ctx context.Context, startURL string) ([]models.BookSummary, error) {
	c.logger.Info("starting catalog traversal", "url", startURL, "pages", c.cfg.PageCount)

	if err := c.renderer.Navigate(startURL); err != nil {
		c.metrics.IncError("navigation")
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	var summaries []models.BookSummary
	for page := 1; page <= c.cfg.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		cards, err := c.scrapePage(page)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, cards...)

		if page == c.cfg.PageCount {
			break
		}
		if !c.nextPage(page) {
			break
		}
		if err := pause(ctx, c.cfg.InterPageDelay); err != nil {
			return summaries, err
		}
	}

	c.logger.Info("catalog traversal finished", "items", len(summaries))
	return summaries, nil
}

func (c *Crawler) scrapePage(page int) ([]models.BookSummary, error) {
	start := time.Now()
	if _, err := c.renderer.WaitForSelector(cardSelector, c.cfg.WaitTimeout); err != nil {
		c.metrics.IncError("cards_not_rendered")
		return nil, fmt.Errorf("%w: page %d: %v", ErrCardsNotRendered, page, err)
	}
	c.metrics.ObserveWait(time.Since(start))

	html, err := c.renderer.Content()
	if err != nil {
		c.metrics.IncError("content")
		return nil, fmt.Errorf("failed to read page %d: %w", page, err)
	}

	cards, err := parser.Cards(html, c.cfg.BaseURL, c.cfg.CatalogPrefix)
	if err != nil {
		c.metrics.IncError("parse")
		return nil, fmt.Errorf("failed to parse page %d: %w", page, err)
	}

	c.logger.Info("scraped catalog page", "page", page, "items", len(cards))
	c.metrics.IncPages()
	c.metrics.AddItems(len(cards))
	return cards, nil
}

// nextPage locates and clicks the next-page control. A missing or
// unclickable control is not fatal: catalogs shorter than the requested
// page count just end the traversal early.
func (c *Crawler) nextPage(page int) bool {
	next, err := c.renderer.WaitForSelector(nextSelector, c.cfg.WaitTimeout)
	if err != nil {
		c.logger.Warn("next-page control not found, stopping traversal", "page", page, "error", err)
		return false
	}

	if err := next.ScrollIntoView(); err != nil {
		c.logger.Warn("next-page control not interactable, stopping traversal", "page", page, "error", err)
		return false
	}
	// Demo pacing so the scroll is visible in non-headless runs.
	time.Sleep(c.cfg.ScrollPause)

	if err := next.Click(); err != nil {
		c.logger.Warn("failed to click next-page control, stopping traversal", "page", page, "error", err)
		return false
	}
	return true
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
