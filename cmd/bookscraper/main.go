package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maltedev/bookstore-scraper/internal/api"
	"github.com/maltedev/bookstore-scraper/internal/browser"
	"github.com/maltedev/bookstore-scraper/internal/cache"
	"github.com/maltedev/bookstore-scraper/internal/config"
	"github.com/maltedev/bookstore-scraper/internal/database"
	"github.com/maltedev/bookstore-scraper/internal/dataset"
	"github.com/maltedev/bookstore-scraper/internal/models"
	"github.com/maltedev/bookstore-scraper/internal/output"
	"github.com/maltedev/bookstore-scraper/internal/sales"
	"github.com/maltedev/bookstore-scraper/internal/scraper"
	"github.com/maltedev/bookstore-scraper/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		pages       = flag.Int("pages", cfg.Scraper.PageCount, "Number of catalog pages to traverse")
		delay       = flag.Float64("delay", cfg.Scraper.InterPageDelay.Seconds(), "Pause between page transitions (seconds)")
		headless    = flag.Bool("headless", cfg.Browser.Headless, "Run the browser without a UI")
		rendererStr = flag.String("renderer", cfg.Browser.Mode, "Renderer backend: playwright or http")
		products    = flag.String("products", cfg.Output.ProductsFile, "Products CSV path")
		salesFile   = flag.String("sales", cfg.Output.SalesFile, "Sales CSV path")
		days        = flag.Int("days", cfg.Sales.Days, "Days of sales history to simulate")
		maxItems    = flag.Int("max-items-per-day", cfg.Sales.MaxItemsPerDay, "Maximum simulated sales per day")
		seed        = flag.Int64("seed", cfg.Sales.Seed, "Seed for the sales simulator")
		addr        = flag.String("addr", cfg.Server.Addr, "Status server listen address (empty disables)")
		logLevel    = flag.String("log-level", cfg.Logging.Level, "Log level: debug, info, warn, error")
	)
	flag.Parse()

	cfg.Scraper.PageCount = *pages
	cfg.Scraper.InterPageDelay = time.Duration(*delay * float64(time.Second))
	cfg.Browser.Headless = *headless
	cfg.Browser.Mode = *rendererStr
	cfg.Output.ProductsFile = *products
	cfg.Output.SalesFile = *salesFile
	cfg.Sales.Days = *days
	cfg.Sales.MaxItemsPerDay = *maxItems
	cfg.Sales.Seed = *seed
	cfg.Server.Addr = *addr
	cfg.Logging.Level = *logLevel

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("scrape run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := scraper.NewMetrics()
	tracker := api.NewTracker()

	var server *http.Server
	if cfg.Server.Addr != "" {
		server = api.NewServer(cfg.Server.Addr, api.NewRouter(metrics.Registry, tracker))
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("status server failed", "error", err)
			}
		}()
		log.Info("status server enabled", "addr", cfg.Server.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("status server shutdown failed", "error", err)
			}
		}()
	}

	categories, err := newCategoryCache(ctx, cfg)
	if err != nil {
		return err
	}

	renderer, cleanup, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	tracker.Update(func(s *api.RunStatus) { s.State = "scraping" })

	crawler := scraper.NewCrawler(renderer, cfg.Scraper, metrics)
	summaries, err := crawler.Traverse(ctx, cfg.StartURL())
	if err != nil {
		tracker.Update(func(s *api.RunStatus) { s.State = "failed" })
		return err
	}
	if len(summaries) == 0 {
		tracker.Update(func(s *api.RunStatus) { s.State = "failed" })
		return scraper.ErrNoSummaries
	}
	tracker.Update(func(s *api.RunStatus) {
		s.State = "enriching"
		s.Items = len(summaries)
	})

	enricher := scraper.NewEnricher(renderer, categories, cfg.Scraper, metrics)
	records := enricher.Enrich(ctx, summaries)

	ds, err := dataset.Assemble(records, time.Now())
	if err != nil {
		tracker.Update(func(s *api.RunStatus) { s.State = "failed" })
		return fmt.Errorf("dataset assembly: %w", err)
	}
	tracker.Update(func(s *api.RunStatus) {
		s.State = "writing"
		s.RunID = ds.RunID
	})

	generator := sales.NewGenerator(cfg.Sales.Days, cfg.Sales.MaxItemsPerDay, rand.New(rand.NewSource(cfg.Sales.Seed)))
	history, err := generator.Generate(ds, time.Now())
	if err != nil {
		return fmt.Errorf("sales simulation: %w", err)
	}

	if err := output.WriteProductsCSV(cfg.Output.ProductsFile, ds); err != nil {
		return fmt.Errorf("write products: %w", err)
	}
	if err := output.WriteSalesCSV(cfg.Output.SalesFile, history); err != nil {
		return fmt.Errorf("write sales: %w", err)
	}

	if cfg.Database.DSN != "" {
		if err := persist(ctx, cfg.Database.DSN, ds, history); err != nil {
			return err
		}
	}

	tracker.Update(func(s *api.RunStatus) { s.State = "done" })
	printSummary(ds, history, cfg)
	return nil
}

func newCategoryCache(ctx context.Context, cfg *config.Config) (cache.CategoryCache, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisTTL)
		if err != nil {
			return nil, fmt.Errorf("category cache: %w", err)
		}
		return c, nil
	}
	c, err := cache.NewMemory(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("category cache: %w", err)
	}
	return c, nil
}

// newRenderer builds the configured renderer. The returned cleanup always
// releases the browser session, whatever path exits the run.
func newRenderer(cfg *config.Config) (browser.Renderer, func(), error) {
	if cfg.Browser.Mode == "http" {
		r := browser.NewStaticRenderer(nil)
		return r, func() { r.Close() }, nil
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	renderer, err := b.NewRenderer()
	if err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("failed to open page: %w", err)
	}

	cleanup := func() {
		if err := renderer.Close(); err != nil {
			slog.Error("failed to close page", "error", err)
		}
		if err := b.Close(); err != nil {
			slog.Error("failed to close browser", "error", err)
		}
	}
	return renderer, cleanup, nil
}

func persist(ctx context.Context, dsn string, ds *models.CatalogDataset, history []models.Sale) error {
	db, err := database.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := db.SaveDataset(ctx, ds); err != nil {
		return err
	}
	return db.SaveSales(ctx, ds.RunID, history)
}

func printSummary(ds *models.CatalogDataset, history []models.Sale, cfg *config.Config) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Run ID:          %s\n", ds.RunID)
	fmt.Printf("  Catalog rows:    %d\n", ds.Len())
	fmt.Printf("  Sales rows:      %d\n", len(history))
	fmt.Printf("  Extraction date: %s\n", ds.ExtractionDate.Format("2006-01-02"))
	fmt.Printf("  Products file:   %s\n", cfg.Output.ProductsFile)
	fmt.Printf("  Sales file:      %s\n", cfg.Output.SalesFile)
	fmt.Println(separator)
}
