package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Sales    SalesConfig
	Output   OutputConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

type ScraperConfig struct {
	BaseURL        string
	CatalogPrefix  string
	StartPage      string
	PageCount      int
	InterPageDelay time.Duration
	ScrollPause    time.Duration
	ItemDelay      time.Duration
	WaitTimeout    time.Duration
}

type BrowserConfig struct {
	Mode           string // playwright or http
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
}

type CacheConfig struct {
	Backend   string // memory or redis
	Size      int
	RedisAddr string
	RedisTTL  time.Duration
}

type DatabaseConfig struct {
	DSN string
}

type SalesConfig struct {
	Days           int
	MaxItemsPerDay int
	Seed           int64
}

type OutputConfig struct {
	ProductsFile string
	SalesFile    string
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Scraper: ScraperConfig{
			BaseURL:        getEnvOrDefault("SCRAPER_BASE_URL", "https://books.toscrape.com/"),
			CatalogPrefix:  getEnvOrDefault("SCRAPER_CATALOG_PREFIX", "catalogue/"),
			StartPage:      getEnvOrDefault("SCRAPER_START_PAGE", "catalogue/page-1.html"),
			PageCount:      getIntOrDefault("SCRAPER_PAGES", 3),
			InterPageDelay: getDurationOrDefault("SCRAPER_PAGE_DELAY", 800*time.Millisecond),
			ScrollPause:    getDurationOrDefault("SCRAPER_SCROLL_PAUSE", 200*time.Millisecond),
			ItemDelay:      getDurationOrDefault("SCRAPER_ITEM_DELAY", 100*time.Millisecond),
			WaitTimeout:    getDurationOrDefault("SCRAPER_WAIT_TIMEOUT", 10*time.Second),
		},
		Browser: BrowserConfig{
			Mode:           getEnvOrDefault("BROWSER_MODE", "playwright"),
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", "Mozilla/5.0 (educational scraping demo)"),
		},
		Cache: CacheConfig{
			Backend:   getEnvOrDefault("CACHE_BACKEND", "memory"),
			Size:      getIntOrDefault("CACHE_SIZE", 2048),
			RedisAddr: getEnvOrDefault("CACHE_REDIS_ADDR", ""),
			RedisTTL:  getDurationOrDefault("CACHE_REDIS_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			DSN: getEnvOrDefault("DATABASE_URL", ""),
		},
		Sales: SalesConfig{
			Days:           getIntOrDefault("SALES_DAYS", 60),
			MaxItemsPerDay: getIntOrDefault("SALES_MAX_ITEMS_PER_DAY", 30),
			Seed:           int64(getIntOrDefault("SALES_SEED", 42)),
		},
		Output: OutputConfig{
			ProductsFile: getEnvOrDefault("OUTPUT_PRODUCTS", "products.csv"),
			SalesFile:    getEnvOrDefault("OUTPUT_SALES", "sales.csv"),
		},
		Server: ServerConfig{
			Addr:            getEnvOrDefault("SERVER_ADDR", ""),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Scraper.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Scraper.PageCount < 1 {
		return fmt.Errorf("SCRAPER_PAGES must be at least 1")
	}
	if c.Scraper.InterPageDelay < 0 {
		return fmt.Errorf("SCRAPER_PAGE_DELAY cannot be negative")
	}
	if c.Scraper.WaitTimeout <= 0 {
		return fmt.Errorf("SCRAPER_WAIT_TIMEOUT must be positive")
	}

	if c.Browser.Mode != "playwright" && c.Browser.Mode != "http" {
		return fmt.Errorf("BROWSER_MODE must be playwright or http")
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be memory or redis")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("CACHE_REDIS_ADDR is required for the redis cache backend")
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("CACHE_SIZE must be at least 1")
	}

	if c.Sales.Days < 1 {
		return fmt.Errorf("SALES_DAYS must be at least 1")
	}
	if c.Sales.MaxItemsPerDay < 1 {
		return fmt.Errorf("SALES_MAX_ITEMS_PER_DAY must be at least 1")
	}

	if c.Output.ProductsFile == "" {
		return fmt.Errorf("OUTPUT_PRODUCTS cannot be empty")
	}
	if c.Output.SalesFile == "" {
		return fmt.Errorf("OUTPUT_SALES cannot be empty")
	}

	return nil
}

// StartURL resolves the configured first catalog page against the base URL.
func (c *Config) StartURL() string {
	return c.Scraper.BaseURL + c.Scraper.StartPage
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
