package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for one scrape run.
type Metrics struct {
	Registry         *prometheus.Registry
	PagesScraped     prometheus.Counter
	ItemsExtracted   prometheus.Counter
	EnrichmentsTotal *prometheus.CounterVec
	WaitDuration     prometheus.Histogram
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all collectors on a dedicated
// registry so tests and repeated runs never collide.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscraper_pages_scraped_total",
		Help: "Catalog pages successfully scraped.",
	})
	items := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscraper_items_extracted_total",
		Help: "Product cards turned into summaries.",
	})
	enrichments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookscraper_enrichments_total",
			Help: "Detail enrichments by outcome.",
		},
		[]string{"outcome"},
	)
	waits := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookscraper_wait_duration_seconds",
		Help:    "Time spent in bounded element waits.",
		Buckets: prometheus.DefBuckets,
	})
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookscraper_errors_total",
			Help: "Scrape errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(pages, items, enrichments, waits, errorsTotal)

	return &Metrics{
		Registry:         registry,
		PagesScraped:     pages,
		ItemsExtracted:   items,
		EnrichmentsTotal: enrichments,
		WaitDuration:     waits,
		ErrorsTotal:      errorsTotal,
	}
}

func (m *Metrics) IncPages() {
	if m == nil {
		return
	}
	m.PagesScraped.Inc()
}

func (m *Metrics) AddItems(n int) {
	if m == nil {
		return
	}
	m.ItemsExtracted.Add(float64(n))
}

// IncEnrichment records an enrichment outcome: ok, cached, or fallback.
func (m *Metrics) IncEnrichment(outcome string) {
	if m == nil {
		return
	}
	m.EnrichmentsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWait(d time.Duration) {
	if m == nil {
		return
	}
	m.WaitDuration.Observe(d.Seconds())
}

func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
