// Package api exposes run health, status and metrics over HTTP while a
// scrape is in flight.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunStatus is the externally visible snapshot of the current run.
type RunStatus struct {
	RunID     string    `json:"run_id,omitempty"`
	State     string    `json:"state"`
	Pages     int       `json:"pages"`
	Items     int       `json:"items"`
	StartedAt time.Time `json:"started_at"`
}

// Tracker guards the run status against concurrent reads from the HTTP
// handlers while the single scrape thread updates it.
type Tracker struct {
	mu     sync.RWMutex
	status RunStatus
}

func NewTracker() *Tracker {
	return &Tracker{status: RunStatus{State: "starting", StartedAt: time.Now().UTC()}}
}

func (t *Tracker) Update(fn func(*RunStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.status)
}

func (t *Tracker) Snapshot() RunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// NewRouter wires the health, status and metrics endpoints.
func NewRouter(registry *prometheus.Registry, tracker *Tracker) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, tracker.Snapshot())
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// NewServer builds the HTTP server for the router.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
