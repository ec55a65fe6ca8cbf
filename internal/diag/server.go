// Package diag exposes a small read-only HTTP endpoint for operators:
// health, a status snapshot, and Prometheus metrics. It is off by default
// and only started when a diagnostics address is configured; the shim
// never opens sockets behind an application's back otherwise.
package diag

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuroshim/internal/logging"
)

// Status is the read-only snapshot served at /status.
type Status struct {
	Backend        string `json:"backend"`
	Suffix         string `json:"suffix"`
	ModelDir       string `json:"model_dir,omitempty"`
	Threads        int    `json:"threads"`
	ForceCPU       bool   `json:"force_cpu"`
	ActiveSessions int    `json:"active_sessions"`
	Inferences     uint64 `json:"inferences"`
}

// StatusProvider is what the runtime core implements for this endpoint.
type StatusProvider interface {
	Status() Status
}

// NewRouter builds the diagnostics handler.
func NewRouter(sp StatusProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sp.Status())
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Serve blocks serving the diagnostics endpoint on addr.
func Serve(addr string, sp StatusProvider) error {
	log := logging.For("diag")
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(sp),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("diagnostics endpoint listening")
	return srv.ListenAndServe()
}
