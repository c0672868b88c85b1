package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kestrel-systems/kestrel-collector/internal/handlers"
	"github.com/kestrel-systems/kestrel-collector/pkg/middleware"
)

// NewRouter constructs a ServeMux with collector routes registered.
func NewRouter(h *handlers.CollectorHandler) http.Handler {
	mux := http.NewServeMux()

	// Ingestion endpoints
	mux.HandleFunc("/sourcemap", h.HandleSourcemap)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Error ingestion is the root route; it also absorbs GET probes, which
	// fail the format stage like any other bodiless request.
	mux.HandleFunc("/", h.HandleEvent)

	return middleware.RequestID(mux)
}
