package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/modsentry/spamscan/internal/chread"
	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/storage"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Engine     *engine.ScanEngine
	Writer     storage.EventWriter
	Reader     *chread.Reader // nil if ClickHouse unavailable
	APIKeyHash string         // bcrypt hash of the accepted API key; empty disables auth
	Logger     *zap.Logger
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Scan endpoint (auth required)
	mux.HandleFunc("POST /v1/scan", deps.authMiddleware(deps.handleScan))

	// Events & analytics over the ClickHouse sink (auth required)
	mux.HandleFunc("GET /v1/events", deps.authMiddleware(deps.handleListEvents))
	mux.HandleFunc("GET /v1/events/{request_id}", deps.authMiddleware(deps.handleGetEvent))
	mux.HandleFunc("GET /v1/analytics", deps.authMiddleware(deps.handleGetAnalytics))

	// Health check and metrics
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
