// v2
// internal/httpserver/router.go
package httpserver

import (
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/whatifwestudios/the-commons/internal/catalog"
	"github.com/whatifwestudios/the-commons/internal/metrics"
	"github.com/whatifwestudios/the-commons/internal/score"
)

// participantSource exposes the subset of the ingest store used by the
// ranking handlers. A small interface keeps the router agnostic to the
// Kafka wiring and lets tests supply canned metrics.
type participantSource interface {
	Snapshot() []score.Metrics
}

// NewRouter wires all HTTP routes exposed by the commons service: health
// probes, the immutable building catalog, the live leaderboard, the victory
// summary, and the metrics exposition endpoint.
func NewRouter(logger *slog.Logger, health *HealthState, cat *catalog.Catalog, source participantSource) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", healthLiveHandler()).Methods(http.MethodGet)
	r.Handle("/health/live", healthLiveHandler()).Methods(http.MethodGet)
	r.Handle("/health/ready", healthReadyHandler(health)).Methods(http.MethodGet)

	r.Handle("/catalog", catalogHandler(logger, cat)).Methods(http.MethodGet)
	r.Handle("/catalog/{category}", catalogCategoryHandler(logger, cat)).Methods(http.MethodGet)

	r.Handle("/leaderboard", leaderboardHandler(logger, source)).Methods(http.MethodGet)
	r.Handle("/victory", victoryHandler(logger, source)).Methods(http.MethodGet)

	r.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(metrics.Render())); err != nil {
			logger.Error("metrics_write_failed", slog.Any("err", err))
		}
	}).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})

	return r
}
