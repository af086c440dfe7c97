// v2
// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/gorilla/handlers"

	"github.com/whatifwestudios/the-commons/internal/catalog"
	"github.com/whatifwestudios/the-commons/internal/config"
	"github.com/whatifwestudios/the-commons/internal/httpserver"
	"github.com/whatifwestudios/the-commons/internal/ingest"
	"github.com/whatifwestudios/the-commons/internal/metrics"
)

// Application wires configuration, logging, the catalog built at boot, the
// metrics consumer, routing, and graceful shutdown handling for the
// commons service.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	logFile  *os.File
	server   *http.Server
	health   *httpserver.HealthState
	consumer *ingest.MetricsConsumer
}

// New prepares a fully wired service instance using the supplied
// configuration. The building catalog is transformed once here; a
// structurally malformed snapshot aborts boot because the content
// pipeline never serves a partial catalog.
func New(cfg config.Config) (*Application, error) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		return nil, errors.New("listen address cannot be empty")
	}
	if strings.TrimSpace(cfg.LogFilePath) == "" {
		return nil, errors.New("log file path cannot be empty")
	}
	logPath := filepath.Clean(cfg.LogFilePath)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	lf, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := newLogger(lf, cfg.LogLevel)

	cat, err := buildCatalog(cfg.CatalogPath)
	if err != nil {
		_ = lf.Close()
		return nil, err
	}
	metrics.SetCatalogSize(cat.Len(), len(cat.Categories()))
	logger.Info("catalog_built",
		slog.String("path", cfg.CatalogPath),
		slog.Int("buildings", cat.Len()),
		slog.Any("categories", cat.Categories()),
	)

	consumerLogger := logger.With(slog.String("component", "metrics_consumer"))
	consumer, err := ingest.NewMetricsConsumer(ingest.MetricsConsumerConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.MetricsTopic,
		GroupID:     cfg.MetricsGroupID,
		PollTimeout: cfg.MetricsPollTimeout,
	}, consumerLogger)
	if err != nil {
		_ = lf.Close()
		return nil, fmt.Errorf("metrics consumer init: %w", err)
	}

	health := httpserver.NewHealthState()
	router := httpserver.NewRouter(logger, health, cat, consumer.Store())

	// The game client runs in a browser, so the API allows cross-origin
	// reads of the catalog and leaderboard surfaces.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)
	handler := httpserver.WrapWithLogging(logger, cors(router))

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPWriteTimeout,
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		logFile:  lf,
		server:   server,
		health:   health,
		consumer: consumer,
	}, nil
}

func buildCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	cat, err := catalog.BuildCSV(f)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", path, err)
	}
	return cat, nil
}

// Logger exposes the configured slog logger so callers (such as main) can
// emit structured logs after initialization.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Run blocks until the context is cancelled or the HTTP server terminates
// unexpectedly. It manages readiness probes and graceful shutdown.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpCh := make(chan error, 1)
	go func() {
		a.health.SetReady(true)
		a.logger.Info("http_server_listen", slog.String("address", a.cfg.ListenAddress))
		err := a.server.ListenAndServe()
		httpCh <- err
	}()

	consumerCh := make(chan error, 1)
	go func() {
		consumerCh <- a.consumer.Run(ctx)
	}()

	var httpErr error
	var consumerErr error

	for {
		select {
		case err := <-httpCh:
			httpErr = err
			httpCh = nil
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("http_server_error", slog.Any("err", err))
			} else {
				a.logger.Info("server_closed")
			}
			cancel()
		case err := <-consumerCh:
			consumerErr = err
			consumerCh = nil
			if err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("metrics_consumer_error", slog.Any("err", err))
			} else if err == nil {
				a.logger.Info("metrics_consumer_completed")
			}
			cancel()
		case <-ctx.Done():
			a.logger.Info("shutdown_signal")
			a.health.SetReady(false)
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				if !errors.Is(err, context.Canceled) {
					a.logger.Error("server_shutdown_failed", slog.Any("err", err))
					if httpErr == nil {
						httpErr = fmt.Errorf("shutdown: %w", err)
					}
				}
			}
			shutdownCancel()

			if httpCh != nil {
				if err := <-httpCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("server_shutdown_error", slog.Any("err", err))
					if httpErr == nil {
						httpErr = err
					}
				}
			}
			if consumerCh != nil {
				if err := <-consumerCh; err != nil && !errors.Is(err, context.Canceled) {
					a.logger.Error("metrics_consumer_shutdown_error", slog.Any("err", err))
					if consumerErr == nil {
						consumerErr = err
					}
				}
			}

			if consumerErr != nil && !errors.Is(consumerErr, context.Canceled) {
				return consumerErr
			}
			if httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
				return httpErr
			}
			a.logger.Info("shutdown_complete")
			return nil
		}
	}
}

// Close flushes and closes resources owned by the application instance.
func (a *Application) Close() error {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			return err
		}
		a.consumer = nil
	}
	if a.logFile == nil {
		return nil
	}
	if err := a.logFile.Close(); err != nil {
		return err
	}
	a.logFile = nil
	return nil
}
