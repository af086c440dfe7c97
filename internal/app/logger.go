// v1
// internal/app/logger.go
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// newLogger fans every record out to two sinks: a text handler on stdout
// for whoever is watching the process, and a JSON handler on the service
// log file so catalog and ingest events stay machine-parseable for later
// inspection. Both sinks share the configured minimum level.
func newLogger(fileSink io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&fanoutHandler{sinks: []slog.Handler{
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(fileSink, &slog.HandlerOptions{Level: level}),
	}})
}

// fanoutHandler duplicates records across its sinks. Each sink applies its
// own level gate, and the first write failure is reported after all sinks
// have been attempted.
type fanoutHandler struct {
	sinks []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, s := range f.sinks {
		if !s.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(f.sinks))
	for _, s := range f.sinks {
		next = append(next, s.WithAttrs(attrs))
	}
	return &fanoutHandler{sinks: next}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(f.sinks))
	for _, s := range f.sinks {
		next = append(next, s.WithGroup(name))
	}
	return &fanoutHandler{sinks: next}
}
