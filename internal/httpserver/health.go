// v0
// internal/httpserver/health.go
package httpserver

import (
	"net/http"
	"sync"
)

// HealthState tracks readiness information for the HTTP API. Liveness is
// always considered true while the process is running, whereas readiness
// toggles once the catalog and consumer are fully initialized or the
// server is shutting down.
type HealthState struct {
	mu    sync.RWMutex
	ready bool
}

// NewHealthState constructs the health tracker with readiness set to false
// so that upstream systems can verify when the service is ready to receive
// traffic.
func NewHealthState() *HealthState {
	return &HealthState{}
}

// SetReady flips the readiness flag to the provided value. Callers use this
// during startup and shutdown to signal their lifecycle phase.
func (h *HealthState) SetReady(value bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = value
}

// Ready exposes the current readiness flag in a thread-safe manner.
func (h *HealthState) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

func healthLiveHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func healthReadyHandler(health *HealthState) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !health.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
