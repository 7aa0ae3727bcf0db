// Package healthz implements the HTTP health check the API server exposes.
// Orchestrators poll it to decide when the server may receive traffic.
package healthz

import (
	"net/http"
	"sync"
)

// NewHTTP creates an HTTP instance. It reports sick until Healthy is called;
// the server flips it after the database warm-up succeeds.
func NewHTTP() *HTTP {
	return &HTTP{mutex: new(sync.RWMutex)}
}

// HTTP is an http.Handler reporting the server's readiness.
type HTTP struct {
	mutex   *sync.RWMutex
	healthy bool
}

// ServeHTTP implements the http.Handler interface.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mutex.RLock()
	healthy := h.healthy
	h.mutex.RUnlock()

	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// IsHealthy indicates whether health checks currently report healthy.
func (h *HTTP) IsHealthy() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.healthy
}

// Healthy marks the instance healthy.
func (h *HTTP) Healthy() {
	h.mutex.Lock()
	h.healthy = true
	h.mutex.Unlock()
}

// Sick marks the instance sick. Called as shutdown begins so checks fail
// before the listener closes.
func (h *HTTP) Sick() {
	h.mutex.Lock()
	h.healthy = false
	h.mutex.Unlock()
}
