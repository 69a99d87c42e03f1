package handler

import (
	"net/http"

	"github.com/litbot/litbot/internal/feedback"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsSink *feedback.NATSSink // nil when the NATS sink is not configured
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(natsSink *feedback.NATSSink) *HealthHandler {
	return &HealthHandler{
		natsSink: natsSink,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.natsSink != nil && !h.natsSink.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
