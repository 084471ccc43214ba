package handlers

import (
	"net/http"
	"time"
)

// HandleRoot handles GET /
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Klaew Klad API - Hat Yai Flood Forecasting System",
		"version": Version,
		"status":  "online",
	})
}

// HandleHealthCheck handles GET /health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "connected"
	code := http.StatusOK

	if err := h.DB.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "error"
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, map[string]string{
		"status":    status,
		"timestamp": h.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"database":  dbStatus,
	})
}
