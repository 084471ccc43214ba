package handlers

import (
	"log"
	"net/http"
	"strconv"

	"klaew-klad/internal/flood"
	"klaew-klad/internal/models"
)

// ForecastResponse carries the hourly forecast entries
type ForecastResponse struct {
	Forecasts []models.FloodForecast `json:"forecasts"`
}

// HandleCurrentStatus handles GET /api/flood/current-status
func (h *Handler) HandleCurrentStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] GET /api/flood/current-status")

	status, err := h.Flood.CurrentStatus(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to build flood status: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, status)
}

// HandleForecast handles GET /api/flood/forecast?hours=N
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	hours := flood.DefaultForecastHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.handleValidationError(w, "hours must be an integer", "INVALID_HOURS hours")
			return
		}
		hours = n
	}
	hours = flood.ClampHours(hours)
	log.Printf("[HTTP] GET /api/flood/forecast: hours=%d", hours)

	forecasts, err := h.Flood.Forecast(r.Context(), hours)
	if err != nil {
		log.Printf("[ERROR] Failed to build forecast: hours=%d err=%v", hours, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, ForecastResponse{Forecasts: forecasts})
}

// AreaUpdateRequest is the body of PUT /api/flood/areas/{id}
type AreaUpdateRequest struct {
	WaterLevel *float64          `json:"waterLevel" validate:"required,gte=0,lte=20"`
	Status     models.AreaStatus `json:"status" validate:"required,oneof=normal warning flooding evacuating"`
}

// HandleUpdateFloodArea handles PUT /api/flood/areas/{id}
func (h *Handler) HandleUpdateFloodArea(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req AreaUpdateRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleBadRequest(w, "Invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.handleStructError(w, err)
		return
	}

	log.Printf("[HTTP] PUT /api/flood/areas/{id}: id=%s level=%.2f status=%s", id, *req.WaterLevel, req.Status)

	area, err := h.DB.FloodAreas().UpdateLevel(r.Context(), id, *req.WaterLevel, req.Status)
	if h.checkNotFound(err) {
		h.handleNotFound(w, "Flood area not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to update flood area: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, area)
}

// SituationUpdateRequest is the body of PUT /api/flood/situation
type SituationUpdateRequest struct {
	RoadsClosed *int `json:"roadsClosed" validate:"required,gte=0"`
}

// HandleUpdateSituation handles PUT /api/flood/situation
func (h *Handler) HandleUpdateSituation(w http.ResponseWriter, r *http.Request) {
	var req SituationUpdateRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleBadRequest(w, "Invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.handleStructError(w, err)
		return
	}

	log.Printf("[HTTP] PUT /api/flood/situation: roads_closed=%d", *req.RoadsClosed)

	situation := &models.Situation{RoadsClosed: *req.RoadsClosed, UpdatedAt: h.Now().UTC()}
	if err := h.DB.Situation().Update(r.Context(), situation); err != nil {
		log.Printf("[ERROR] Failed to update situation: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, situation)
}
