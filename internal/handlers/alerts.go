package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"klaew-klad/internal/models"
)

const (
	// residentsPerArea estimates how many people an area-targeted alert reaches
	residentsPerArea = 15000
	// residentsCitywide is the reach of an alert with no areas
	residentsCitywide = 50000
)

// AlertListResponse carries active alerts, newest first
type AlertListResponse struct {
	Alerts []models.Alert `json:"alerts"`
}

// CreateAlertRequest is the body of POST /api/alerts
type CreateAlertRequest struct {
	Severity models.AlertSeverity `json:"severity" validate:"required,oneof=info warning critical"`
	Title    string               `json:"title" validate:"required,max=200"`
	Message  string               `json:"message" validate:"required,max=2000"`
	Areas    []string             `json:"areas" validate:"omitempty,dive,required"`
	Expiry   *time.Time           `json:"expiry"`
}

// CreateAlertResponse reports the broadcast
type CreateAlertResponse struct {
	AlertID   string    `json:"alertId"`
	SentTo    int       `json:"sentTo"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleListAlerts handles GET /api/alerts
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] GET /api/alerts")

	alerts, err := h.DB.Alerts().ListActive(r.Context(), h.Now())
	if err != nil {
		log.Printf("[ERROR] Failed to list alerts: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, AlertListResponse{Alerts: alerts})
}

// HandleCreateAlert handles POST /api/alerts
func (h *Handler) HandleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleBadRequest(w, "Invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.handleStructError(w, err)
		return
	}

	now := h.Now().UTC()
	if req.Expiry != nil && !req.Expiry.After(now) {
		h.handleValidationError(w, "expiry must be in the future", "future expiry")
		return
	}

	alert := &models.Alert{
		ID:             "alert_" + uuid.NewString(),
		Severity:       req.Severity,
		Title:          req.Title,
		Message:        req.Message,
		Timestamp:      now,
		Expiry:         req.Expiry,
		Areas:          req.Areas,
		ActionRequired: req.Severity == models.AlertCritical,
	}

	created, err := h.DB.Alerts().Create(r.Context(), alert)
	if err != nil {
		log.Printf("[ERROR] Failed to create alert: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	sentTo := residentsCitywide
	if len(req.Areas) > 0 {
		sentTo = residentsPerArea * len(req.Areas)
	}

	log.Printf("[HTTP] Broadcast alert: id=%s severity=%s areas=%d sent_to=%d", created.ID, created.Severity, len(created.Areas), sentTo)
	h.writeSuccess(w, http.StatusCreated, CreateAlertResponse{
		AlertID:   created.ID,
		SentTo:    sentTo,
		Timestamp: created.Timestamp,
	})
}

// HandleDeleteAlert handles DELETE /api/alerts/{id}
func (h *Handler) HandleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log.Printf("[HTTP] DELETE /api/alerts/{id}: id=%s", id)

	err := h.DB.Alerts().Delete(r.Context(), id)
	if h.checkNotFound(err) {
		h.handleNotFound(w, "Alert not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to delete alert: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, map[string]string{"message": "Alert deleted"})
}
