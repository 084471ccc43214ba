package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"klaew-klad/internal/database"
	"klaew-klad/internal/flood"
	"klaew-klad/internal/routing"
)

// Version is reported by the banner and health endpoints
const Version = "1.0.0"

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// Options holds handler behaviour switches
type Options struct {
	HazardAware   bool
	HazardRadiusM float64
}

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB       database.DataStore
	Planner  routing.Planner
	Flood    *flood.Service
	Validate *validator.Validate
	Options  Options
	Now      func() time.Time
}

// New creates a handler with a fresh validator and the wall clock
func New(db database.DataStore, planner routing.Planner, floodSvc *flood.Service, opts Options) *Handler {
	return &Handler{
		DB:       db,
		Planner:  planner,
		Flood:    floodSvc,
		Validate: newValidator(),
		Options:  opts,
		Now:      time.Now,
	}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Response is the envelope every API endpoint returns
type Response struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess wraps data in a successful envelope
func (h *Handler) writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, Response{Success: true, Data: data})
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, Response{
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, "")
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message, details string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

// handleBadRequest handles bodies that cannot be decoded
func (h *Handler) handleBadRequest(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", message, "")
}

// handleRouteError maps route computation failures onto the envelope
func (h *Handler) handleRouteError(w http.ResponseWriter, err error) {
	var verr *routing.ValidationError
	if errors.As(err, &verr) {
		h.handleValidationError(w, verr.Reason, verr.Kind+" "+verr.Field)
		return
	}
	h.handleInternalError(w, err)
}

// handleStructError reports the first failed validator rule
func (h *Handler) handleStructError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonFieldName(fe.Namespace())
		h.handleValidationError(w, fmt.Sprintf("%s failed %s validation", field, fe.Tag()), fe.Tag()+" "+field)
		return
	}
	h.handleValidationError(w, err.Error(), "")
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", "")
}

// checkNotFound checks if an error is a not found error
func (h *Handler) checkNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// decodeBody decodes a bounded JSON body into dst
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// jsonFieldName drops the struct name from a validator namespace:
// CreateAlertRequest.areas[0] becomes areas[0]
func jsonFieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
