package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/samber/lo"

	"klaew-klad/internal/geo"
	"klaew-klad/internal/models"
	"klaew-klad/internal/routing"
)

// CoordinatesBody is a coordinate pair as received; both fields are required
type CoordinatesBody struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// DestinationBody is a destination as received; lat and lng are required
type DestinationBody struct {
	ID  string   `json:"id"`
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// RouteRequestBody is the body of POST /api/evacuation/routes
type RouteRequestBody struct {
	Origin       *CoordinatesBody  `json:"origin"`
	Destinations []DestinationBody `json:"destinations"`
	Priority     models.Priority   `json:"priority"`
	Seed         *uint64           `json:"seed,omitempty"`
}

func missingCoordinate(field string) *routing.ValidationError {
	return &routing.ValidationError{
		Field:  field,
		Kind:   routing.KindInvalidCoordinate,
		Reason: field + " is required",
		Err:    geo.ErrInvalidCoordinate,
	}
}

func requireLatLng(field string, lat, lng *float64) (models.Coordinates, error) {
	if lat == nil {
		return models.Coordinates{}, missingCoordinate(field + ".lat")
	}
	if lng == nil {
		return models.Coordinates{}, missingCoordinate(field + ".lng")
	}
	return models.Coordinates{Lat: *lat, Lng: *lng}, nil
}

// toRouteRequest rejects absent coordinates instead of reading them as zero.
// Range and priority checks are left to the planner.
func (b *RouteRequestBody) toRouteRequest() (*routing.RouteRequest, error) {
	if b.Origin == nil {
		return nil, missingCoordinate("origin")
	}
	origin, err := requireLatLng("origin", b.Origin.Lat, b.Origin.Lng)
	if err != nil {
		return nil, err
	}

	var destinations []models.Destination
	if b.Destinations != nil {
		destinations = make([]models.Destination, 0, len(b.Destinations))
	}
	for i, d := range b.Destinations {
		c, err := requireLatLng(fmt.Sprintf("destinations[%d]", i), d.Lat, d.Lng)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, models.Destination{ID: d.ID, Lat: c.Lat, Lng: c.Lng})
	}

	return &routing.RouteRequest{
		Origin:       origin,
		Destinations: destinations,
		Priority:     b.Priority,
		Seed:         b.Seed,
	}, nil
}

// RoutesResponse carries the computed routes in request order
type RoutesResponse struct {
	Routes []models.EvacuationRoute `json:"routes"`
}

// ShelterListResponse represents the shelter list response
type ShelterListResponse struct {
	Shelters []models.Shelter `json:"shelters"`
	Total    int              `json:"total"`
}

// HandleComputeRoutes handles POST /api/evacuation/routes
func (h *Handler) HandleComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var body RouteRequestBody
	if err := h.decodeBody(w, r, &body); err != nil {
		log.Printf("[HTTP] POST /api/evacuation/routes: invalid body err=%v", err)
		h.handleBadRequest(w, "Invalid request body")
		return
	}

	log.Printf("[HTTP] POST /api/evacuation/routes: destinations=%d priority=%s", len(body.Destinations), body.Priority)

	req, err := body.toRouteRequest()
	if err != nil {
		h.handleRouteError(w, err)
		return
	}

	if h.Options.HazardAware && h.Flood != nil {
		field, err := h.Flood.HazardField(r.Context(), h.Options.HazardRadiusM)
		if err != nil {
			log.Printf("[ERROR] Failed to build hazard field: err=%v", err)
			h.handleInternalError(w, err)
			return
		}
		if !field.Empty() {
			req.Hazard = field
		}
	}

	routes, err := h.Planner.ComputeRoutes(r.Context(), req)
	if err != nil {
		h.handleRouteError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, RoutesResponse{Routes: routes})
}

// HandleListShelters handles GET /api/evacuation/shelters
func (h *Handler) HandleListShelters(w http.ResponseWriter, r *http.Request) {
	status := models.ShelterStatus(r.URL.Query().Get("status"))
	available := r.URL.Query().Get("available") == "true"
	log.Printf("[HTTP] GET /api/evacuation/shelters: status=%s available=%t", status, available)

	if status != "" && !status.Valid() {
		h.handleValidationError(w, "Unknown shelter status", "INVALID_STATUS status")
		return
	}

	shelters, err := h.DB.Shelters().List(r.Context(), status)
	if err != nil {
		log.Printf("[ERROR] Failed to list shelters: status=%s err=%v", status, err)
		h.handleInternalError(w, err)
		return
	}

	if available {
		shelters = lo.Filter(shelters, func(s models.Shelter, _ int) bool {
			return s.Status == models.ShelterOpen && s.AvailableSpace() > 0
		})
	}

	log.Printf("[HTTP] Listed shelters: count=%d", len(shelters))
	h.writeSuccess(w, http.StatusOK, ShelterListResponse{
		Shelters: shelters,
		Total:    len(shelters),
	})
}

// HandleGetShelter handles GET /api/evacuation/shelters/{id}
func (h *Handler) HandleGetShelter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log.Printf("[HTTP] GET /api/evacuation/shelters/{id}: id=%s", id)

	shelter, err := h.DB.Shelters().GetByID(r.Context(), id)
	if h.checkNotFound(err) {
		h.handleNotFound(w, "Shelter not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to get shelter: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, shelter)
}

// OccupancyRequest is the body of PUT /api/evacuation/shelters/{id}/occupancy
type OccupancyRequest struct {
	CurrentOccupancy *int `json:"currentOccupancy" validate:"required,gte=0"`
}

// HandleUpdateOccupancy handles PUT /api/evacuation/shelters/{id}/occupancy
func (h *Handler) HandleUpdateOccupancy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req OccupancyRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleBadRequest(w, "Invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.handleStructError(w, err)
		return
	}

	log.Printf("[HTTP] PUT /api/evacuation/shelters/{id}/occupancy: id=%s occupancy=%d", id, *req.CurrentOccupancy)

	shelter, err := h.DB.Shelters().UpdateOccupancy(r.Context(), id, *req.CurrentOccupancy)
	if h.checkNotFound(err) {
		h.handleNotFound(w, "Shelter not found")
		return
	}
	if errors.Is(err, models.ErrOccupancyOutOfRange) {
		h.handleValidationError(w, err.Error(), "OUT_OF_RANGE currentOccupancy")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to update occupancy: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Updated occupancy: id=%s occupancy=%d status=%s", id, shelter.CurrentOccupancy, shelter.Status)
	h.writeSuccess(w, http.StatusOK, shelter)
}

// HandleSheltersKML handles GET /api/evacuation/shelters.kml
func (h *Handler) HandleSheltersKML(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] GET /api/evacuation/shelters.kml")

	shelters, err := h.DB.Shelters().List(r.Context(), "")
	if err != nil {
		log.Printf("[ERROR] Failed to list shelters for export: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="shelters.kml"`)
	if err := WriteSheltersKML(w, shelters); err != nil {
		log.Printf("[ERROR] Failed to write shelters KML: err=%v", err)
	}
}
