package routing

import (
	"context"

	"klaew-klad/internal/models"
)

// Rand is the source of jitter for safety scoring. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// HazardContext reports how much hazard a path traverses. The flood field in
// internal/hazard implements it; higher values mean more dangerous paths.
type HazardContext interface {
	Exposure(path []models.Coordinates) float64
}

// RouteRequest contains the input for evacuation route computation
type RouteRequest struct {
	Origin       models.Coordinates
	Destinations []models.Destination
	Priority     models.Priority

	// Hazard is optional; nil means safety is scored without hazard data
	Hazard HazardContext

	// Seed overrides the planner's configured seed when set
	Seed *uint64
}

// Planner computes evacuation routes
type Planner interface {
	ComputeRoutes(ctx context.Context, req *RouteRequest) ([]models.EvacuationRoute, error)
}
