package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"klaew-klad/internal/geo"
	"klaew-klad/internal/models"
)

// DefaultSeed is used when no seed is configured
const DefaultSeed uint64 = 42

// pcgStream is the fixed second word of the PCG state
const pcgStream uint64 = 0x9e3779b97f4a7c15

// ServiceConfig configures the route service
type ServiceConfig struct {
	Seed          uint64
	WaypointCount int
}

// Service validates route requests and delegates scoring to the ranker
type Service struct {
	ranker *Ranker
	seed   uint64
}

// NewService creates the evacuation route service
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		ranker: NewRanker(NewCostModel(), cfg.WaypointCount),
		seed:   cfg.Seed,
	}
}

// ComputeRoutes validates the whole request before computing anything, so a
// rejected request never yields partial results. Each call draws jitter from
// its own generator, making output a pure function of request and seed.
func (s *Service) ComputeRoutes(ctx context.Context, req *RouteRequest) ([]models.EvacuationRoute, error) {
	if req == nil {
		return nil, newValidationError("request", ErrEmptyDestinationSet)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := Validate(req); err != nil {
		log.Printf("[ROUTING] Request rejected: field=%s kind=%s", err.Field, err.Kind)
		return nil, err
	}

	start := time.Now()
	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewPCG(seed, pcgStream))

	routes, err := s.ranker.RankAll(req.Origin, req.Destinations, req.Priority, rng, req.Hazard)
	if err != nil {
		// Validate covers every input RankAll rejects; reaching here is a bug
		return nil, fmt.Errorf("failed to rank routes: %w", err)
	}

	log.Printf("[ROUTING] Computed routes: destinations=%d priority=%s hazard=%t duration=%v",
		len(routes), req.Priority, req.Hazard != nil, time.Since(start))
	return routes, nil
}

// Validate checks origin, priority and every destination. It returns the
// first offending field.
func Validate(req *RouteRequest) *ValidationError {
	if err := geo.Validate(req.Origin); err != nil {
		return newValidationError("origin", err)
	}

	if !req.Priority.Valid() {
		return newValidationError("priority", fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority))
	}

	if len(req.Destinations) == 0 {
		return newValidationError("destinations", ErrEmptyDestinationSet)
	}

	seen := make(map[string]bool, len(req.Destinations))
	for i, d := range req.Destinations {
		field := fmt.Sprintf("destinations[%d]", i)
		if d.ID == "" {
			return newValidationError(field+".id", fmt.Errorf("%w: id is required", ErrInvalidDestinationID))
		}
		if seen[d.ID] {
			return newValidationError(field+".id", fmt.Errorf("%w: duplicate id %q", ErrInvalidDestinationID, d.ID))
		}
		seen[d.ID] = true

		if err := geo.Validate(d.GetCoords()); err != nil {
			return newValidationError(field, err)
		}
	}

	return nil
}

// IsValidationError reports whether err is a request validation failure
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
