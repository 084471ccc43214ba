package flood

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"klaew-klad/internal/database"
	"klaew-klad/internal/hazard"
	"klaew-klad/internal/models"
)

const pcgStream uint64 = 0xda3e39cb94b95bdb

// Service reads flood records from the store and derives status, forecasts
// and the hazard field used for routing
type Service struct {
	store database.DataStore
	seed  uint64
	now   func() time.Time
}

// NewService creates the flood service. Forecast jitter is seeded with seed.
func NewService(store database.DataStore, seed uint64) *Service {
	return &Service{
		store: store,
		seed:  seed,
		now:   time.Now,
	}
}

// WithClock replaces the time source, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CurrentStatus builds the status snapshot from stored areas, shelters and situation
func (s *Service) CurrentStatus(ctx context.Context) (*models.FloodStatus, error) {
	areas, err := s.store.FloodAreas().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flood areas: %w", err)
	}

	shelters, err := s.store.Shelters().List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list shelters: %w", err)
	}

	situation, err := s.store.Situation().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get situation: %w", err)
	}

	status := BuildStatus(s.now().UTC(), areas, shelters, *situation)
	return &status, nil
}

// Forecast projects the current peak level hours ahead
func (s *Service) Forecast(ctx context.Context, hours int) ([]models.FloodForecast, error) {
	areas, err := s.store.FloodAreas().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flood areas: %w", err)
	}

	rng := rand.New(rand.NewPCG(s.seed, pcgStream))
	start := s.now().UTC().Truncate(time.Hour)
	return Forecast(start, PeakLevel(areas), hours, rng), nil
}

// HazardField builds the flood field from the stored areas
func (s *Service) HazardField(ctx context.Context, radiusMeters float64) (*hazard.FloodField, error) {
	areas, err := s.store.FloodAreas().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flood areas: %w", err)
	}
	return hazard.NewFloodField(areas, radiusMeters), nil
}
