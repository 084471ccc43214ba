package routing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaew-klad/internal/geo"
	"klaew-klad/internal/models"
	"klaew-klad/internal/testutil"
)

func newTestService() *Service {
	return NewService(ServiceConfig{Seed: DefaultSeed, WaypointCount: DefaultWaypointCount})
}

func validRequest() *RouteRequest {
	return &RouteRequest{
		Origin:       testutil.CanalZone,
		Destinations: testutil.HatYaiDestinations(),
		Priority:     models.PriorityFastest,
	}
}

func TestComputeRoutes_ReferenceScenario(t *testing.T) {
	svc := newTestService()

	routes, err := svc.ComputeRoutes(context.Background(), &RouteRequest{
		Origin:       models.Coordinates{Lat: 7.0089, Lng: 100.4747},
		Destinations: []models.Destination{{ID: "shelter_1", Lat: 7.0234, Lng: 100.4901}},
		Priority:     models.PriorityFastest,
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, "route_1", r.ID)
	assert.Equal(t, "shelter_1", r.DestinationID)
	assert.InDelta(t, 2.4, r.DistanceKm, 0.1)
	assert.GreaterOrEqual(t, r.DurationMin, 5.0)
	assert.GreaterOrEqual(t, r.SafetyScore, 0.65)
	assert.LessOrEqual(t, r.SafetyScore, 0.80)
}

func TestComputeRoutes_Idempotent(t *testing.T) {
	svc := newTestService()

	first, err := svc.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := svc.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestComputeRoutes_SeedOverride(t *testing.T) {
	svc := newTestService()

	seeded := validRequest()
	other := uint64(1234)
	seeded.Seed = &other

	base, err := svc.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)
	overridden, err := svc.ComputeRoutes(context.Background(), seeded)
	require.NoError(t, err)

	var differs bool
	for i := range base {
		assert.Equal(t, base[i].DistanceKm, overridden[i].DistanceKm)
		assert.Equal(t, base[i].DurationMin, overridden[i].DurationMin)
		if base[i].SafetyScore != overridden[i].SafetyScore {
			differs = true
		}
	}
	assert.True(t, differs, "a different seed should change at least one safety score")

	again := NewService(ServiceConfig{Seed: other})
	fromConfig, err := again.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, overridden, fromConfig)
}

func TestComputeRoutes_ConcurrentCallsAgree(t *testing.T) {
	svc := newTestService()

	expected, err := svc.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]models.EvacuationRoute, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.ComputeRoutes(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestComputeRoutes_OrderMatchesInput(t *testing.T) {
	svc := newTestService()
	req := validRequest()
	req.Destinations = []models.Destination{
		req.Destinations[3], req.Destinations[0], req.Destinations[2],
	}

	routes, err := svc.ComputeRoutes(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "shelter_4", routes[0].DestinationID)
	assert.Equal(t, "shelter_1", routes[1].DestinationID)
	assert.Equal(t, "shelter_3", routes[2].DestinationID)
	assert.Equal(t, "route_3", routes[2].ID)
}

func TestComputeRoutes_HazardAware(t *testing.T) {
	svc := newTestService()
	hazard := &testutil.ConstantHazard{Value: 3}

	req := validRequest()
	req.Hazard = hazard

	plain, err := svc.ComputeRoutes(context.Background(), validRequest())
	require.NoError(t, err)
	wet, err := svc.ComputeRoutes(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, len(req.Destinations), hazard.Paths)
	for i := range plain {
		assert.Less(t, wet[i].SafetyScore, plain[i].SafetyScore)
		assert.Equal(t, plain[i].DurationMin, wet[i].DurationMin)
	}
}

func TestComputeRoutes_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *RouteRequest)
		field    string
		kind     string
		sentinel error
	}{
		{
			name:     "origin latitude out of range",
			mutate:   func(r *RouteRequest) { r.Origin.Lat = 200 },
			field:    "origin",
			kind:     KindInvalidCoordinate,
			sentinel: geo.ErrInvalidCoordinate,
		},
		{
			name:     "destination latitude out of range",
			mutate:   func(r *RouteRequest) { r.Destinations[1].Lat = 200 },
			field:    "destinations[1]",
			kind:     KindInvalidCoordinate,
			sentinel: geo.ErrInvalidCoordinate,
		},
		{
			name:     "unknown priority",
			mutate:   func(r *RouteRequest) { r.Priority = "cheapest" },
			field:    "priority",
			kind:     KindInvalidPriority,
			sentinel: ErrInvalidPriority,
		},
		{
			name:     "no destinations",
			mutate:   func(r *RouteRequest) { r.Destinations = nil },
			field:    "destinations",
			kind:     KindEmptyDestinationSet,
			sentinel: ErrEmptyDestinationSet,
		},
		{
			name:     "duplicate destination id",
			mutate:   func(r *RouteRequest) { r.Destinations[2].ID = r.Destinations[0].ID },
			field:    "destinations[2].id",
			kind:     KindInvalidDestinationID,
			sentinel: ErrInvalidDestinationID,
		},
		{
			name:     "missing destination id",
			mutate:   func(r *RouteRequest) { r.Destinations[0].ID = "" },
			field:    "destinations[0].id",
			kind:     KindInvalidDestinationID,
			sentinel: ErrInvalidDestinationID,
		},
	}

	svc := newTestService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			routes, err := svc.ComputeRoutes(context.Background(), req)
			assert.Nil(t, routes, "no partial results on validation failure")
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestComputeRoutes_CancelledContext(t *testing.T) {
	svc := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ComputeRoutes(ctx, validRequest())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsValidationError(err))
}
