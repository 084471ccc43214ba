package flood

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaew-klad/internal/models"
	"klaew-klad/internal/sqlite"
)

var clock = time.Date(2025, 11, 24, 9, 41, 0, 0, time.UTC)

func setupService(t *testing.T) (*Service, *sqlite.Store) {
	store, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(context.Background(), clock))

	svc := NewService(store, 42).WithClock(func() time.Time { return clock })
	return svc, store
}

func TestService_CurrentStatus(t *testing.T) {
	svc, _ := setupService(t)

	status, err := svc.CurrentStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, clock, status.Timestamp)
	assert.Equal(t, models.SeverityCritical, status.Severity)
	assert.Len(t, status.AffectedAreas, 3)
	assert.Equal(t, models.FloodStatistics{
		TotalAffected:  45000,
		RoadsClosed:    23,
		SheltersActive: 8,
		Evacuated:      1240,
	}, status.Statistics)
}

func TestService_CurrentStatusFollowsUpdates(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	_, err := store.FloodAreas().UpdateLevel(ctx, "area_1", 0.3, models.AreaNormal)
	require.NoError(t, err)
	_, err = store.Shelters().UpdateOccupancy(ctx, "shelter_4", 200)
	require.NoError(t, err)

	status, err := svc.CurrentStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SeverityHigh, status.Severity)
	assert.Len(t, status.AffectedAreas, 2)
	assert.Equal(t, 30000, status.Statistics.TotalAffected)
	assert.Equal(t, 7, status.Statistics.SheltersActive)
	assert.Equal(t, 1351, status.Statistics.Evacuated)
}

func TestService_ForecastDeterministic(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.Forecast(ctx, 24)
	require.NoError(t, err)
	second, err := svc.Forecast(ctx, 24)
	require.NoError(t, err)

	require.Len(t, first, 24)
	assert.Equal(t, first, second)
	assert.Equal(t, clock.Truncate(time.Hour), first[0].Timestamp)
	assert.GreaterOrEqual(t, first[0].WaterLevel, 2.5)
	assert.LessOrEqual(t, first[0].WaterLevel, 2.8)
}

func TestService_HazardField(t *testing.T) {
	svc, _ := setupService(t)

	field, err := svc.HazardField(context.Background(), 0)
	require.NoError(t, err)

	assert.False(t, field.Empty())
	assert.Equal(t, 2.5, field.DepthAt(models.Coordinates{Lat: 7.0089, Lng: 100.4747}))
	assert.Equal(t, 0.0, field.DepthAt(models.Coordinates{Lat: 7.0312, Lng: 100.5012}))
}
