package flood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaew-klad/internal/models"
	"klaew-klad/internal/testutil"
)

func TestClampHours(t *testing.T) {
	assert.Equal(t, 1, ClampHours(0))
	assert.Equal(t, 1, ClampHours(-5))
	assert.Equal(t, 24, ClampHours(24))
	assert.Equal(t, 72, ClampHours(72))
	assert.Equal(t, 72, ClampHours(500))
}

func TestForecast_Shape(t *testing.T) {
	now := time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC)
	rng := testutil.NewSequenceRand(0.5)

	forecasts := Forecast(now, 2.5, 30, rng)
	require.Len(t, forecasts, 30)
	assert.Equal(t, 60, rng.Calls)

	first := forecasts[0]
	assert.Equal(t, now, first.Timestamp)
	assert.Equal(t, models.SeverityHigh, first.Severity)
	assert.Equal(t, 2.65, first.WaterLevel)
	assert.Equal(t, 0.95, first.Confidence)
	assert.Equal(t, 60.0, first.Rainfall)

	assert.Equal(t, now.Add(6*time.Hour), forecasts[6].Timestamp)
	assert.Equal(t, models.SeverityMedium, forecasts[6].Severity)
	assert.Equal(t, models.SeverityLow, forecasts[24].Severity)
	assert.Equal(t, 0.71, forecasts[24].Confidence)
}

func TestForecast_Floors(t *testing.T) {
	forecasts := Forecast(time.Now(), 0.2, 72, &testutil.FixedRand{Value: 0})
	require.Len(t, forecasts, 72)

	for _, f := range forecasts {
		assert.GreaterOrEqual(t, f.WaterLevel, 0.5)
		assert.GreaterOrEqual(t, f.Rainfall, 0.0)
	}
	assert.Equal(t, 0.0, forecasts[71].Rainfall)
}

func TestForecast_ClampsHorizon(t *testing.T) {
	rng := &testutil.FixedRand{Value: 0.1}

	assert.Len(t, Forecast(time.Now(), 2, 0, rng), 1)
	assert.Len(t, Forecast(time.Now(), 2, 200, rng), MaxForecastHours)
}
