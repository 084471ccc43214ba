package flood

import (
	"math"
	"time"

	"github.com/samber/lo"

	"klaew-klad/internal/models"
)

const (
	DefaultForecastHours = 24
	MaxForecastHours     = 72

	minForecastLevel = 0.5
)

// Rand is the jitter source for forecasts. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// ClampHours bounds a requested horizon to [1, MaxForecastHours]
func ClampHours(hours int) int {
	return lo.Clamp(hours, 1, MaxForecastHours)
}

// forecastSeverity follows the horizon, not the level: the first six hours
// are high, the rest of the first day medium.
func forecastSeverity(hour int) models.FloodSeverity {
	switch {
	case hour < 6:
		return models.SeverityHigh
	case hour < 24:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// Forecast returns hourly entries starting at now. The water level recedes
// from peak by 5 cm an hour with up to 30 cm of jitter and never goes below
// half a metre. Each entry draws two values from rng.
func Forecast(now time.Time, peak float64, hours int, rng Rand) []models.FloodForecast {
	hours = ClampHours(hours)

	forecasts := make([]models.FloodForecast, 0, hours)
	for i := 0; i < hours; i++ {
		h := float64(i)
		levelJitter := rng.Float64()
		rainJitter := rng.Float64()

		forecasts = append(forecasts, models.FloodForecast{
			Timestamp:  now.Add(time.Duration(i) * time.Hour),
			Severity:   forecastSeverity(i),
			WaterLevel: round2(math.Max(minForecastLevel, peak-0.05*h+0.3*levelJitter)),
			Confidence: round2(0.95 - 0.01*h),
			Rainfall:   round2(math.Max(0, 50-2*h+20*rainJitter)),
		})
	}
	return forecasts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
