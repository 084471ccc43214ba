package flood

import (
	"time"

	"github.com/samber/lo"

	"klaew-klad/internal/models"
)

// SeverityForDepth grades a water level in metres
func SeverityForDepth(depth float64) models.FloodSeverity {
	switch {
	case depth < 0.5:
		return models.SeverityLow
	case depth < 1.5:
		return models.SeverityMedium
	case depth < 2.5:
		return models.SeverityHigh
	default:
		return models.SeverityCritical
	}
}

// PeakLevel returns the deepest water level among areas, 0 when there are none
func PeakLevel(areas []models.FloodArea) float64 {
	if len(areas) == 0 {
		return 0
	}
	deepest := lo.MaxBy(areas, func(a, b models.FloodArea) bool {
		return a.WaterLevel > b.WaterLevel
	})
	return deepest.WaterLevel
}

// BuildStatus aggregates stored records into a status snapshot. Areas in
// normal status are not reported as affected.
func BuildStatus(now time.Time, areas []models.FloodArea, shelters []models.Shelter, situation models.Situation) models.FloodStatus {
	affected := lo.Filter(areas, func(a models.FloodArea, _ int) bool {
		return a.Status != models.AreaNormal
	})

	return models.FloodStatus{
		Timestamp:     now,
		Severity:      SeverityForDepth(PeakLevel(affected)),
		AffectedAreas: affected,
		Statistics: models.FloodStatistics{
			TotalAffected: lo.SumBy(affected, func(a models.FloodArea) int { return a.Population }),
			RoadsClosed:   situation.RoadsClosed,
			SheltersActive: lo.CountBy(shelters, func(s models.Shelter) bool {
				return s.Status == models.ShelterOpen
			}),
			Evacuated: lo.SumBy(shelters, func(s models.Shelter) int { return s.CurrentOccupancy }),
		},
	}
}
