package flood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"klaew-klad/internal/models"
)

func TestSeverityForDepth(t *testing.T) {
	tests := []struct {
		depth    float64
		expected models.FloodSeverity
	}{
		{0, models.SeverityLow},
		{0.49, models.SeverityLow},
		{0.5, models.SeverityMedium},
		{1.49, models.SeverityMedium},
		{1.5, models.SeverityHigh},
		{2.2, models.SeverityHigh},
		{2.5, models.SeverityCritical},
		{4, models.SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SeverityForDepth(tt.depth), "depth %v", tt.depth)
	}
}

func TestPeakLevel(t *testing.T) {
	assert.Equal(t, 0.0, PeakLevel(nil))

	areas := []models.FloodArea{
		{ID: "a", WaterLevel: 1.8},
		{ID: "b", WaterLevel: 2.5},
		{ID: "c", WaterLevel: 2.2},
	}
	assert.Equal(t, 2.5, PeakLevel(areas))
}

func TestBuildStatus(t *testing.T) {
	now := time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC)
	areas := []models.FloodArea{
		{ID: "area_1", WaterLevel: 2.2, Status: models.AreaFlooding, Population: 15000},
		{ID: "area_2", WaterLevel: 1.0, Status: models.AreaWarning, Population: 20000},
		{ID: "area_3", WaterLevel: 3.0, Status: models.AreaNormal, Population: 10000},
	}
	shelters := []models.Shelter{
		{ID: "s1", Status: models.ShelterOpen, CurrentOccupancy: 100},
		{ID: "s2", Status: models.ShelterFull, CurrentOccupancy: 300},
		{ID: "s3", Status: models.ShelterClosed, CurrentOccupancy: 0},
		{ID: "s4", Status: models.ShelterOpen, CurrentOccupancy: 40},
	}

	status := BuildStatus(now, areas, shelters, models.Situation{RoadsClosed: 12})

	assert.Equal(t, now, status.Timestamp)
	assert.Equal(t, models.SeverityHigh, status.Severity, "normal areas do not count toward severity")
	assert.Len(t, status.AffectedAreas, 2)
	assert.Equal(t, models.FloodStatistics{
		TotalAffected:  35000,
		RoadsClosed:    12,
		SheltersActive: 2,
		Evacuated:      440,
	}, status.Statistics)
}

func TestBuildStatus_NoFlooding(t *testing.T) {
	status := BuildStatus(time.Now(), nil, nil, models.Situation{})

	assert.Equal(t, models.SeverityLow, status.Severity)
	assert.Empty(t, status.AffectedAreas)
	assert.Equal(t, 0, status.Statistics.TotalAffected)
}
