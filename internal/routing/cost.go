package routing

import (
	"fmt"
	"math"

	"klaew-klad/internal/models"
)

// Profile holds the cost coefficients for one priority mode
type Profile struct {
	MinutesPerKm     float64
	AllowanceMinutes float64
	FloorMinutes     float64
	SafetyBase       float64
	SafetySpread     float64
	// SafetyFloor is approached but never reached as exposure grows
	SafetyFloor float64
}

// HazardWeight scales how quickly safety decays with hazard exposure
const HazardWeight = 0.5

// CostModel converts a path into duration and safety estimates
type CostModel struct {
	profiles map[models.Priority]Profile
}

// DefaultProfiles returns the reference coefficients. The allowance is the
// mean of the reference duration jitter, so expected durations are unchanged.
func DefaultProfiles() map[models.Priority]Profile {
	return map[models.Priority]Profile{
		models.PriorityFastest: {
			MinutesPerKm:     4,
			AllowanceMinutes: 5,
			FloorMinutes:     5,
			SafetyBase:       0.65,
			SafetySpread:     0.15,
			SafetyFloor:      0.01,
		},
		models.PrioritySafest: {
			MinutesPerKm:     6,
			AllowanceMinutes: 7.5,
			FloorMinutes:     8,
			SafetyBase:       0.85,
			SafetySpread:     0.10,
			SafetyFloor:      0.02,
		},
	}
}

// NewCostModel creates a cost model with the default profiles
func NewCostModel() *CostModel {
	return &CostModel{profiles: DefaultProfiles()}
}

func (m *CostModel) profile(priority models.Priority) (Profile, error) {
	p, ok := m.profiles[priority]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	return p, nil
}

func checkDistance(distanceKm float64) error {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, distanceKm)
	}
	return nil
}

// EstimateDuration returns travel time in minutes. It never drops below the
// priority's floor and grows linearly with distance above it.
func (m *CostModel) EstimateDuration(distanceKm float64, priority models.Priority) (float64, error) {
	p, err := m.profile(priority)
	if err != nil {
		return 0, err
	}
	if err := checkDistance(distanceKm); err != nil {
		return 0, err
	}

	return math.Max(p.FloorMinutes, distanceKm*p.MinutesPerKm+p.AllowanceMinutes), nil
}

// EstimateSafety returns a score in [0, 1]. The baseline is drawn from rng
// within the priority's band; exposure (metre-km of flood traversed, 0 when
// no hazard data) divides the part above the priority's floor, so more
// exposure always scores lower. Safest bands and floors sit more than 0.01
// above fastest ones, which keeps the two apart after rounding to cents.
func (m *CostModel) EstimateSafety(distanceKm float64, priority models.Priority, rng Rand, exposure float64) (float64, error) {
	p, err := m.profile(priority)
	if err != nil {
		return 0, err
	}
	if err := checkDistance(distanceKm); err != nil {
		return 0, err
	}
	if math.IsNaN(exposure) || exposure < 0 {
		exposure = 0
	}

	var u float64
	if rng != nil {
		u = rng.Float64()
	}

	base := p.SafetyBase + u*p.SafetySpread
	score := p.SafetyFloor + (base-p.SafetyFloor)/(1+HazardWeight*exposure)
	return clamp01(score), nil
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
