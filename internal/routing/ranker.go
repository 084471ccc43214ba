package routing

import (
	"fmt"
	"math"

	"klaew-klad/internal/geo"
	"klaew-klad/internal/models"
)

// DefaultWaypointCount is origin, two midpoints and destination
const DefaultWaypointCount = 4

// Ranker builds one scored route per destination
type Ranker struct {
	cost      *CostModel
	waypoints int
}

// NewRanker creates a ranker; waypointCount below 2 falls back to DefaultWaypointCount
func NewRanker(cost *CostModel, waypointCount int) *Ranker {
	if cost == nil {
		cost = NewCostModel()
	}
	if waypointCount < 2 {
		waypointCount = DefaultWaypointCount
	}
	return &Ranker{cost: cost, waypoints: waypointCount}
}

// BuildRoute scores the route from origin to dest. sequenceIndex determines
// the route id, which is unique within a single response.
func (r *Ranker) BuildRoute(origin models.Coordinates, dest models.Destination, priority models.Priority, sequenceIndex int, rng Rand, hazard HazardContext) (models.EvacuationRoute, error) {
	target := dest.GetCoords()

	distanceKm, err := geo.Distance(origin, target)
	if err != nil {
		return models.EvacuationRoute{}, err
	}

	waypoints, err := geo.Waypoints(origin, target, r.waypoints)
	if err != nil {
		return models.EvacuationRoute{}, err
	}

	duration, err := r.cost.EstimateDuration(distanceKm, priority)
	if err != nil {
		return models.EvacuationRoute{}, err
	}

	var exposure float64
	if hazard != nil {
		exposure = hazard.Exposure(waypoints)
	}

	safety, err := r.cost.EstimateSafety(distanceKm, priority, rng, exposure)
	if err != nil {
		return models.EvacuationRoute{}, err
	}

	return models.EvacuationRoute{
		ID:              fmt.Sprintf("route_%d", sequenceIndex+1),
		DestinationID:   dest.ID,
		DistanceKm:      round2(distanceKm),
		DurationMin:     math.Round(duration),
		SafetyScore:     round2(safety),
		Waypoints:       waypoints,
		Instructions:    Instructions(distanceKm),
		EncodedPolyline: geo.EncodePolyline(waypoints),
	}, nil
}

// RankAll builds routes for every destination, preserving input order
func (r *Ranker) RankAll(origin models.Coordinates, destinations []models.Destination, priority models.Priority, rng Rand, hazard HazardContext) ([]models.EvacuationRoute, error) {
	if len(destinations) == 0 {
		return nil, ErrEmptyDestinationSet
	}

	routes := make([]models.EvacuationRoute, 0, len(destinations))
	for i, dest := range destinations {
		route, err := r.BuildRoute(origin, dest, priority, i, rng, hazard)
		if err != nil {
			return nil, fmt.Errorf("destination %s: %w", dest.ID, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
