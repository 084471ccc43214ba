package routing

import "fmt"

// Instructions renders the turn-by-turn template for a route of the given
// length. The text is advisory and is not derived from road geometry.
func Instructions(distanceKm float64) []string {
	return []string{
		"Head north on main road",
		"Turn right at intersection",
		fmt.Sprintf("Continue for %.1f km", distanceKm*0.6),
		"Avoid flooded areas",
		"Arrive at shelter",
	}
}
