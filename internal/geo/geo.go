package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"

	"klaew-klad/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula
const EarthRadiusKm = 6371.0

var (
	// ErrInvalidCoordinate is returned for latitudes outside [-90, 90] or longitudes outside [-180, 180]
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidFraction is returned when an interpolation fraction is outside [0, 1]
	ErrInvalidFraction = errors.New("interpolation fraction out of range")
	// ErrTooFewWaypoints is returned when fewer than two waypoints are requested
	ErrTooFewWaypoints = errors.New("at least two waypoints are required")
)

// Validate checks that c lies within the valid latitude/longitude range
func Validate(c models.Coordinates) error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// Distance returns the great-circle distance in kilometres between a and b
func Distance(a, b models.Coordinates) (float64, error) {
	if err := Validate(a); err != nil {
		return 0, err
	}
	if err := Validate(b); err != nil {
		return 0, err
	}
	return haversine(a, b), nil
}

func haversine(a, b models.Coordinates) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Interpolate returns the point a fraction t of the way from a to b.
// Interpolation is linear in lat/lng space, which is adequate at city scale.
func Interpolate(a, b models.Coordinates, t float64) (models.Coordinates, error) {
	if err := Validate(a); err != nil {
		return models.Coordinates{}, err
	}
	if err := Validate(b); err != nil {
		return models.Coordinates{}, err
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrInvalidFraction, t)
	}
	return lerp(a, b, t), nil
}

// lerp is written as a*(1-t) + b*t so that t=0 and t=1 reproduce the endpoints exactly
func lerp(a, b models.Coordinates, t float64) models.Coordinates {
	return models.Coordinates{
		Lat: a.Lat*(1-t) + b.Lat*t,
		Lng: a.Lng*(1-t) + b.Lng*t,
	}
}

// Waypoints returns n evenly spaced points from a to b inclusive
func Waypoints(a, b models.Coordinates, n int) ([]models.Coordinates, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, n)
	}
	if err := Validate(a); err != nil {
		return nil, err
	}
	if err := Validate(b); err != nil {
		return nil, err
	}

	points := make([]models.Coordinates, n)
	for k := 0; k < n; k++ {
		points[k] = lerp(a, b, float64(k)/float64(n-1))
	}
	return points, nil
}

// PathLength returns the summed great-circle length in kilometres of a path
func PathLength(path []models.Coordinates) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += haversine(path[i-1], path[i])
	}
	return total
}

// EncodePolyline encodes a path with the Google polyline algorithm (5 decimal precision)
func EncodePolyline(path []models.Coordinates) string {
	if len(path) == 0 {
		return ""
	}
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline decodes a Google polyline string into a path
func DecodePolyline(encoded string) ([]models.Coordinates, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	path := make([]models.Coordinates, len(coords))
	for i, c := range coords {
		path[i] = models.Coordinates{Lat: c[0], Lng: c[1]}
		if err := Validate(path[i]); err != nil {
			return nil, err
		}
	}
	return path, nil
}

// PointInPolygon reports whether p lies inside the polygon using ray casting.
// The polygon may be open or closed; fewer than three vertices never contain a point.
func PointInPolygon(p models.Coordinates, polygon []models.Coordinates) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := polygon[i], polygon[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			crossLng := (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lng
			if p.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
