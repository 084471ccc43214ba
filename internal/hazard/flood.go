package hazard

import (
	"math"

	"klaew-klad/internal/geo"
	"klaew-klad/internal/models"
)

const (
	// DefaultRadiusMeters is the reach of an area that has no polygon
	DefaultRadiusMeters = 500.0

	// sampleStepKm is the spacing used when walking a path
	sampleStepKm = 0.05
)

type zone struct {
	center  models.Coordinates
	polygon []models.Coordinates
	depth   float64
}

// FloodField maps water depth over a set of flood areas
type FloodField struct {
	zones    []zone
	radiusKm float64
}

// NewFloodField builds a field from flood areas. Areas without a polygon reach
// radiusMeters around their centre; a non-positive radius uses DefaultRadiusMeters.
// Areas in normal status or with no standing water are ignored.
func NewFloodField(areas []models.FloodArea, radiusMeters float64) *FloodField {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	f := &FloodField{radiusKm: radiusMeters / 1000}
	for _, a := range areas {
		if a.Status == models.AreaNormal || a.WaterLevel <= 0 {
			continue
		}
		f.zones = append(f.zones, zone{
			center:  a.Coordinates,
			polygon: a.Polygon,
			depth:   a.WaterLevel,
		})
	}
	return f
}

// Empty reports whether the field has no flooded zones
func (f *FloodField) Empty() bool {
	return f == nil || len(f.zones) == 0
}

// DepthAt returns the deepest water level in metres covering p
func (f *FloodField) DepthAt(p models.Coordinates) float64 {
	if f.Empty() {
		return 0
	}

	var deepest float64
	for _, z := range f.zones {
		if !f.covers(z, p) {
			continue
		}
		deepest = math.Max(deepest, z.depth)
	}
	return deepest
}

func (f *FloodField) covers(z zone, p models.Coordinates) bool {
	if len(z.polygon) >= 3 {
		return geo.PointInPolygon(p, z.polygon)
	}
	d, err := geo.Distance(z.center, p)
	if err != nil {
		return false
	}
	return d <= f.radiusKm
}

// Exposure walks the path in short steps and integrates water depth over
// distance, returning metre-kilometres of flooded road traversed
func (f *FloodField) Exposure(path []models.Coordinates) float64 {
	if f.Empty() || len(path) < 2 {
		return 0
	}

	var exposure float64
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		legKm, err := geo.Distance(a, b)
		if err != nil || legKm == 0 {
			continue
		}

		steps := int(math.Ceil(legKm / sampleStepKm))
		stepKm := legKm / float64(steps)
		for s := 0; s < steps; s++ {
			// sample at the middle of each step
			mid, err := geo.Interpolate(a, b, (float64(s)+0.5)/float64(steps))
			if err != nil {
				continue
			}
			exposure += f.DepthAt(mid) * stepKm
		}
	}
	return exposure
}
