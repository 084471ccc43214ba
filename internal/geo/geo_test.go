package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaew-klad/internal/models"
)

var (
	canalZone = models.Coordinates{Lat: 7.0089, Lng: 100.4747}
	psuGym    = models.Coordinates{Lat: 7.0234, Lng: 100.4901}
	cityHall  = models.Coordinates{Lat: 7.0156, Lng: 100.4823}
	stadium   = models.Coordinates{Lat: 7.0198, Lng: 100.4689}
)

func TestDistance_HatYai(t *testing.T) {
	d, err := Distance(canalZone, psuGym)
	require.NoError(t, err)

	assert.Greater(t, d, 2.3)
	assert.Less(t, d, 2.5)
}

func TestDistance_KnownLongHaul(t *testing.T) {
	// Angels Camp to Murphys, roughly 11 km
	d, err := Distance(
		models.Coordinates{Lat: 38.0675, Lng: -120.5436},
		models.Coordinates{Lat: 38.1391, Lng: -120.4561},
	)
	require.NoError(t, err)
	assert.InDelta(t, 11.046, d, 0.1)
}

func TestDistance_Symmetric(t *testing.T) {
	points := []models.Coordinates{canalZone, psuGym, cityHall, stadium, {Lat: -33.86, Lng: 151.2}, {Lat: 51.5, Lng: -0.12}}

	for _, a := range points {
		for _, b := range points {
			ab, err := Distance(a, b)
			require.NoError(t, err)
			ba, err := Distance(b, a)
			require.NoError(t, err)
			assert.InDelta(t, ab, ba, 1e-9)
		}
	}
}

func TestDistance_ZeroIffEqual(t *testing.T) {
	d, err := Distance(psuGym, psuGym)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	nearby := models.Coordinates{Lat: psuGym.Lat + 0.00001, Lng: psuGym.Lng}
	d, err = Distance(psuGym, nearby)
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
}

func TestDistance_TriangleInequality(t *testing.T) {
	points := []models.Coordinates{canalZone, psuGym, cityHall, stadium}

	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				ab, _ := Distance(a, b)
				bc, _ := Distance(b, c)
				ac, _ := Distance(a, c)
				assert.LessOrEqual(t, ac, ab+bc+1e-9)
			}
		}
	}
}

func TestDistance_InvalidCoordinate(t *testing.T) {
	tests := []struct {
		name  string
		point models.Coordinates
	}{
		{"latitude too high", models.Coordinates{Lat: 200, Lng: 100}},
		{"latitude too low", models.Coordinates{Lat: -90.5, Lng: 100}},
		{"longitude too high", models.Coordinates{Lat: 7, Lng: 180.1}},
		{"longitude too low", models.Coordinates{Lat: 7, Lng: -300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distance(canalZone, tt.point)
			assert.True(t, errors.Is(err, ErrInvalidCoordinate))

			_, err = Distance(tt.point, canalZone)
			assert.True(t, errors.Is(err, ErrInvalidCoordinate))
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	assert.NoError(t, Validate(models.Coordinates{Lat: 90, Lng: 180}))
	assert.NoError(t, Validate(models.Coordinates{Lat: -90, Lng: -180}))
}

func TestInterpolate(t *testing.T) {
	start, err := Interpolate(canalZone, psuGym, 0)
	require.NoError(t, err)
	assert.Equal(t, canalZone, start)

	end, err := Interpolate(canalZone, psuGym, 1)
	require.NoError(t, err)
	assert.Equal(t, psuGym, end)

	mid, err := Interpolate(canalZone, psuGym, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.01615, mid.Lat, 1e-9)
	assert.InDelta(t, 100.4824, mid.Lng, 1e-9)

	_, err = Interpolate(canalZone, psuGym, 1.5)
	assert.True(t, errors.Is(err, ErrInvalidFraction))

	_, err = Interpolate(canalZone, models.Coordinates{Lat: 200}, 0.5)
	assert.True(t, errors.Is(err, ErrInvalidCoordinate))
}

func TestWaypoints(t *testing.T) {
	points, err := Waypoints(canalZone, psuGym, 4)
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, canalZone, points[0])
	assert.Equal(t, psuGym, points[3])

	// Evenly spaced: each leg has the same length
	leg1 := haversine(points[0], points[1])
	leg2 := haversine(points[1], points[2])
	leg3 := haversine(points[2], points[3])
	assert.InDelta(t, leg1, leg2, 1e-4)
	assert.InDelta(t, leg2, leg3, 1e-4)
}

func TestWaypoints_TwoPoints(t *testing.T) {
	points, err := Waypoints(cityHall, stadium, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.Coordinates{cityHall, stadium}, points)
}

func TestWaypoints_TooFew(t *testing.T) {
	_, err := Waypoints(cityHall, stadium, 1)
	assert.True(t, errors.Is(err, ErrTooFewWaypoints))
}

func TestPathLength(t *testing.T) {
	points, err := Waypoints(canalZone, psuGym, 6)
	require.NoError(t, err)

	direct, err := Distance(canalZone, psuGym)
	require.NoError(t, err)

	assert.InDelta(t, direct, PathLength(points), 1e-3)
	assert.Equal(t, 0.0, PathLength(nil))
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []models.Coordinates{canalZone, cityHall, psuGym}

	encoded := EncodePolyline(path)
	require.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lng, decoded[i].Lng, 1e-5)
	}

	assert.Equal(t, "", EncodePolyline(nil))
	_, err = DecodePolyline("")
	assert.Error(t, err)
}

func TestPointInPolygon(t *testing.T) {
	square := []models.Coordinates{
		{Lat: 7.0050, Lng: 100.4700},
		{Lat: 7.0050, Lng: 100.4800},
		{Lat: 7.0130, Lng: 100.4800},
		{Lat: 7.0130, Lng: 100.4700},
	}

	assert.True(t, PointInPolygon(canalZone, square))
	assert.False(t, PointInPolygon(psuGym, square))
	assert.False(t, PointInPolygon(canalZone, square[:2]))
}
