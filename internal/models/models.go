package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrOccupancyOutOfRange is returned for occupancy below zero or above capacity
var ErrOccupancyOutOfRange = errors.New("occupancy out of range")

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoundCoordinate rounds a coordinate to 5 decimal places (~1m precision)
func RoundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// Destination is a candidate evacuation target supplied by the caller
type Destination struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GetCoords returns the coordinates of the destination
func (d *Destination) GetCoords() Coordinates {
	return Coordinates{Lat: d.Lat, Lng: d.Lng}
}

// Priority selects the cost model weighting
type Priority string

const (
	PriorityFastest Priority = "fastest"
	PrioritySafest  Priority = "safest"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p == PriorityFastest || p == PrioritySafest
}

// EvacuationRoute is a single scored route from the origin to one destination
type EvacuationRoute struct {
	ID              string        `json:"id"`
	DestinationID   string        `json:"destination"`
	DistanceKm      float64       `json:"distance"`
	DurationMin     float64       `json:"duration"`
	SafetyScore     float64       `json:"safetyScore"`
	Waypoints       []Coordinates `json:"waypoints"`
	Instructions    []string      `json:"instructions"`
	EncodedPolyline string        `json:"encodedPolyline,omitempty"`
}

// ShelterStatus is the operating state of a shelter
type ShelterStatus string

const (
	ShelterOpen   ShelterStatus = "open"
	ShelterFull   ShelterStatus = "full"
	ShelterClosed ShelterStatus = "closed"
)

// Shelter is an entry in the evacuation destination directory
type Shelter struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Capacity         int           `json:"capacity"`
	CurrentOccupancy int           `json:"currentOccupancy"`
	Status           ShelterStatus `json:"status"`
	Coordinates      Coordinates   `json:"coordinates"`
	Facilities       []string      `json:"facilities"`
	ContactPhone     string        `json:"contactPhone,omitempty"`
}

// AvailableSpace returns the number of free places, never negative
func (s *Shelter) AvailableSpace() int {
	if s.CurrentOccupancy >= s.Capacity {
		return 0
	}
	return s.Capacity - s.CurrentOccupancy
}

// SetOccupancy records a new head count. The shelter becomes full at capacity
// and reopens below it; a closed shelter stays closed.
func (s *Shelter) SetOccupancy(n int) error {
	if n < 0 || n > s.Capacity {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOccupancyOutOfRange, n, s.Capacity)
	}
	s.CurrentOccupancy = n
	if s.Status == ShelterClosed {
		return nil
	}
	if n >= s.Capacity {
		s.Status = ShelterFull
	} else {
		s.Status = ShelterOpen
	}
	return nil
}

// Valid reports whether s is a known shelter status
func (s ShelterStatus) Valid() bool {
	switch s {
	case ShelterOpen, ShelterFull, ShelterClosed:
		return true
	}
	return false
}

// AsDestination converts the shelter to a routing destination
func (s *Shelter) AsDestination() Destination {
	return Destination{ID: s.ID, Lat: s.Coordinates.Lat, Lng: s.Coordinates.Lng}
}

// FloodSeverity grades the overall flood situation
type FloodSeverity string

const (
	SeverityLow      FloodSeverity = "low"
	SeverityMedium   FloodSeverity = "medium"
	SeverityHigh     FloodSeverity = "high"
	SeverityCritical FloodSeverity = "critical"
)

// AreaStatus is the state of an affected area
type AreaStatus string

const (
	AreaNormal     AreaStatus = "normal"
	AreaWarning    AreaStatus = "warning"
	AreaFlooding   AreaStatus = "flooding"
	AreaEvacuating AreaStatus = "evacuating"
)

// Valid reports whether s is a known area status
func (s AreaStatus) Valid() bool {
	switch s {
	case AreaNormal, AreaWarning, AreaFlooding, AreaEvacuating:
		return true
	}
	return false
}

// FloodArea is a monitored zone with its current water level in metres
type FloodArea struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	WaterLevel  float64       `json:"waterLevel"`
	Status      AreaStatus    `json:"status"`
	Population  int           `json:"population"`
	Coordinates Coordinates   `json:"coordinates"`
	Polygon     []Coordinates `json:"polygon,omitempty"`
}

// FloodStatistics contains aggregate figures for the flood situation
type FloodStatistics struct {
	TotalAffected  int `json:"totalAffected"`
	RoadsClosed    int `json:"roadsClosed"`
	SheltersActive int `json:"sheltersActive"`
	Evacuated      int `json:"evacuated"`
}

// Situation holds operator-maintained figures that are not derived from other records
type Situation struct {
	RoadsClosed int       `json:"roadsClosed"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FloodStatus is the current flood situation snapshot
type FloodStatus struct {
	Timestamp     time.Time       `json:"timestamp"`
	Severity      FloodSeverity   `json:"severity"`
	AffectedAreas []FloodArea     `json:"affectedAreas"`
	Statistics    FloodStatistics `json:"statistics"`
}

// FloodForecast is a single hourly forecast entry
type FloodForecast struct {
	Timestamp  time.Time     `json:"timestamp"`
	Severity   FloodSeverity `json:"severity"`
	WaterLevel float64       `json:"waterLevel"`
	Confidence float64       `json:"confidence"`
	Rainfall   float64       `json:"rainfall"`
}

// AlertSeverity grades a broadcast alert
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Valid reports whether s is a known alert severity
func (s AlertSeverity) Valid() bool {
	return s == AlertInfo || s == AlertWarning || s == AlertCritical
}

// Alert is a message broadcast to residents
type Alert struct {
	ID             string        `json:"id"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	Timestamp      time.Time     `json:"timestamp"`
	Expiry         *time.Time    `json:"expiry,omitempty"`
	Areas          []string      `json:"areas,omitempty"`
	ActionRequired bool          `json:"actionRequired"`
}

// Expired reports whether the alert has passed its expiry at the given time
func (a *Alert) Expired(now time.Time) bool {
	return a.Expiry != nil && !a.Expiry.After(now)
}
