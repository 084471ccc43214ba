package database

import (
	"context"
	"time"

	"klaew-klad/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Shelters() ShelterRepository
	FloodAreas() FloodAreaRepository
	Situation() SituationRepository
	Alerts() AlertRepository
}

// ShelterRepository handles shelter directory persistence
type ShelterRepository interface {
	// List returns shelters ordered by id; an empty status returns all of them
	List(ctx context.Context, status models.ShelterStatus) ([]models.Shelter, error)
	GetByID(ctx context.Context, id string) (*models.Shelter, error)
	Create(ctx context.Context, s *models.Shelter) (*models.Shelter, error)
	UpdateOccupancy(ctx context.Context, id string, occupancy int) (*models.Shelter, error)
}

// FloodAreaRepository handles monitored flood area persistence
type FloodAreaRepository interface {
	List(ctx context.Context) ([]models.FloodArea, error)
	GetByID(ctx context.Context, id string) (*models.FloodArea, error)
	Create(ctx context.Context, a *models.FloodArea) (*models.FloodArea, error)
	UpdateLevel(ctx context.Context, id string, waterLevel float64, status models.AreaStatus) (*models.FloodArea, error)
}

// SituationRepository handles the single-row situation record
type SituationRepository interface {
	Get(ctx context.Context) (*models.Situation, error)
	Update(ctx context.Context, s *models.Situation) error
}

// AlertRepository handles broadcast alert persistence
type AlertRepository interface {
	// ListActive returns alerts not expired at now, newest first
	ListActive(ctx context.Context, now time.Time) ([]models.Alert, error)
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	Create(ctx context.Context, a *models.Alert) (*models.Alert, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
