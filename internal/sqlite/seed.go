package sqlite

import (
	"context"
	"fmt"
	"log"
	"time"

	"klaew-klad/internal/models"
)

// SeedRoadsClosed is the initial closed-road count for Hat Yai
const SeedRoadsClosed = 23

// HatYaiShelters returns the evacuation shelters the directory starts with
func HatYaiShelters() []models.Shelter {
	return []models.Shelter{
		{
			ID: "shelter_1", Name: "Prince of Songkla University Gym",
			Capacity: 500, CurrentOccupancy: 234, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0234, Lng: 100.4901},
			Facilities:   []string{"medical", "food", "power", "water", "restrooms"},
			ContactPhone: "+66-74-123-4567",
		},
		{
			ID: "shelter_2", Name: "Hat Yai Municipal Hall",
			Capacity: 300, CurrentOccupancy: 156, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0156, Lng: 100.4823},
			Facilities:   []string{"food", "power", "water", "restrooms"},
			ContactPhone: "+66-74-123-4568",
		},
		{
			ID: "shelter_3", Name: "Rajamangala Stadium",
			Capacity: 800, CurrentOccupancy: 445, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0198, Lng: 100.4689},
			Facilities:   []string{"medical", "food", "power", "water", "restrooms", "generators"},
			ContactPhone: "+66-74-123-4569",
		},
		{
			ID: "shelter_4", Name: "Community Center - Zone B",
			Capacity: 200, CurrentOccupancy: 89, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0034, Lng: 100.4712},
			Facilities:   []string{"food", "water", "restrooms"},
			ContactPhone: "+66-74-123-4570",
		},
		{
			ID: "shelter_5", Name: "Buddhist Temple - Wat Hat Yai",
			Capacity: 400, CurrentOccupancy: 201, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0123, Lng: 100.4856},
			Facilities:   []string{"medical", "food", "water", "restrooms"},
			ContactPhone: "+66-74-123-4571",
		},
		{
			ID: "shelter_6", Name: "Hat Yai International School",
			Capacity: 350, CurrentOccupancy: 0, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0267, Lng: 100.4934},
			Facilities:   []string{"medical", "food", "power", "water", "restrooms"},
			ContactPhone: "+66-74-123-4572",
		},
		{
			ID: "shelter_7", Name: "Central Mosque",
			Capacity: 250, CurrentOccupancy: 115, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0078, Lng: 100.4678},
			Facilities:   []string{"food", "water", "restrooms"},
			ContactPhone: "+66-74-123-4573",
		},
		{
			ID: "shelter_8", Name: "Green View Resort (Emergency)",
			Capacity: 600, CurrentOccupancy: 0, Status: models.ShelterOpen,
			Coordinates:  models.Coordinates{Lat: 7.0312, Lng: 100.5012},
			Facilities:   []string{"medical", "food", "power", "water", "restrooms", "generators", "beds"},
			ContactPhone: "+66-74-123-4574",
		},
	}
}

// HatYaiFloodAreas returns the monitored areas with their initial readings
func HatYaiFloodAreas() []models.FloodArea {
	return []models.FloodArea{
		{
			ID: "area_1", Name: "U-Tapao Canal Zone",
			WaterLevel: 2.5, Status: models.AreaFlooding, Population: 15000,
			Coordinates: models.Coordinates{Lat: 7.0089, Lng: 100.4747},
			Polygon: []models.Coordinates{
				{Lat: 7.0050, Lng: 100.4700},
				{Lat: 7.0050, Lng: 100.4800},
				{Lat: 7.0130, Lng: 100.4800},
				{Lat: 7.0130, Lng: 100.4700},
			},
		},
		{
			ID: "area_2", Name: "Central Business District",
			WaterLevel: 1.8, Status: models.AreaWarning, Population: 20000,
			Coordinates: models.Coordinates{Lat: 7.0067, Lng: 100.4725},
		},
		{
			ID: "area_3", Name: "Kho Hong Intersection",
			WaterLevel: 2.2, Status: models.AreaFlooding, Population: 10000,
			Coordinates: models.Coordinates{Lat: 7.0045, Lng: 100.4765},
		},
	}
}

// SeedAlerts returns the standing alerts, timestamped relative to now
func SeedAlerts(now time.Time) []models.Alert {
	return []models.Alert{
		{
			ID:        "alert_1",
			Severity:  models.AlertWarning,
			Title:     "U-Tapao Canal Water Level Rising",
			Message:   "Water level at U-Tapao Canal is rising. Residents in Zone A should prepare for potential evacuation.",
			Timestamp: now.Add(-1 * time.Hour),
			Areas:     []string{"zone_a"},
		},
		{
			ID:        "alert_2",
			Severity:  models.AlertInfo,
			Title:     "Shelter Capacity Update",
			Message:   "PSU Gym shelter now at 47% capacity. Additional shelters standing by.",
			Timestamp: now.Add(-3 * time.Hour),
		},
	}
}

// Seed fills an empty store with the Hat Yai reference data in a single
// transaction. A store that already has shelters is left untouched.
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shelters`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count shelters: %w", err)
	}
	if existing > 0 {
		return nil
	}

	shelters := HatYaiShelters()
	for i := range shelters {
		if err := insertShelter(ctx, tx, &shelters[i]); err != nil {
			return fmt.Errorf("failed to seed shelter %s: %w", shelters[i].ID, err)
		}
	}

	areas := HatYaiFloodAreas()
	for i := range areas {
		if err := insertFloodArea(ctx, tx, &areas[i]); err != nil {
			return fmt.Errorf("failed to seed flood area %s: %w", areas[i].ID, err)
		}
	}

	alerts := SeedAlerts(now)
	for i := range alerts {
		if err := insertAlert(ctx, tx, &alerts[i]); err != nil {
			return fmt.Errorf("failed to seed alert %s: %w", alerts[i].ID, err)
		}
	}

	if err := updateSituation(ctx, tx, &models.Situation{RoadsClosed: SeedRoadsClosed, UpdatedAt: now}); err != nil {
		return fmt.Errorf("failed to seed situation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Printf("[SQLITE] Seeded reference data: shelters=%d areas=%d alerts=%d", len(shelters), len(areas), len(alerts))
	return nil
}
