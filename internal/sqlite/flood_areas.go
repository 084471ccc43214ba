package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"klaew-klad/internal/database"
	"klaew-klad/internal/models"
)

type floodAreaRepository struct {
	store *Store
}

const floodAreaColumns = `id, name, water_level, status, population, lat, lng, polygon`

func scanFloodArea(row rowScanner) (*models.FloodArea, error) {
	var a models.FloodArea
	var polygon string
	if err := row.Scan(&a.ID, &a.Name, &a.WaterLevel, &a.Status, &a.Population,
		&a.Coordinates.Lat, &a.Coordinates.Lng, &polygon); err != nil {
		return nil, err
	}

	vertices, err := decodeJSON[models.Coordinates](polygon)
	if err != nil {
		return nil, err
	}
	a.Polygon = vertices
	return &a, nil
}

func (r *floodAreaRepository) List(ctx context.Context) ([]models.FloodArea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT ` + floodAreaColumns + ` FROM flood_areas ORDER BY id`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flood areas: %w", err)
	}
	defer rows.Close()

	areas := []models.FloodArea{}
	for rows.Next() {
		a, err := scanFloodArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flood area: %w", err)
		}
		areas = append(areas, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flood areas: %w", err)
	}

	return areas, nil
}

func (r *floodAreaRepository) GetByID(ctx context.Context, id string) (*models.FloodArea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.get(ctx, r.store.db, id)
}

func (r *floodAreaRepository) get(ctx context.Context, q queryRower, id string) (*models.FloodArea, error) {
	query := `SELECT ` + floodAreaColumns + ` FROM flood_areas WHERE id = ?`

	a, err := scanFloodArea(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flood area: %w", err)
	}
	return a, nil
}

func (r *floodAreaRepository) Create(ctx context.Context, a *models.FloodArea) (*models.FloodArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := insertFloodArea(ctx, r.store.db, a); err != nil {
		return nil, err
	}

	created := *a
	return &created, nil
}

func insertFloodArea(ctx context.Context, ex execer, a *models.FloodArea) error {
	polygon, err := encodeJSON(a.Polygon)
	if err != nil {
		return err
	}

	query := `INSERT INTO flood_areas (` + floodAreaColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = ex.ExecContext(ctx, query,
		a.ID, a.Name, a.WaterLevel, string(a.Status), a.Population,
		a.Coordinates.Lat, a.Coordinates.Lng, polygon,
	)
	if err != nil {
		return fmt.Errorf("failed to create flood area: %w", err)
	}
	return nil
}

func (r *floodAreaRepository) UpdateLevel(ctx context.Context, id string, waterLevel float64, status models.AreaStatus) (*models.FloodArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `UPDATE flood_areas SET water_level = ?, status = ? WHERE id = ?`
	result, err := r.store.db.ExecContext(ctx, query, waterLevel, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update flood area: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, database.ErrNotFound
	}

	return r.get(ctx, r.store.db, id)
}
