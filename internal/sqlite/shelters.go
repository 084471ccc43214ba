package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"klaew-klad/internal/database"
	"klaew-klad/internal/models"
)

type shelterRepository struct {
	store *Store
}

const shelterColumns = `id, name, capacity, current_occupancy, status, lat, lng, facilities, contact_phone`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShelter(row rowScanner) (*models.Shelter, error) {
	var s models.Shelter
	var facilities string
	if err := row.Scan(&s.ID, &s.Name, &s.Capacity, &s.CurrentOccupancy, &s.Status,
		&s.Coordinates.Lat, &s.Coordinates.Lng, &facilities, &s.ContactPhone); err != nil {
		return nil, err
	}

	list, err := decodeJSON[string](facilities)
	if err != nil {
		return nil, err
	}
	s.Facilities = list
	return &s, nil
}

func (r *shelterRepository) List(ctx context.Context, status models.ShelterStatus) ([]models.Shelter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if status != "" {
		query := `SELECT ` + shelterColumns + ` FROM shelters WHERE status = ? ORDER BY id`
		rows, err = r.store.db.QueryContext(ctx, query, string(status))
	} else {
		query := `SELECT ` + shelterColumns + ` FROM shelters ORDER BY id`
		rows, err = r.store.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query shelters: %w", err)
	}
	defer rows.Close()

	shelters := []models.Shelter{}
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shelter: %w", err)
		}
		shelters = append(shelters, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shelters: %w", err)
	}

	return shelters, nil
}

func (r *shelterRepository) GetByID(ctx context.Context, id string) (*models.Shelter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.get(ctx, r.store.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *shelterRepository) get(ctx context.Context, q queryRower, id string) (*models.Shelter, error) {
	query := `SELECT ` + shelterColumns + ` FROM shelters WHERE id = ?`

	s, err := scanShelter(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shelter: %w", err)
	}
	return s, nil
}

func (r *shelterRepository) Create(ctx context.Context, s *models.Shelter) (*models.Shelter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := insertShelter(ctx, r.store.db, s); err != nil {
		return nil, err
	}

	created := *s
	return &created, nil
}

func insertShelter(ctx context.Context, ex execer, s *models.Shelter) error {
	facilities, err := encodeJSON(s.Facilities)
	if err != nil {
		return err
	}

	query := `INSERT INTO shelters (` + shelterColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = ex.ExecContext(ctx, query,
		s.ID, s.Name, s.Capacity, s.CurrentOccupancy, string(s.Status),
		s.Coordinates.Lat, s.Coordinates.Lng, facilities, s.ContactPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to create shelter: %w", err)
	}
	return nil
}

func (r *shelterRepository) UpdateOccupancy(ctx context.Context, id string, occupancy int) (*models.Shelter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := s.SetOccupancy(occupancy); err != nil {
		return nil, err
	}

	query := `UPDATE shelters SET current_occupancy = ?, status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, s.CurrentOccupancy, string(s.Status), id); err != nil {
		return nil, fmt.Errorf("failed to update shelter occupancy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s, nil
}
