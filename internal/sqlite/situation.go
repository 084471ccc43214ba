package sqlite

import (
	"context"
	"fmt"
	"time"

	"klaew-klad/internal/models"
)

type situationRepository struct {
	store *Store
}

func (r *situationRepository) Get(ctx context.Context) (*models.Situation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT roads_closed, updated_at FROM situation WHERE id = 1`

	var s models.Situation
	var updatedAt int64
	err := r.store.db.QueryRowContext(ctx, query).Scan(&s.RoadsClosed, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get situation: %w", err)
	}

	if updatedAt != 0 {
		s.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	}
	return &s, nil
}

func (r *situationRepository) Update(ctx context.Context, s *models.Situation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return updateSituation(ctx, r.store.db, s)
}

func updateSituation(ctx context.Context, ex execer, s *models.Situation) error {
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `UPDATE situation SET roads_closed = ?, updated_at = ? WHERE id = 1`
	_, err := ex.ExecContext(ctx, query, s.RoadsClosed, updatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update situation: %w", err)
	}

	return nil
}
