package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"klaew-klad/internal/database"
	"klaew-klad/internal/models"
)

type alertRepository struct {
	store *Store
}

const alertColumns = `id, severity, title, message, created_at, expires_at, areas, action_required`

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	var createdAt int64
	var expiresAt sql.NullInt64
	var areas string
	var actionRequired int

	if err := row.Scan(&a.ID, &a.Severity, &a.Title, &a.Message, &createdAt, &expiresAt, &areas, &actionRequired); err != nil {
		return nil, err
	}

	a.Timestamp = time.UnixMilli(createdAt).UTC()
	if expiresAt.Valid {
		expiry := time.UnixMilli(expiresAt.Int64).UTC()
		a.Expiry = &expiry
	}
	a.ActionRequired = actionRequired == 1

	list, err := decodeJSON[string](areas)
	if err != nil {
		return nil, err
	}
	a.Areas = list
	return &a, nil
}

func (r *alertRepository) ListActive(ctx context.Context, now time.Time) ([]models.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT ` + alertColumns + `
	          FROM alerts
	          WHERE expires_at IS NULL OR expires_at > ?
	          ORDER BY created_at DESC, id DESC`

	rows, err := r.store.db.QueryContext(ctx, query, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`

	a, err := scanAlert(r.store.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return a, nil
}

func (r *alertRepository) Create(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := insertAlert(ctx, r.store.db, a); err != nil {
		return nil, err
	}

	// stored times have millisecond precision
	created := *a
	created.Timestamp = time.UnixMilli(a.Timestamp.UnixMilli()).UTC()
	if a.Expiry != nil {
		expiry := time.UnixMilli(a.Expiry.UnixMilli()).UTC()
		created.Expiry = &expiry
	}
	return &created, nil
}

func insertAlert(ctx context.Context, ex execer, a *models.Alert) error {
	areas, err := encodeJSON(a.Areas)
	if err != nil {
		return err
	}

	var expiresAt *int64
	if a.Expiry != nil {
		ms := a.Expiry.UnixMilli()
		expiresAt = &ms
	}

	actionRequired := 0
	if a.ActionRequired {
		actionRequired = 1
	}

	query := `INSERT INTO alerts (` + alertColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = ex.ExecContext(ctx, query,
		a.ID, string(a.Severity), a.Title, a.Message, a.Timestamp.UnixMilli(), expiresAt, areas, actionRequired,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *alertRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `DELETE FROM alerts WHERE expires_at IS NOT NULL AND expires_at <= ?`
	result, err := r.store.db.ExecContext(ctx, query, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired alerts: %w", err)
	}

	return result.RowsAffected()
}
