package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tempmonitor/internal/models"

	"github.com/google/uuid"
)

type ThresholdSQLite struct {
	db *sql.DB
}

func NewThresholdSQLite(db *sql.DB) *ThresholdSQLite { return &ThresholdSQLite{db: db} }

var _ ThresholdRepo = (*ThresholdSQLite)(nil)

const (
	insertThresholdSQL = `INSERT INTO thresholds (id, value, created_at) VALUES (?, ?, ?)`
	listThresholdsSQL  = `SELECT id, value, created_at FROM thresholds ORDER BY seq ASC`
	latestThresholdSQL = `SELECT id, value, created_at FROM thresholds ORDER BY seq DESC LIMIT 1`
)

// Create inserts a new threshold. ID and CreatedAt are set if empty.
func (r *ThresholdSQLite) Create(ctx context.Context, t models.Threshold) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertThresholdSQL, t.ID, t.Value, t.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert threshold: %w", err)
	}
	return nil
}

// List returns all thresholds in creation order.
func (r *ThresholdSQLite) List(ctx context.Context) ([]models.Threshold, error) {
	rows, err := r.db.QueryContext(ctx, listThresholdsSQL)
	if err != nil {
		return nil, fmt.Errorf("list thresholds: %w", err)
	}
	defer rows.Close()

	out := make([]models.Threshold, 0, 8)
	for rows.Next() {
		var t models.Threshold
		if err := rows.Scan(&t.ID, &t.Value, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.CreatedAt = t.CreatedAt.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the most recently created threshold, or nil if none exist.
func (r *ThresholdSQLite) Latest(ctx context.Context) (*models.Threshold, error) {
	var t models.Threshold
	err := r.db.QueryRowContext(ctx, latestThresholdSQL).Scan(&t.ID, &t.Value, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest threshold: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
