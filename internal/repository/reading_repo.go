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

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO triggered_readings (id, temperature, threshold_value, recorded_at)
		VALUES (?, ?, ?, ?)
	`
	listReadingsSQL = `
		SELECT id, temperature, threshold_value, recorded_at
		FROM triggered_readings
		ORDER BY recorded_at ASC, id ASC
	`
	listReadingsAfterSQL = `
		SELECT id, temperature, threshold_value, recorded_at
		FROM triggered_readings
		WHERE recorded_at > ? OR (recorded_at = ? AND id > ?)
		ORDER BY recorded_at ASC, id ASC
	`
	selectReadingCursorSQL = `SELECT recorded_at FROM triggered_readings WHERE id = ?`
)

// ErrCursorNotFound is returned when a pagination cursor references an
// unknown reading id.
var ErrCursorNotFound = errors.New("pagination cursor not found")

// Append inserts a new triggered reading. ID and RecordedAt are set if empty.
func (r *ReadingSQLite) Append(ctx context.Context, reading models.TriggeredReading) error {
	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		reading.ID,
		reading.Temperature,
		reading.ThresholdValue,
		reading.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert triggered reading: %w", err)
	}
	return nil
}

// List returns triggered readings ascending by (recorded_at, id). The
// keyset cursor makes pages stable under concurrent appends: rows are
// selected strictly after the cursor's sort key, never by position.
func (r *ReadingSQLite) List(ctx context.Context, p ReadingPage) ([]models.TriggeredReading, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if p.After != "" {
		var cursorAt time.Time
		err = r.db.QueryRowContext(ctx, selectReadingCursorSQL, p.After).Scan(&cursorAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrCursorNotFound
			}
			return nil, fmt.Errorf("resolve cursor %q: %w", p.After, err)
		}
		rows, err = r.db.QueryContext(ctx, listReadingsAfterSQL, cursorAt, cursorAt, p.After)
	} else {
		rows, err = r.db.QueryContext(ctx, listReadingsSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("list triggered readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.TriggeredReading, 0, 64)
	for rows.Next() {
		var reading models.TriggeredReading
		if err := rows.Scan(&reading.ID, &reading.Temperature, &reading.ThresholdValue, &reading.RecordedAt); err != nil {
			return nil, err
		}
		reading.RecordedAt = reading.RecordedAt.UTC()
		out = append(out, reading)
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
