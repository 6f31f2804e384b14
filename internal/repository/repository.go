package repository

import (
	"context"
	"database/sql"

	"tempmonitor/internal/models"
	"tempmonitor/internal/repository/db"
)

// ThresholdRepo persists configured trigger thresholds. Creation-only.
type ThresholdRepo interface {
	Create(ctx context.Context, t models.Threshold) error
	List(ctx context.Context) ([]models.Threshold, error)
	Latest(ctx context.Context) (*models.Threshold, error)
}

// ReadingPage selects a window of triggered readings. After is the id of
// the last reading of the previous page; empty means start from the
// beginning. Limit <= 0 means no limit.
type ReadingPage struct {
	After string
	Limit int
}

// ReadingRepo persists triggered readings, ordered by (recorded_at, id).
type ReadingRepo interface {
	Append(ctx context.Context, r models.TriggeredReading) error
	List(ctx context.Context, p ReadingPage) ([]models.TriggeredReading, error)
}

type Repository struct {
	Thresholds ThresholdRepo
	Readings   ReadingRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Thresholds: NewThresholdSQLite(conn),
		Readings:   NewReadingSQLite(conn),
	}
}

// InitDB opens the SQLite database and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
