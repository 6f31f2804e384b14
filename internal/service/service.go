package service

import (
	"context"

	"tempmonitor/internal/models"
	"tempmonitor/internal/repository"
)

// Sessions issues, validates and revokes bearer tokens for the single
// administrative identity.
type Sessions interface {
	Login(username, password string) (models.Session, error)
	Validate(token string) (models.Session, error)
	Revoke(token string)
}

// Thresholds exposes the configured trigger thresholds. Creation-only;
// write access is gated by the HTTP layer's auth middleware.
type Thresholds interface {
	Create(ctx context.Context, value float64) (models.Threshold, error)
	List(ctx context.Context) ([]models.Threshold, error)
	Latest(ctx context.Context) (*models.Threshold, error)
}

// Readings serves the triggered readings history, ascending by
// (recorded_at, id) with keyset pagination.
type Readings interface {
	List(ctx context.Context, p repository.ReadingPage) ([]models.TriggeredReading, error)
}

// Live exposes the telemetry subscriber's latest snapshot.
type Live interface {
	Snapshot() models.TelemetrySnapshot
}

// Service aggregates the sub-services consumed by the HTTP layer.
type Service struct {
	Sessions
	Thresholds
	Readings
	Live
}

// AdminConfig is the single configured identity allowed to log in.
// PasswordHash (bcrypt) takes precedence over Password when set.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

func NewService(repos *repository.Repository, admin AdminConfig, live Live) *Service {
	return &Service{
		Sessions:   NewSessionService(admin),
		Thresholds: NewThresholdService(repos.Thresholds),
		Readings:   NewReadingsService(repos.Readings),
		Live:       live,
	}
}
