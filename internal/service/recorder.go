package service

import (
	"context"
	"time"

	"tempmonitor/internal/logger"
	"tempmonitor/internal/models"
	"tempmonitor/internal/repository"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
)

// RecorderConfig bounds how long a persistence write may hold up the
// telemetry receive loop.
type RecorderConfig struct {
	WriteTimeout time.Duration
	MaxAttempts  uint
	RetryDelay   time.Duration
}

// DefaultRecorderConfig returns sane write bounds.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		WriteTimeout: 2 * time.Second,
		MaxAttempts:  3,
		RetryDelay:   100 * time.Millisecond,
	}
}

// RecorderService evaluates each incoming sample against the configured
// thresholds and records one triggered reading per qualifying sample.
//
// Crossing means the sample meets or exceeds a threshold value. When
// several thresholds are crossed at once, the reading is recorded
// against the lowest crossed value (equal values: earliest created).
// Evaluation carries no edge state: a sample that stays above threshold
// triggers again on every arrival.
type RecorderService struct {
	thresholdRepo repository.ThresholdRepo
	readingRepo   repository.ReadingRepo
	cfg           RecorderConfig
	log           *logger.Logger
}

func NewRecorderService(thresholdRepo repository.ThresholdRepo, readingRepo repository.ReadingRepo, cfg RecorderConfig, log *logger.Logger) *RecorderService {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultRecorderConfig().WriteTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultRecorderConfig().MaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRecorderConfig().RetryDelay
	}
	return &RecorderService{
		thresholdRepo: thresholdRepo,
		readingRepo:   readingRepo,
		cfg:           cfg,
		log:           log,
	}
}

// HandleSample is invoked synchronously by the telemetry subscriber for
// every parsed sample. It must return promptly: writes run under a short
// timeout with bounded retries, and a failed write drops the reading
// with a logged error rather than blocking the feed.
func (s *RecorderService) HandleSample(sample models.TemperatureSample) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	thresholds, err := s.thresholdRepo.List(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("threshold_load_failed", "err", err)
		}
		return
	}

	crossed, ok := pickCrossed(thresholds, sample.Value)
	if !ok {
		return
	}

	reading := models.TriggeredReading{
		ID:             uuid.NewString(),
		Temperature:    sample.Value,
		ThresholdValue: crossed.Value,
		RecordedAt:     time.Now().UTC(),
	}

	err = retry.Do(
		func() error { return s.readingRepo.Append(ctx, reading) },
		retry.Attempts(s.cfg.MaxAttempts),
		retry.Delay(s.cfg.RetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		// Data loss is acceptable for this telemetry log; the feed is not.
		if s.log != nil {
			s.log.Errorw("reading_dropped", "err", err, "temperature", sample.Value, "threshold", crossed.Value)
		}
		return
	}

	if s.log != nil {
		s.log.Infow("reading_recorded", "temperature", sample.Value, "threshold", crossed.Value)
	}
}

// pickCrossed returns the threshold the sample is recorded against: the
// lowest crossed value, ties broken by creation order (the input slice
// is already in creation order).
func pickCrossed(thresholds []models.Threshold, value float64) (models.Threshold, bool) {
	var (
		best  models.Threshold
		found bool
	)
	for _, t := range thresholds {
		if value < t.Value {
			continue
		}
		if !found || t.Value < best.Value {
			best = t
			found = true
		}
	}
	return best, found
}
