package service

import (
	"context"
	"errors"
	"math"
	"time"

	"tempmonitor/internal/models"
	"tempmonitor/internal/repository"

	"github.com/google/uuid"
)

var errInvalidThresholdValue = errors.New("threshold value must be a finite number")

// ThresholdService validates and persists trigger thresholds.
type ThresholdService struct {
	thresholdRepo repository.ThresholdRepo
}

var _ Thresholds = (*ThresholdService)(nil)

func NewThresholdService(thresholdRepo repository.ThresholdRepo) *ThresholdService {
	return &ThresholdService{thresholdRepo: thresholdRepo}
}

// Create persists a new threshold. Authorization is enforced upstream by
// the HTTP middleware; the store never sees unauthenticated writes.
func (s *ThresholdService) Create(ctx context.Context, value float64) (models.Threshold, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return models.Threshold{}, errInvalidThresholdValue
	}
	t := models.Threshold{
		ID:        uuid.NewString(),
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.thresholdRepo.Create(ctx, t); err != nil {
		return models.Threshold{}, err
	}
	return t, nil
}

// List returns all thresholds in creation order.
func (s *ThresholdService) List(ctx context.Context) ([]models.Threshold, error) {
	return s.thresholdRepo.List(ctx)
}

// Latest returns the most recently created threshold, or nil if none.
func (s *ThresholdService) Latest(ctx context.Context) (*models.Threshold, error) {
	return s.thresholdRepo.Latest(ctx)
}
