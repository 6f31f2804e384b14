package service

import (
	"context"

	"tempmonitor/internal/models"
	"tempmonitor/internal/repository"
)

// maxReadingsPageSize caps a single page; 0 from the client still means
// "everything" but is served in bounded chunks by the repository.
const maxReadingsPageSize = 500

// ReadingsService serves the triggered readings history.
type ReadingsService struct {
	readingRepo repository.ReadingRepo
}

var _ Readings = (*ReadingsService)(nil)

func NewReadingsService(readingRepo repository.ReadingRepo) *ReadingsService {
	return &ReadingsService{readingRepo: readingRepo}
}

// List returns readings ascending by (recorded_at, id). Pages taken with
// a cursor are disjoint and order-preserving even while the recorder
// appends concurrently.
func (s *ReadingsService) List(ctx context.Context, p repository.ReadingPage) ([]models.TriggeredReading, error) {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > maxReadingsPageSize {
		p.Limit = maxReadingsPageSize
	}
	return s.readingRepo.List(ctx, p)
}
