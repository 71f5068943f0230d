package finance

import (
	"context"
)

type Repository interface {
	GetMetrics(ctx context.Context) (*Metrics, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary returns the singleton aggregate as stored.
func (s *Service) Summary(ctx context.Context) (*Metrics, error) {
	return s.repo.GetMetrics(ctx)
}
