package tool

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("tool not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tool
type Repository interface {
	CreateTool(ctx context.Context, t *Tool) error
	GetTool(ctx context.Context, id uuid.UUID) (*Tool, error)
	ListTools(ctx context.Context) ([]*Tool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	PurchasePrice float64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Tool, error) {
	t := &Tool{
		Name:          params.Name,
		PurchasePrice: params.PurchasePrice,
	}
	t.recomputePayoff()

	if err := s.repo.CreateTool(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tool, error) {
	return s.repo.GetTool(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Tool, error) {
	return s.repo.ListTools(ctx)
}
