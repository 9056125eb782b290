package catalog

import (
	"context"
	"errors"

	"gfuture/internal/apperr"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Catalog interface {
	ListServices(ctx context.Context, f Filter) ([]Service, int, Filter, error)
	GetService(ctx context.Context, id int64) (*Service, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Catalog {
	return &service{repo: repo}
}

// ListServices returns the page together with the normalized filter used.
func (s *service) ListServices(ctx context.Context, f Filter) ([]Service, int, Filter, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	items, total, err := s.repo.ListServices(ctx, f)
	if err != nil {
		return nil, 0, f, err
	}
	return items, total, f, nil
}

func (s *service) GetService(ctx context.Context, id int64) (*Service, error) {
	svc, err := s.repo.GetService(ctx, id)
	if errors.Is(err, ErrServiceNotFound) {
		return nil, apperr.NotFound("Service not found")
	}
	return svc, err
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}
