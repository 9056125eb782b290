package catalog

import "context"

type Repository interface {
	// GetActiveService returns ErrServiceNotFound for unknown and inactive
	// services alike.
	GetActiveService(ctx context.Context, id int64) (*Service, error)
	GetService(ctx context.Context, id int64) (*Service, error)
	ListServices(ctx context.Context, f Filter) ([]Service, int, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
