package offer

import "context"

type Repository interface {
	// FindActiveByCode matches code case-insensitively against offers that are
	// active and not past valid_until.
	FindActiveByCode(ctx context.Context, code string) (*Offer, error)
	ListActive(ctx context.Context, target string) ([]Offer, error)
	ListByProvider(ctx context.Context, providerID string) ([]Offer, error)
	GetByID(ctx context.Context, id int64) (*Offer, error)
	Create(ctx context.Context, o *Offer) (*Offer, error)
	Update(ctx context.Context, o *Offer) (*Offer, error)
	Delete(ctx context.Context, id int64, providerID string) (bool, error)
}
