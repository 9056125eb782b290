package order

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository

	// Create stores the order and its lines together.
	Create(ctx context.Context, o *Order, items []Item) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	// GetForUpdate locks the order row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Order, error)
	SetStatus(ctx context.Context, id string, status Status) error
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListByProvider(ctx context.Context, providerID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	HasProviderItem(ctx context.Context, orderID, providerID string) (bool, error)
	// Items returns the lines of every given order keyed by order id.
	Items(ctx context.Context, orderIDs ...string) (map[string][]Item, error)
}
