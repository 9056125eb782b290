package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository

	GetByID(ctx context.Context, id string) (*Payment, error)
	// GetByIDForUpdate locks the payment row until the enclosing transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Payment, error)
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)
	// CreatePending returns the order's existing payment instead when one is
	// already stored.
	CreatePending(ctx context.Context, orderID string, amount decimal.Decimal, upiID string) (*Payment, error)
	// UpsertCompleted records a settled payment for the order, replacing any
	// pending one.
	UpsertCompleted(ctx context.Context, orderID string, amount decimal.Decimal, method Method, ref string) (*Payment, error)
	Complete(ctx context.Context, id, ref string) (*Payment, error)
}
