package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// WithTx returns a repository bound to tx. Every call on it joins tx
	// instead of opening its own transaction.
	WithTx(tx *sqlx.Tx) Repository

	EnsureAccount(ctx context.Context, userID string) (*Account, error)
	LockAccount(ctx context.Context, userID string) (*Account, error)
	ApplyTransaction(ctx context.Context, userID string, e Entry) (*Account, error)
	ListTransactions(ctx context.Context, userID string, f Filter) ([]Transaction, int, error)
	AllTransactions(ctx context.Context, userID string) ([]Transaction, error)
}
