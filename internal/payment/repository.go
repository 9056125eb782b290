package payment

import (
	"context"
	"database/sql"
	"errors"

	"gfuture/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrPaymentNotFound = errors.New("payment not found")

const paymentColumns = `id, order_id, amount, upi_id, status, method, transaction_ref, paid_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) querier() db.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPaymentNotFound
	}
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id string) (*Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPaymentNotFound
	}
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) GetByOrder(ctx context.Context, orderID string) (*Payment, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrPaymentNotFound
	}
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
}

func (r *repository) get(ctx context.Context, query string, args ...interface{}) (*Payment, error) {
	var p Payment
	err := r.querier().GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreatePending(ctx context.Context, orderID string, amount decimal.Decimal, upiID string) (*Payment, error) {
	// The no-op update makes RETURNING yield the stored row on conflict.
	return r.get(ctx, `
		INSERT INTO payments (id, order_id, amount, upi_id, status, method)
		VALUES ($1, $2, $3, $4, 'pending', 'upi')
		ON CONFLICT (order_id) DO UPDATE SET updated_at = payments.updated_at
		RETURNING `+paymentColumns,
		uuid.NewString(), orderID, amount, upiID,
	)
}

func (r *repository) UpsertCompleted(ctx context.Context, orderID string, amount decimal.Decimal, method Method, ref string) (*Payment, error) {
	return r.get(ctx, `
		INSERT INTO payments (id, order_id, amount, status, method, transaction_ref, paid_at)
		VALUES ($1, $2, $3, 'completed', $4, $5, NOW())
		ON CONFLICT (order_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			status = 'completed',
			method = EXCLUDED.method,
			transaction_ref = EXCLUDED.transaction_ref,
			paid_at = NOW(),
			updated_at = NOW()
		RETURNING `+paymentColumns,
		uuid.NewString(), orderID, amount, method, ref,
	)
}

func (r *repository) Complete(ctx context.Context, id, ref string) (*Payment, error) {
	return r.get(ctx, `
		UPDATE payments
		SET status = 'completed', transaction_ref = $1, paid_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING `+paymentColumns,
		ref, id,
	)
}
