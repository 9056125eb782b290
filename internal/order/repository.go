package order

import (
	"context"
	"database/sql"
	"errors"

	"gfuture/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrOrderNotFound = errors.New("order not found")

// providerItems selects the orders holding a service of the provider whose
// placeholder the caller appends.
const providerItems = `
	SELECT oi.order_id
	FROM order_items oi
	JOIN services s ON s.id = oi.service_id
	WHERE s.provider_id = `

const orderColumns = `id, customer_id, provider_id, status, subtotal, platform_fee, discount_amount, coupon_code,
	total, address, scheduled_date, scheduled_time, created_at, updated_at`

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

func (r *repository) Create(ctx context.Context, o *Order, items []Item) (*Order, error) {
	var created Order
	write := func(q db.Querier) error {
		err := q.QueryRowxContext(ctx, `
			INSERT INTO orders (id, customer_id, provider_id, status, subtotal, platform_fee, discount_amount,
				coupon_code, total, address, scheduled_date, scheduled_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+orderColumns,
			o.ID, o.CustomerID, o.ProviderID, o.Status, o.Subtotal, o.PlatformFee, o.DiscountAmount,
			o.CouponCode, o.Total, o.Address, o.ScheduledDate, o.ScheduledTime,
		).StructScan(&created)
		if err != nil {
			return err
		}

		created.Items = make([]Item, 0, len(items))
		for _, it := range items {
			var stored Item
			err := q.QueryRowxContext(ctx, `
				INSERT INTO order_items (order_id, service_id, quantity, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id, order_id, service_id, quantity, price`,
				created.ID, it.ServiceID, it.Quantity, it.Price,
			).StructScan(&stored)
			if err != nil {
				return err
			}
			stored.ServiceName = it.ServiceName
			created.Items = append(created.Items, stored)
		}
		return nil
	}

	var err error
	if r.tx != nil {
		err = write(r.tx)
	} else {
		err = db.RunInTx(ctx, r.db, func(tx *sqlx.Tx) error { return write(tx) })
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query, id string) (*Order, error) {
	var o Order
	err := r.querier().GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := r.querier().ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC`, customerID)
}

// ListByProvider returns orders containing at least one of the provider's services.
func (r *repository) ListByProvider(ctx context.Context, providerID string) ([]Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id IN (`+providerItems+`$1)
		ORDER BY created_at DESC`, providerID)
}

// HasProviderItem reports whether the order holds one of the provider's services.
func (r *repository) HasProviderItem(ctx context.Context, orderID, providerID string) (bool, error) {
	return db.Exists(ctx, r.querier(),
		`SELECT EXISTS (`+providerItems+`$1 AND oi.order_id = $2)`,
		providerID, orderID)
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	orders := []Order{}
	if err := r.querier().SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Items(ctx context.Context, orderIDs ...string) (map[string][]Item, error) {
	byOrder := make(map[string][]Item, len(orderIDs))
	if len(orderIDs) == 0 {
		return byOrder, nil
	}

	var items []Item
	err := r.querier().SelectContext(ctx, &items, `
		SELECT oi.id, oi.order_id, oi.service_id, s.name AS service_name, oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN services s ON s.id = oi.service_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}
