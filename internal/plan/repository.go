package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gfuture/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

const (
	planColumns = `id, name, price, currency, description, target, features, recommended, active, cta, sort_order, created_at, updated_at`

	subscriptionSelect = `SELECT up.id, up.user_id, up.plan_id, up.status, up.subscribed_at, up.expires_at,
		p.name AS plan_name, p.price, p.currency, p.description, p.features, p.recommended
		FROM user_plans up
		JOIN plans p ON up.plan_id = p.id`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// ListActive returns active plans in display order. An empty target lists
// every audience.
func (r *repository) ListActive(ctx context.Context, target string) ([]Plan, error) {
	plans := []Plan{}
	query := `SELECT ` + planColumns + ` FROM plans WHERE active = TRUE`
	args := []interface{}{}
	if target != "" {
		query += ` AND (target = $1 OR target = 'both')`
		args = append(args, target)
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetActive(ctx context.Context, id int64) (*Plan, error) {
	return r.getPlan(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1 AND active = TRUE`, id)
}

func (r *repository) FindRecommended(ctx context.Context, target string) (*Plan, error) {
	return r.getPlan(ctx,
		`SELECT `+planColumns+` FROM plans
		 WHERE active = TRUE AND recommended = TRUE AND (target = $1 OR target = 'both')
		 ORDER BY sort_order ASC
		 LIMIT 1`, target)
}

func (r *repository) FindCheapest(ctx context.Context, target string) (*Plan, error) {
	return r.getPlan(ctx,
		`SELECT `+planColumns+` FROM plans
		 WHERE active = TRUE AND (target = $1 OR target = 'both')
		 ORDER BY price ASC
		 LIMIT 1`, target)
}

func (r *repository) getPlan(ctx context.Context, query string, arg interface{}) (*Plan, error) {
	p := &Plan{}
	err := r.db.GetContext(ctx, p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Current(ctx context.Context, userID string) (*Subscription, error) {
	s := &Subscription{}
	err := r.db.GetContext(ctx, s, subscriptionSelect+`
		WHERE up.user_id = $1 AND up.status = 'active'
		ORDER BY up.subscribed_at DESC
		LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe cancels whatever plan the user holds and activates planID. A user
// has at most one active plan.
func (r *repository) Subscribe(ctx context.Context, userID string, planID int64) (*Subscription, error) {
	s := &Subscription{}
	err := db.RunInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_plans SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'`,
			userID); err != nil {
			return fmt.Errorf("cancel active plans: %w", err)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO user_plans (user_id, plan_id, status, subscribed_at)
			 VALUES ($1, $2, 'active', NOW())
			 RETURNING id`,
			userID, planID).Scan(&id); err != nil {
			return fmt.Errorf("insert user plan: %w", err)
		}

		return tx.GetContext(ctx, s, subscriptionSelect+` WHERE up.id = $1`, id)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Cancel reports whether an active plan was cancelled.
func (r *repository) Cancel(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_plans SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'`,
		userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
