package offer

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gfuture/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrDuplicateCode = errors.New("coupon code already exists")
)

const offerColumns = `id, provider_id, title, description, discount_percent, discount_flat, code, target,
	image, badge, valid_from, valid_until, active, sort_order, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveByCode(ctx context.Context, code string) (*Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE UPPER(code) = $1
		  AND active = TRUE
		  AND (valid_until IS NULL OR valid_until >= NOW())
	`

	var o Offer
	err := r.db.GetContext(ctx, &o, query, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListActive(ctx context.Context, target string) ([]Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE active = TRUE
		  AND (valid_until IS NULL OR valid_until >= NOW())
	`
	args := []interface{}{}

	if target != "" {
		query += " AND target IN ($1, 'both')"
		args = append(args, target)
	}

	query += " ORDER BY sort_order ASC, created_at DESC"

	offers := []Offer{}
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) ListByProvider(ctx context.Context, providerID string) ([]Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`

	offers := []Offer{}
	if err := r.db.SelectContext(ctx, &offers, query, providerID); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Offer, error) {
	var o Offer
	err := r.db.GetContext(ctx, &o, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Offer) (*Offer, error) {
	query := `
		INSERT INTO offers (provider_id, title, description, discount_percent, discount_flat, code, target,
			image, badge, valid_from, valid_until, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + offerColumns

	var created Offer
	err := r.db.QueryRowxContext(ctx, query,
		o.ProviderID, o.Title, o.Description, o.DiscountPercent, o.DiscountFlat, o.Code, o.Target,
		o.Image, o.Badge, o.ValidFrom, o.ValidUntil, o.Active, o.SortOrder,
	).StructScan(&created)
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update writes every mutable column of o. Callers merge an OfferPatch into
// the stored row first.
func (r *repository) Update(ctx context.Context, o *Offer) (*Offer, error) {
	query := `
		UPDATE offers
		SET title = $1, description = $2, discount_percent = $3, discount_flat = $4, code = $5,
			target = $6, image = $7, badge = $8, valid_from = $9, valid_until = $10,
			active = $11, sort_order = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING ` + offerColumns

	var updated Offer
	err := r.db.QueryRowxContext(ctx, query,
		o.Title, o.Description, o.DiscountPercent, o.DiscountFlat, o.Code,
		o.Target, o.Image, o.Badge, o.ValidFrom, o.ValidUntil,
		o.Active, o.SortOrder, o.ID,
	).StructScan(&updated)
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateCode
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64, providerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1 AND provider_id = $2`, id, providerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
