package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrServiceNotFound = errors.New("service not found")

const serviceSelect = `
	SELECT s.id, s.name, s.category_id, c.name AS category_name, s.provider_id, s.price, s.rating,
		s.reviews, s.image, s.description, s.duration, s.warranty, s.includes, s.active,
		s.created_at, s.updated_at
	FROM services s
	LEFT JOIN categories c ON c.id = s.category_id
`

var sortClauses = map[Sort]string{
	SortPopular:   "s.reviews DESC, s.id ASC",
	SortPriceLow:  "s.price ASC, s.id ASC",
	SortPriceHigh: "s.price DESC, s.id ASC",
	SortRating:    "s.rating DESC, s.id ASC",
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveService(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, serviceSelect+` WHERE s.id = $1 AND s.active = TRUE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetService(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, serviceSelect+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListServices(ctx context.Context, f Filter) ([]Service, int, error) {
	where := []string{"s.active = TRUE"}
	args := []interface{}{}

	if f.ProviderID != "" {
		args = append(args, f.ProviderID)
		where = append(where, fmt.Sprintf("s.provider_id = $%d", len(args)))
	}
	if f.CategoryID > 0 {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("s.category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR s.description ILIKE $%d)", len(args), len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM services s`+cond, args...); err != nil {
		return nil, 0, err
	}

	order, ok := sortClauses[f.Sort]
	if !ok {
		order = sortClauses[SortPopular]
	}

	query := serviceSelect + cond + " ORDER BY " + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	services := []Service{}
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories, `SELECT id, name, icon, image, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}
