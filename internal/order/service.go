package order

import (
	"context"
	"errors"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/db"
	"gfuture/internal/logger"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Creator prices and stores a new order.
type Creator interface {
	CreateOrder(ctx context.Context, who auth.Identity, in CreateInput) (*Order, error)
}

type Service interface {
	List(ctx context.Context, who auth.Identity) ([]Order, error)
	Get(ctx context.Context, who auth.Identity, id string) (*Order, error)
	UpdateStatus(ctx context.Context, who auth.Identity, id string, status Status) (*Order, error)
}

type service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

// List returns every order for admins, orders containing their services for
// providers, and their own orders for customers.
func (s *service) List(ctx context.Context, who auth.Identity) ([]Order, error) {
	var (
		orders []Order
		err    error
	)
	switch who.Role {
	case auth.RoleAdmin:
		orders, err = s.repo.ListAll(ctx)
	case auth.RoleProvider:
		orders, err = s.repo.ListByProvider(ctx, who.ID)
	default:
		orders, err = s.repo.ListByCustomer(ctx, who.ID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := s.repo.Items(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = nonNil(items[orders[i].ID])
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, who auth.Identity, id string) (*Order, error) {
	o, err := Load(ctx, s.repo, id, false)
	if err != nil {
		return nil, err
	}
	ok, err := canView(ctx, s.repo, who, o)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("Not authorized")
	}

	items, err := s.repo.Items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = nonNil(items[o.ID])
	return o, nil
}

// UpdateStatus moves an order along the status machine. Confirmation is
// reserved for payment settlement.
func (s *service) UpdateStatus(ctx context.Context, who auth.Identity, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid status. Must be one of: pending, confirmed, in-progress, completed, cancelled")
	}
	if status == StatusConfirmed {
		return nil, apperr.Validation("Orders are confirmed by payment")
	}

	var updated *Order
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		o, err := Load(ctx, repo, id, true)
		if err != nil {
			return err
		}
		if who.Role != auth.RoleAdmin {
			ok, err := serves(ctx, repo, who, o)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Forbidden("Not authorized")
			}
		}
		if !o.Status.CanTransitionTo(status) {
			return apperr.Conflict("Cannot change order status from %s to %s", o.Status, status)
		}

		if err := repo.SetStatus(ctx, o.ID, status); err != nil {
			return err
		}
		o.Status = status
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order status changed", "order_id", updated.ID, "status", string(status), "by", who.ID)
	return updated, nil
}

// Load fetches an order by its public id, optionally locking it. Malformed ids
// are reported as not found.
func Load(ctx context.Context, repo Repository, id string, forUpdate bool) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("Order not found")
	}

	var (
		o   *Order
		err error
	)
	if forUpdate {
		o, err = repo.GetForUpdate(ctx, id)
	} else {
		o, err = repo.Get(ctx, id)
	}
	if errors.Is(err, ErrOrderNotFound) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func canView(ctx context.Context, repo Repository, who auth.Identity, o *Order) (bool, error) {
	if who.Role == auth.RoleAdmin || o.CustomerID == who.ID {
		return true, nil
	}
	return serves(ctx, repo, who, o)
}

// serves reports whether who is a provider with a service in o. Orders spanning
// several providers carry no provider_id, so their items decide.
func serves(ctx context.Context, repo Repository, who auth.Identity, o *Order) (bool, error) {
	if who.Role != auth.RoleProvider {
		return false, nil
	}
	if o.ProviderID != nil {
		return *o.ProviderID == who.ID, nil
	}
	return repo.HasProviderItem(ctx, o.ID, who.ID)
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
