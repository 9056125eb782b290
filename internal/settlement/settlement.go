// Package settlement prices orders and settles their payment against the
// wallet ledger. Every settlement runs in one database transaction spanning
// the ledger, order and payment writes.
package settlement

import (
	"context"
	"time"

	"gfuture/internal/catalog"
	"gfuture/internal/db"
	"gfuture/internal/email"
	"gfuture/internal/ledger"
	"gfuture/internal/offer"
	"gfuture/internal/order"
	"gfuture/internal/payment"
	"gfuture/internal/user"

	"github.com/shopspring/decimal"
)

type ServiceCatalog interface {
	GetActiveService(ctx context.Context, id int64) (*catalog.Service, error)
}

type OfferStore interface {
	FindActiveByCode(ctx context.Context, code string) (*offer.Offer, error)
}

type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to, name string, o email.OrderSummary) error
	SendPaymentReceipt(ctx context.Context, to, name string, r email.Receipt) error
}

type Deps struct {
	Tx       db.Transactor
	Catalog  ServiceCatalog
	Offers   OfferStore
	Orders   order.Repository
	Payments payment.Repository
	Ledger   ledger.Repository
	Users    UserDirectory
	// Mailer is optional; without it no notifications are sent.
	Mailer  Mailer
	FeeRate decimal.Decimal
}

type Orchestrator struct {
	tx       db.Transactor
	catalog  ServiceCatalog
	offers   OfferStore
	orders   order.Repository
	payments payment.Repository
	ledger   ledger.Repository
	users    UserDirectory
	mailer   Mailer
	feeRate  decimal.Decimal
	now      func() time.Time
}

func New(d Deps) *Orchestrator {
	return &Orchestrator{
		tx:       d.Tx,
		catalog:  d.Catalog,
		offers:   d.Offers,
		orders:   d.Orders,
		payments: d.Payments,
		ledger:   d.Ledger,
		users:    d.Users,
		mailer:   d.Mailer,
		feeRate:  d.FeeRate,
		now:      time.Now,
	}
}
