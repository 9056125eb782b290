package payment

import (
	"context"
	"errors"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/logger"
	"gfuture/internal/order"
)

// Confirmer settles a UPI payment the customer reports as done.
type Confirmer interface {
	ConfirmExternalPayment(ctx context.Context, who auth.Identity, paymentID, transactionRef string) (*Payment, error)
}

type Service interface {
	Initiate(ctx context.Context, who auth.Identity, orderID string) (*Checkout, error)
	ForOrder(ctx context.Context, who auth.Identity, orderID string) (*Payment, error)
}

type service struct {
	repo     Repository
	orders   order.Repository
	merchant Merchant
}

func NewService(repo Repository, orders order.Repository, merchant Merchant) Service {
	return &service{repo: repo, orders: orders, merchant: merchant}
}

// Initiate opens (or reuses) the order's pending payment and returns the UPI
// link and QR code to pay it with.
func (s *service) Initiate(ctx context.Context, who auth.Identity, orderID string) (*Checkout, error) {
	o, err := order.Load(ctx, s.orders, orderID, false)
	if err != nil {
		return nil, err
	}
	if !ownsOrder(who, o) {
		return nil, apperr.Forbidden("Not authorized")
	}

	p, err := s.repo.GetByOrder(ctx, o.ID)
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		p, err = s.repo.CreatePending(ctx, o.ID, o.Total, s.merchant.UPIID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	if p.Completed() {
		return nil, apperr.Conflict("Payment already completed for this order")
	}

	link := UPILink(s.merchant, o.ID, o.Total, p.ID)
	qr, err := QRDataURL(link)
	if err != nil {
		logger.Error("qr generation failed", "payment_id", p.ID, "error", err)
		return nil, err
	}

	return &Checkout{
		ID:           p.ID,
		OrderID:      o.ID,
		Amount:       o.Total,
		Status:       StatusPending,
		UPILink:      link,
		QRCode:       qr,
		MerchantName: s.merchant.Name,
		MerchantUPI:  s.merchant.UPIID,
	}, nil
}

func (s *service) ForOrder(ctx context.Context, who auth.Identity, orderID string) (*Payment, error) {
	p, err := s.repo.GetByOrder(ctx, orderID)
	if errors.Is(err, ErrPaymentNotFound) {
		return nil, apperr.NotFound("No payment found for this order")
	}
	if err != nil {
		return nil, err
	}

	o, err := order.Load(ctx, s.orders, p.OrderID, false)
	if err != nil {
		return nil, err
	}
	if !ownsOrder(who, o) {
		return nil, apperr.Forbidden("Not authorized")
	}
	return p, nil
}

func ownsOrder(who auth.Identity, o *order.Order) bool {
	return who.Role == auth.RoleAdmin || o.CustomerID == who.ID
}
