package settlement

import (
	"context"
	"errors"
	"strings"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/catalog"
	"gfuture/internal/discount"
	"gfuture/internal/email"
	"gfuture/internal/logger"
	"gfuture/internal/metrics"
	"gfuture/internal/money"
	"gfuture/internal/offer"
	"gfuture/internal/order"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// CreateOrder prices the cart at current catalog prices and stores a pending
// order. An unknown or ineligible coupon is ignored rather than rejected.
func (o *Orchestrator) CreateOrder(ctx context.Context, who auth.Identity, in order.CreateInput) (*order.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("Order must have at least one item")
	}

	subtotal := decimal.Zero
	items := make([]order.Item, 0, len(in.Items))
	providers := make(map[string]struct{})
	for _, it := range in.Items {
		svc, err := o.catalog.GetActiveService(ctx, it.ServiceID)
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, apperr.NotFound("Service %d not found or unavailable", it.ServiceID)
		}
		if err != nil {
			return nil, err
		}

		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal = subtotal.Add(svc.Price.Mul(decimal.NewFromInt(int64(qty))))

		name := svc.Name
		items = append(items, order.Item{
			ServiceID:   svc.ID,
			ServiceName: &name,
			Quantity:    qty,
			Price:       svc.Price,
		})
		if svc.ProviderID != nil {
			providers[*svc.ProviderID] = struct{}{}
		}
	}
	subtotal = money.Round2(subtotal)

	off, code, err := o.couponDiscount(ctx, who, in.CouponCode, subtotal)
	if err != nil {
		return nil, err
	}
	discounted := subtotal.Sub(off)
	fee := money.PlatformFee(discounted, o.feeRate)

	address := in.Address
	if len(address) == 0 {
		address = types.JSONText("{}")
	}

	created, err := o.orders.Create(ctx, &order.Order{
		ID:             uuid.NewString(),
		CustomerID:     who.ID,
		ProviderID:     soleProvider(providers),
		Status:         order.StatusPending,
		Subtotal:       subtotal,
		PlatformFee:    fee,
		DiscountAmount: off,
		CouponCode:     code,
		Total:          discounted.Add(fee),
		Address:        address,
		ScheduledDate:  optional(in.ScheduledDate),
		ScheduledTime:  optional(in.ScheduledTime),
	}, items)
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderCreated(code != nil)
	logger.Info("order created",
		"order_id", created.ID,
		"user_id", who.ID,
		"subtotal", subtotal.StringFixed(2),
		"discount", off.StringFixed(2),
		"total", created.Total.StringFixed(2),
	)

	o.notify(ctx, who.ID, func(ctx context.Context, to, name string) error {
		return o.mailer.SendOrderConfirmation(ctx, to, name, email.OrderSummary{
			OrderID:       created.ID,
			Items:         len(created.Items),
			Subtotal:      created.Subtotal,
			Discount:      created.DiscountAmount,
			PlatformFee:   created.PlatformFee,
			Total:         created.Total,
			ScheduledDate: in.ScheduledDate,
		})
	})
	return created, nil
}

// couponDiscount returns the discount and the code to record on the order.
// Only storage failures are errors.
func (o *Orchestrator) couponDiscount(ctx context.Context, who auth.Identity, raw string, subtotal decimal.Decimal) (decimal.Decimal, *string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return decimal.Zero, nil, nil
	}

	off, err := o.offers.FindActiveByCode(ctx, code)
	if errors.Is(err, offer.ErrOfferNotFound) {
		logger.Debug("ignoring unknown coupon", "code", code, "user_id", who.ID)
		return decimal.Zero, nil, nil
	}
	if err != nil {
		return decimal.Zero, nil, err
	}

	amount, err := discount.Compute(subtotal, off.Terms(), who.Role, o.now())
	if err != nil {
		logger.Debug("ignoring ineligible coupon", "code", code, "user_id", who.ID, "reason", err)
		return decimal.Zero, nil, nil
	}
	if off.Code != nil {
		code = *off.Code
	}
	return amount, &code, nil
}

// soleProvider is set only when every service in the cart has the same provider.
func soleProvider(providers map[string]struct{}) *string {
	if len(providers) != 1 {
		return nil
	}
	for id := range providers {
		return &id
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
