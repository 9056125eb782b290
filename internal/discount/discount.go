// Package discount computes coupon discounts. It has no storage access; the
// caller resolves the offer and passes its terms in.
package discount

import (
	"errors"
	"fmt"
	"time"

	"gfuture/internal/money"

	"github.com/shopspring/decimal"
)

type Target string

const (
	TargetCustomer Target = "customer"
	TargetProvider Target = "provider"
	TargetBoth     Target = "both"
)

func (t Target) Valid() bool {
	return t == TargetCustomer || t == TargetProvider || t == TargetBoth
}

var (
	ErrInactive    = errors.New("This coupon is no longer active")
	ErrExpired     = errors.New("This coupon has expired")
	ErrNotStarted  = errors.New("This coupon is not valid yet")
	ErrWrongTarget = errors.New("This coupon is not available for your account")
)

// WrongTargetError names the audience the coupon is limited to.
type WrongTargetError struct {
	Target Target
}

func (e *WrongTargetError) Error() string {
	return fmt.Sprintf("This coupon is for %ss only", e.Target)
}

func (e *WrongTargetError) Is(target error) bool {
	return target == ErrWrongTarget
}

// Terms are the parts of an offer that decide the discount.
type Terms struct {
	Percent    decimal.Decimal
	Flat       decimal.Decimal
	Target     Target
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// Check reports why the terms cannot be used by role at now, or nil.
func Check(t Terms, role string, now time.Time) error {
	if !t.Active {
		return ErrInactive
	}
	if t.ValidFrom != nil && now.Before(*t.ValidFrom) {
		return ErrNotStarted
	}
	if t.ValidUntil != nil && now.After(*t.ValidUntil) {
		return ErrExpired
	}
	if t.Target != TargetBoth && string(t.Target) != role {
		return &WrongTargetError{Target: t.Target}
	}
	return nil
}

// Compute returns the discount on subtotal. It never exceeds subtotal.
func Compute(subtotal decimal.Decimal, t Terms, role string, now time.Time) (decimal.Decimal, error) {
	if err := Check(t, role, now); err != nil {
		return decimal.Zero, err
	}
	return amount(subtotal, t), nil
}

func amount(subtotal decimal.Decimal, t Terms) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	raw := money.Percent(subtotal, t.Percent).Add(money.Round2(t.Flat))
	if raw.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(raw, money.Round2(subtotal))
}

// Quote is the priced result of applying a coupon to an order amount.
type Quote struct {
	Subtotal decimal.Decimal `json:"orderTotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"finalTotal"`
}

func NewQuote(subtotal decimal.Decimal, t Terms, role string, now time.Time) (Quote, error) {
	off, err := Compute(subtotal, t, role, now)
	if err != nil {
		return Quote{}, err
	}
	subtotal = money.Round2(subtotal)
	return Quote{Subtotal: subtotal, Discount: off, Total: subtotal.Sub(off)}, nil
}
