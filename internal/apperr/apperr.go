// Package apperr defines the error kinds surfaced at the API boundary.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kinds. Match with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCouponIneligible  = errors.New("coupon ineligible")
)

// Error is a user-visible failure of a given kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// CouponIneligible wraps the discount engine's reason.
func CouponIneligible(reason error) error {
	return &Error{Kind: ErrCouponIneligible, Message: "coupon cannot be applied", Err: reason}
}

// InsufficientFundsError reports the amount due against what the wallet holds.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Message returns the user-facing text of err if it carries one.
func Message(err error) (string, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Err != nil && ae.Kind == ErrCouponIneligible {
			return ae.Err.Error(), true
		}
		return ae.Message, true
	}
	var ife *InsufficientFundsError
	if errors.As(err, &ife) {
		return "Insufficient wallet balance", true
	}
	return "", false
}
