package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/email"
	"gfuture/internal/ledger"
	"gfuture/internal/logger"
	"gfuture/internal/metrics"
	"gfuture/internal/money"
	"gfuture/internal/order"
	"gfuture/internal/payment"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PaySummary describes a settled wallet payment.
type PaySummary struct {
	OrderID      string          `json:"orderId"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	CreditsUsed  int             `json:"creditsUsed"`
	PointsEarned int             `json:"pointsEarned"`
}

type PayResult struct {
	Wallet  *ledger.Account
	Payment PaySummary
}

// PayWithWallet settles a pending order from the requester's wallet. With
// useCredits, credit points cover as much of the total as they can first.
// The debit, the reward, the order confirmation and the payment record are
// written in one transaction; on any failure none of them is.
func (o *Orchestrator) PayWithWallet(ctx context.Context, who auth.Identity, orderID string, useCredits bool) (*PayResult, error) {
	var (
		res     PayResult
		paidAt  time.Time
		orderTx *order.Order
	)
	err := o.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		orders := o.orders.WithTx(tx)
		payments := o.payments.WithTx(tx)
		accounts := o.ledger.WithTx(tx)

		ord, err := order.Load(ctx, orders, orderID, true)
		if err != nil {
			return err
		}
		if ord.CustomerID != who.ID {
			return apperr.Forbidden("Not authorized")
		}
		if err := payable(ctx, payments, ord); err != nil {
			return err
		}

		acct, err := accounts.LockAccount(ctx, who.ID)
		if err != nil {
			return err
		}

		creditsUsed := 0
		if useCredits && acct.CreditPoints > 0 {
			creditsUsed = min(acct.CreditPoints, money.PointsCovering(ord.Total))
		}
		amountToPay := money.Round2(ord.Total.Sub(money.PointsValue(creditsUsed)))
		if acct.Balance.LessThan(amountToPay) {
			return &apperr.InsufficientFundsError{Required: amountToPay, Available: acct.Balance}
		}

		ref := ord.ID
		acct, err = accounts.ApplyTransaction(ctx, who.ID, ledger.Entry{
			Type:          ledger.TypePayment,
			Amount:        amountToPay.Neg(),
			CreditPoints:  -creditsUsed,
			Description:   fmt.Sprintf("Payment for order #%s", ord.ShortID()),
			ReferenceType: ledger.RefOrder,
			ReferenceID:   &ref,
		})
		if err != nil {
			return err
		}

		earned := money.RewardPoints(ord.Total)
		if earned > 0 {
			acct, err = accounts.ApplyTransaction(ctx, who.ID, ledger.Entry{
				Type:          ledger.TypeCreditEarned,
				Amount:        decimal.Zero,
				CreditPoints:  earned,
				Description:   fmt.Sprintf("Earned %d points from order #%s", earned, ord.ShortID()),
				ReferenceType: ledger.RefOrderReward,
				ReferenceID:   &ref,
			})
			if err != nil {
				return err
			}
		}

		if err := orders.SetStatus(ctx, ord.ID, order.StatusConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}
		p, err := payments.UpsertCompleted(ctx, ord.ID, ord.Total, payment.MethodWallet, walletRef())
		if err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		res = PayResult{
			Wallet: acct,
			Payment: PaySummary{
				OrderID:      ord.ID,
				AmountPaid:   amountToPay,
				CreditsUsed:  creditsUsed,
				PointsEarned: earned,
			},
		}
		orderTx = ord
		paidAt = o.now()
		if p.PaidAt != nil {
			paidAt = *p.PaidAt
		}
		return nil
	})
	if err != nil {
		metrics.RecordSettlement(string(payment.MethodWallet), outcome(err))
		logSettlementFailure(string(payment.MethodWallet), who.ID, orderID, err)
		return nil, err
	}

	metrics.RecordSettlement(string(payment.MethodWallet), "success")
	logger.Info("order paid from wallet",
		"order_id", orderTx.ID,
		"user_id", who.ID,
		"amount", res.Payment.AmountPaid.StringFixed(2),
		"credits_used", res.Payment.CreditsUsed,
		"points_earned", res.Payment.PointsEarned,
	)

	o.notify(ctx, who.ID, func(ctx context.Context, to, name string) error {
		return o.mailer.SendPaymentReceipt(ctx, to, name, email.Receipt{
			OrderID:      orderTx.ID,
			Method:       string(payment.MethodWallet),
			AmountPaid:   res.Payment.AmountPaid,
			CreditsUsed:  res.Payment.CreditsUsed,
			PointsEarned: res.Payment.PointsEarned,
			PaidAt:       paidAt,
		})
	})
	return &res, nil
}

// ConfirmExternalPayment completes a UPI payment and confirms its order in one
// transaction. Confirming an already completed payment returns it unchanged.
func (o *Orchestrator) ConfirmExternalPayment(ctx context.Context, who auth.Identity, paymentID, transactionRef string) (*payment.Payment, error) {
	if transactionRef = strings.TrimSpace(transactionRef); transactionRef == "" {
		transactionRef = fmt.Sprintf("TXN-%d", o.now().UnixMilli())
	}

	var (
		completed *payment.Payment
		customer  string
		fresh     bool
	)
	err := o.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		orders := o.orders.WithTx(tx)
		payments := o.payments.WithTx(tx)

		p, err := payments.GetByIDForUpdate(ctx, paymentID)
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return apperr.NotFound("Payment not found")
		}
		if err != nil {
			return err
		}

		ord, err := order.Load(ctx, orders, p.OrderID, true)
		if err != nil {
			return err
		}
		if who.Role != auth.RoleAdmin && ord.CustomerID != who.ID {
			return apperr.Forbidden("Not authorized")
		}
		if p.Completed() {
			completed = p
			return nil
		}
		if ord.Status != order.StatusPending {
			return apperr.Conflict("Order is %s and cannot be paid", ord.Status)
		}

		if completed, err = payments.Complete(ctx, p.ID, transactionRef); err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}
		if err := orders.SetStatus(ctx, ord.ID, order.StatusConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}
		customer = ord.CustomerID
		fresh = true
		return nil
	})
	if err != nil {
		metrics.RecordSettlement(string(payment.MethodUPI), outcome(err))
		logSettlementFailure(string(payment.MethodUPI), who.ID, paymentID, err)
		return nil, err
	}
	if !fresh {
		return completed, nil
	}

	metrics.RecordSettlement(string(payment.MethodUPI), "success")
	logger.Info("upi payment confirmed",
		"payment_id", completed.ID,
		"order_id", completed.OrderID,
		"transaction_ref", transactionRef,
	)

	paidAt := o.now()
	if completed.PaidAt != nil {
		paidAt = *completed.PaidAt
	}
	o.notify(ctx, customer, func(ctx context.Context, to, name string) error {
		return o.mailer.SendPaymentReceipt(ctx, to, name, email.Receipt{
			OrderID:    completed.OrderID,
			Method:     string(payment.MethodUPI),
			AmountPaid: completed.Amount,
			PaidAt:     paidAt,
		})
	})
	return completed, nil
}

// payable rejects orders that are no longer awaiting payment.
func payable(ctx context.Context, payments payment.Repository, ord *order.Order) error {
	if ord.Status != order.StatusPending {
		return apperr.Conflict("Order is %s and cannot be paid", ord.Status)
	}

	p, err := payments.GetByOrder(ctx, ord.ID)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.Completed() {
		return apperr.Conflict("Payment already completed for this order")
	}
	return nil
}

func walletRef() string {
	return "WALLET-" + strings.ToUpper(uuid.NewString()[:8])
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperr.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrValidation):
		return "rejected"
	default:
		return "error"
	}
}

func logSettlementFailure(method, userID, ref string, err error) {
	if outcome(err) == "error" {
		logger.WithFields(map[string]interface{}{
			"method":  method,
			"user_id": userID,
			"ref":     ref,
		}).Errorw("settlement failed", "error", err)
		return
	}
	logger.Info("settlement rejected", "method", method, "user_id", userID, "ref", ref, "reason", err.Error())
}
