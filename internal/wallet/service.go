package wallet

import (
	"context"
	"fmt"

	"gfuture/internal/api"
	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/ledger"
	"gfuture/internal/logger"
	"gfuture/internal/metrics"
	"gfuture/internal/money"
)

// Payer settles an order from the wallet.
type Payer interface {
	PayWithWallet(ctx context.Context, who auth.Identity, orderID string, useCredits bool) (*PayResult, error)
}

type Service interface {
	Balance(ctx context.Context, userID string) (*ledger.Account, error)
	History(ctx context.Context, userID string, f ledger.Filter) (*History, error)
	AddFunds(ctx context.Context, userID string, req AddFundsRequest) (*ledger.Account, error)
	RedeemCredits(ctx context.Context, userID string, req RedeemRequest) (*RedeemResult, error)
	Pay(ctx context.Context, who auth.Identity, req PayRequest) (*PayResult, error)
	Audit(ctx context.Context, userID string) (*ledger.AuditReport, error)
}

type service struct {
	ledger ledger.Repository
	payer  Payer
}

func NewService(ledger ledger.Repository, payer Payer) Service {
	return &service{ledger: ledger, payer: payer}
}

func (s *service) Balance(ctx context.Context, userID string) (*ledger.Account, error) {
	return s.ledger.EnsureAccount(ctx, userID)
}

func (s *service) History(ctx context.Context, userID string, f ledger.Filter) (*History, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation("Invalid transaction type")
	}
	f = f.Normalize()

	if _, err := s.ledger.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}
	txs, total, err := s.ledger.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}

	return &History{
		Transactions: txs,
		Total:        total,
		Page:         f.Page,
		TotalPages:   api.TotalPages(total, f.Limit),
	}, nil
}

func (s *service) AddFunds(ctx context.Context, userID string, req AddFundsRequest) (*ledger.Account, error) {
	amount := money.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, apperr.Validation("Valid amount is required")
	}

	acct, err := s.ledger.ApplyTransaction(ctx, userID, ledger.Entry{
		Type:          ledger.TypeTopUp,
		Amount:        amount,
		Description:   fmt.Sprintf("Added ₹%s to wallet", amount),
		ReferenceType: ledger.RefTopUp,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTopUp()
	logger.Info("wallet topped up", "user_id", userID, "amount", amount.StringFixed(2))
	return acct, nil
}

// RedeemCredits converts points into balance. The ledger re-checks the points
// under the row lock, so a concurrent spend cannot overdraw them.
func (s *service) RedeemCredits(ctx context.Context, userID string, req RedeemRequest) (*RedeemResult, error) {
	acct, err := s.ledger.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Points <= 0:
		return nil, apperr.Validation("Valid points amount required")
	case req.Points > acct.CreditPoints:
		return nil, ledger.ErrInsufficientCredits
	case req.Points < money.MinRedeemPoints:
		return nil, apperr.Validation("Minimum %d points required to redeem", money.MinRedeemPoints)
	}

	cash := money.PointsValue(req.Points)
	acct, err = s.ledger.ApplyTransaction(ctx, userID, ledger.Entry{
		Type:          ledger.TypeCreditRedeemed,
		Amount:        cash,
		CreditPoints:  -req.Points,
		Description:   fmt.Sprintf("Redeemed %d credits for ₹%s", req.Points, cash),
		ReferenceType: ledger.RefCreditRedeem,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCreditsRedeemed(req.Points)
	logger.Info("credits redeemed", "user_id", userID, "points", req.Points, "cash", cash.StringFixed(2))
	return &RedeemResult{
		Wallet:   acct,
		Redeemed: Redemption{Points: req.Points, CashValue: cash},
	}, nil
}

func (s *service) Pay(ctx context.Context, who auth.Identity, req PayRequest) (*PayResult, error) {
	if req.OrderID == "" {
		return nil, apperr.Validation("Order ID is required")
	}
	return s.payer.PayWithWallet(ctx, who, req.OrderID, req.UseCredits)
}

func (s *service) Audit(ctx context.Context, userID string) (*ledger.AuditReport, error) {
	return ledger.Audit(ctx, s.ledger, userID)
}
