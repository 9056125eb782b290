package wallet

import (
	"gfuture/internal/ledger"
	"gfuture/internal/settlement"

	"github.com/shopspring/decimal"
)

type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type RedeemRequest struct {
	Points int `json:"points" validate:"gt=0"`
}

type PayRequest struct {
	OrderID    string `json:"orderId" validate:"required"`
	UseCredits bool   `json:"useCredits"`
}

type Redemption struct {
	Points    int             `json:"points"`
	CashValue decimal.Decimal `json:"cashValue"`
}

type RedeemResult struct {
	Wallet   *ledger.Account
	Redeemed Redemption
}

// History is one page of the journal, newest first.
type History struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Page         int                  `json:"page"`
	TotalPages   int                  `json:"totalPages"`
}

type PayResult = settlement.PayResult
