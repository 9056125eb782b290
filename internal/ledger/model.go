package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TypeTopUp          TxType = "top_up"
	TypePayment        TxType = "payment"
	TypeCreditEarned   TxType = "credit_earned"
	TypeCreditRedeemed TxType = "credit_redeemed"
)

func (t TxType) Valid() bool {
	switch t {
	case TypeTopUp, TypePayment, TypeCreditEarned, TypeCreditRedeemed:
		return true
	}
	return false
}

type ReferenceType string

const (
	RefSignup       ReferenceType = "signup"
	RefTopUp        ReferenceType = "top_up"
	RefOrder        ReferenceType = "order"
	RefOrderReward  ReferenceType = "order_reward"
	RefCreditRedeem ReferenceType = "credit_redeem"
)

// Account is a user's wallet. It is only ever changed by ApplyTransaction.
type Account struct {
	ID           int64           `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"user_id"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	CreditPoints int             `db:"credit_points" json:"credit_points"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction is an immutable journal row. BalanceAfter and CreditsAfter are
// the account state right after this row was applied.
type Transaction struct {
	ID            int64           `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	Type          TxType          `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	CreditPoints  int             `db:"credit_points" json:"credit_points"`
	Description   string          `db:"description" json:"description"`
	ReferenceType ReferenceType   `db:"reference_type" json:"reference_type"`
	ReferenceID   *string         `db:"reference_id" json:"reference_id"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	CreditsAfter  int             `db:"credits_after" json:"credits_after"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Entry describes one delta to apply to an account.
type Entry struct {
	Type          TxType
	Amount        decimal.Decimal
	CreditPoints  int
	Description   string
	ReferenceType ReferenceType
	ReferenceID   *string
}

type Filter struct {
	Type  TxType
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
