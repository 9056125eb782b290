package plan

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TargetCustomer = "customer"
	TargetProvider = "provider"
	TargetBoth     = "both"

	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type Plan struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	Description string          `db:"description" json:"description"`
	Target      string          `db:"target" json:"target"`
	Features    pq.StringArray  `db:"features" json:"features"`
	Recommended bool            `db:"recommended" json:"recommended"`
	Active      bool            `db:"active" json:"active"`
	CTA         string          `db:"cta" json:"cta"`
	SortOrder   int             `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Subscription is a user_plans row joined with the plan it points at.
type Subscription struct {
	ID           int64           `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"user_id"`
	PlanID       int64           `db:"plan_id" json:"plan_id"`
	Status       string          `db:"status" json:"status"`
	SubscribedAt time.Time       `db:"subscribed_at" json:"subscribed_at"`
	ExpiresAt    *time.Time      `db:"expires_at" json:"expires_at"`
	PlanName     string          `db:"plan_name" json:"plan_name"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Currency     string          `db:"currency" json:"currency"`
	Description  string          `db:"description" json:"description"`
	Features     pq.StringArray  `db:"features" json:"features"`
	Recommended  bool            `db:"recommended" json:"recommended"`
}

type SubscribeRequest struct {
	PlanID int64 `json:"plan_id" validate:"required,gt=0"`
}

// TargetFor maps a user role to the plan audience it shops in.
func TargetFor(role string) string {
	if role == TargetProvider {
		return TargetProvider
	}
	return TargetCustomer
}
