package order

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID             string          `db:"id" json:"id"`
	CustomerID     string          `db:"customer_id" json:"customer_id"`
	ProviderID     *string         `db:"provider_id" json:"provider_id"`
	Status         Status          `db:"status" json:"status"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	PlatformFee    decimal.Decimal `db:"platform_fee" json:"platform_fee"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	CouponCode     *string         `db:"coupon_code" json:"coupon_code"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Address        types.JSONText  `db:"address" json:"address"`
	ScheduledDate  *string         `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime  *string         `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	Items []Item `db:"-" json:"items"`
}

// ShortID is the prefix shown to customers in receipts and journal text.
func (o *Order) ShortID() string {
	if len(o.ID) < 8 {
		return o.ID
	}
	return o.ID[:8]
}

// Item is an order line. Price is the service price at booking time.
type Item struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ServiceID   int64           `db:"service_id" json:"service_id"`
	ServiceName *string         `db:"service_name" json:"service_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
}

type ItemInput struct {
	ServiceID int64 `json:"serviceId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0,lte=100"`
}

type CreateInput struct {
	Items         []ItemInput    `json:"items" validate:"required,min=1,dive"`
	CouponCode    string         `json:"couponCode" validate:"max=32"`
	Address       types.JSONText `json:"address"`
	ScheduledDate string         `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime string         `json:"scheduled_time" validate:"max=20"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}
