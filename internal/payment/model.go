package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Method string

const (
	MethodUPI    Method = "upi"
	MethodWallet Method = "wallet"
)

// Payment is the single payment record of an order.
type Payment struct {
	ID             string          `db:"id" json:"id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	UPIID          *string         `db:"upi_id" json:"upi_id"`
	Status         Status          `db:"status" json:"status"`
	Method         Method          `db:"method" json:"method"`
	TransactionRef *string         `db:"transaction_ref" json:"transaction_ref"`
	PaidAt         *time.Time      `db:"paid_at" json:"paid_at"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

func (p *Payment) Completed() bool {
	return p.Status == StatusCompleted
}

// Checkout is what the customer needs to pay an order by UPI.
type Checkout struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"orderId"`
	Amount       decimal.Decimal `json:"amount"`
	Status       Status          `json:"status"`
	UPILink      string          `json:"upiLink"`
	QRCode       string          `json:"qrCode"`
	MerchantName string          `json:"merchantName"`
	MerchantUPI  string          `json:"merchantUPI"`
}

type InitiateRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type VerifyRequest struct {
	PaymentID      string `json:"paymentId" validate:"required"`
	TransactionRef string `json:"transactionRef" validate:"max=100"`
}
