package offer

import (
	"encoding/json"
	"time"

	"gfuture/internal/discount"

	"github.com/shopspring/decimal"
)

type Offer struct {
	ID              int64           `db:"id" json:"id"`
	ProviderID      *string         `db:"provider_id" json:"provider_id"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	DiscountFlat    decimal.Decimal `db:"discount_flat" json:"discount_flat"`
	Code            *string         `db:"code" json:"code"`
	Target          discount.Target `db:"target" json:"target"`
	Image           *string         `db:"image" json:"image"`
	Badge           *string         `db:"badge" json:"badge"`
	ValidFrom       *time.Time      `db:"valid_from" json:"valid_from"`
	ValidUntil      *time.Time      `db:"valid_until" json:"valid_until"`
	Active          bool            `db:"active" json:"active"`
	SortOrder       int             `db:"sort_order" json:"sort_order"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

func (o *Offer) Terms() discount.Terms {
	return discount.Terms{
		Percent:    o.DiscountPercent,
		Flat:       o.DiscountFlat,
		Target:     o.Target,
		Active:     o.Active,
		ValidFrom:  o.ValidFrom,
		ValidUntil: o.ValidUntil,
	}
}

type CreateOfferRequest struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=2000"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountFlat    decimal.Decimal `json:"discount_flat"`
	Code            string          `json:"code" validate:"omitempty,alphanum,max=32"`
	Target          string          `json:"target" validate:"omitempty,oneof=customer provider both"`
	Image           string          `json:"image" validate:"omitempty,url"`
	Badge           string          `json:"badge" validate:"max=40"`
	ValidFrom       *time.Time      `json:"valid_from"`
	ValidUntil      *time.Time      `json:"valid_until"`
	SortOrder       int             `json:"sort_order"`
}

// ApplyRequest carries the cart subtotal. orderTotal is accepted as an
// older name for the same amount.
type ApplyRequest struct {
	Code       string          `json:"code" validate:"required"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

func (r ApplyRequest) amount() decimal.Decimal {
	if !r.Subtotal.IsZero() {
		return r.Subtotal
	}
	return r.OrderTotal
}

type ApplyResult struct {
	Valid          bool            `json:"valid"`
	Offer          *Offer          `json:"offer"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Discount       decimal.Decimal `json:"discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// Optional distinguishes a field that was left out of a JSON body from one
// that was sent, including one sent as null.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// OfferPatch is a partial update. A field that is not Set keeps its stored
// value. A Set pointer field with a nil Value clears the column.
type OfferPatch struct {
	Title           Optional[string]          `json:"title"`
	Description     Optional[string]          `json:"description"`
	DiscountPercent Optional[decimal.Decimal] `json:"discount_percent"`
	DiscountFlat    Optional[decimal.Decimal] `json:"discount_flat"`
	Code            Optional[*string]         `json:"code"`
	Target          Optional[discount.Target] `json:"target"`
	Image           Optional[*string]         `json:"image"`
	Badge           Optional[*string]         `json:"badge"`
	ValidFrom       Optional[*time.Time]      `json:"valid_from"`
	ValidUntil      Optional[*time.Time]      `json:"valid_until"`
	Active          Optional[bool]            `json:"active"`
	SortOrder       Optional[int]             `json:"sort_order"`
}

// Apply merges p into o field by field.
func (p OfferPatch) Apply(o *Offer) {
	if p.Title.Set {
		o.Title = p.Title.Value
	}
	if p.Description.Set {
		o.Description = p.Description.Value
	}
	if p.DiscountPercent.Set {
		o.DiscountPercent = p.DiscountPercent.Value
	}
	if p.DiscountFlat.Set {
		o.DiscountFlat = p.DiscountFlat.Value
	}
	if p.Code.Set {
		o.Code = normalizeCode(p.Code.Value)
	}
	if p.Target.Set {
		o.Target = p.Target.Value
	}
	if p.Image.Set {
		o.Image = p.Image.Value
	}
	if p.Badge.Set {
		o.Badge = p.Badge.Value
	}
	if p.ValidFrom.Set {
		o.ValidFrom = p.ValidFrom.Value
	}
	if p.ValidUntil.Set {
		o.ValidUntil = p.ValidUntil.Value
	}
	if p.Active.Set {
		o.Active = p.Active.Value
	}
	if p.SortOrder.Set {
		o.SortOrder = p.SortOrder.Value
	}
}
