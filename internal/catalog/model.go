package catalog

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Icon      *string   `db:"icon" json:"icon"`
	Image     *string   `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Service struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	CategoryID   int64           `db:"category_id" json:"category_id"`
	CategoryName *string         `db:"category_name" json:"category_name"`
	ProviderID   *string         `db:"provider_id" json:"provider_id"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Rating       decimal.Decimal `db:"rating" json:"rating"`
	Reviews      int             `db:"reviews" json:"reviews"`
	Image        *string         `db:"image" json:"image"`
	Description  *string         `db:"description" json:"description"`
	Duration     *string         `db:"duration" json:"duration"`
	Warranty     *string         `db:"warranty" json:"warranty"`
	Includes     pq.StringArray  `db:"includes" json:"includes"`
	Active       bool            `db:"active" json:"active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type Sort string

const (
	SortPopular   Sort = ""
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
)

type Filter struct {
	CategoryID int64
	ProviderID string
	Search     string
	Sort       Sort
	Page       int
	Limit      int
}
