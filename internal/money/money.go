// Package money holds the currency arithmetic shared by the ledger, discount
// and settlement code. All amounts are rupees with two decimal places.
package money

import "github.com/shopspring/decimal"

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	// PointValue is the rupee value of one credit point.
	PointValue = decimal.RequireFromString("0.5")
	// RewardRate is the share of an order total returned as credit points.
	RewardRate = decimal.RequireFromString("0.02")
)

const (
	// SignupBonusPoints are granted once when an account is opened.
	SignupBonusPoints = 100
	// MinRedeemPoints is the smallest redemption accepted.
	MinRedeemPoints = 50
)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns round2(amount * percent / 100).
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// PlatformFee returns round2(base * rate).
func PlatformFee(base, rate decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rate))
}

// PointsValue converts credit points into rupees.
func PointsValue(points int) decimal.Decimal {
	return PointValue.Mul(decimal.NewFromInt(int64(points)))
}

// PointsCovering is the largest number of points whose value does not exceed amount.
func PointsCovering(amount decimal.Decimal) int {
	if !amount.IsPositive() {
		return 0
	}
	return int(amount.Div(PointValue).Floor().IntPart())
}

// RewardPoints is floor(total * RewardRate).
func RewardPoints(total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(total.Mul(RewardRate).Floor().IntPart())
}
