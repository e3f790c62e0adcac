package pricing

import "github.com/shopspring/decimal"

// MarginFromPrice derives the gross margin percentage:
// (price - cost) / price * 100. Absent when price is absent or non-positive
// (margin over a zero price is undefined) or cost is absent.
func MarginFromPrice(price, cost decimal.NullDecimal) decimal.NullDecimal {
	if !price.Valid || !cost.Valid || price.Decimal.Sign() <= 0 {
		return absent
	}
	margin := price.Decimal.Sub(cost.Decimal).DivRound(price.Decimal, 4).Mul(hundred)
	return present(margin)
}

// PriceFromMargin is the inverse: cost / (1 - margin/100). A margin of 100%
// or more has no finite price and yields absent.
func PriceFromMargin(cost decimal.NullDecimal, marginPercent decimal.Decimal) decimal.NullDecimal {
	if !cost.Valid {
		return absent
	}
	if marginPercent.GreaterThanOrEqual(hundred) {
		return absent
	}
	denominator := one.Sub(marginPercent.DivRound(hundred, 4))
	return present(cost.Decimal.DivRound(denominator, 4))
}
