package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	cents99 = decimal.RequireFromString("0.99")
	cents95 = decimal.RequireFromString("0.95")
)

// ApplyRounding applies one rounding rule to a raw candidate price. It is
// total over all finite non-negative inputs, idempotent for every rule, and
// never returns a negative result (down-style rules clamp at zero). Rounding
// runs once, after strategy + fallback resolution, never inside a formula.
func ApplyRounding(rule RoundingRule, price decimal.Decimal) decimal.Decimal {
	switch rule {
	case "", RoundingNone:
		return price
	case RoundingUp99:
		return clampZero(endingUp(price, cents99))
	case RoundingDown99:
		return clampZero(endingDown(price, cents99))
	case RoundingUp95:
		return clampZero(endingUp(price, cents95))
	case RoundingDown95:
		return clampZero(endingDown(price, cents95))
	case RoundingUp10Cent:
		return clampZero(price.Mul(ten).Ceil().Div(ten))
	case RoundingDown10Cent:
		return clampZero(price.Mul(ten).Floor().Div(ten))
	case RoundingNearestDollar:
		// Half-up for the non-negative prices this engine produces.
		return clampZero(price.Round(0))
	case RoundingUpDollar:
		return clampZero(price.Ceil())
	default:
		panic(fmt.Sprintf("pricing: unknown rounding rule %q (config not validated)", rule))
	}
}

// endingUp returns the smallest X + ending that is >= price.
func endingUp(price, ending decimal.Decimal) decimal.Decimal {
	candidate := price.Floor().Add(ending)
	if candidate.GreaterThanOrEqual(price) {
		return candidate
	}
	return candidate.Add(one)
}

// endingDown returns the largest X + ending that is <= price.
func endingDown(price, ending decimal.Decimal) decimal.Decimal {
	candidate := price.Floor().Add(ending)
	if candidate.LessThanOrEqual(price) {
		return candidate
	}
	return candidate.Sub(one)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
