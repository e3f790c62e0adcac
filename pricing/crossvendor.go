package pricing

import "github.com/shopspring/decimal"

// QuoteField names a reference price field subject to cross-vendor fallback.
type QuoteField string

const (
	FieldMsrp QuoteField = "msrp"
	FieldMap  QuoteField = "map"
)

// ResolveCrossVendor substitutes a missing MSRP/MAP on the chosen vendor with
// the best value published by any vendor quoting the same product. "Best" is
// the numeric maximum: advertising the most favorable suggested price avoids
// under-pricing relative to the rest of the market. Vendor identity is
// discarded; ties need no break.
//
// When primary is already present, or the fallback is disabled, primary is
// returned unchanged. All quotes are eligible, including the primary vendor's
// own (it already failed to have the field, so scanning it is harmless).
func ResolveCrossVendor(field QuoteField, primary decimal.NullDecimal, quotes []Quote, enabled bool) decimal.NullDecimal {
	if primary.Valid || !enabled {
		return primary
	}

	best := absent
	for _, q := range quotes {
		var v decimal.NullDecimal
		switch field {
		case FieldMsrp:
			v = ParseSuggestedPrice(q.Msrp)
		case FieldMap:
			v = ParseSuggestedPrice(q.Map)
		default:
			return absent
		}
		if !v.Valid {
			continue
		}
		if !best.Valid || v.Decimal.GreaterThan(best.Decimal) {
			best = v
		}
	}
	return best
}
