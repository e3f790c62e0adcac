package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Result is the engine's output. Price is absent when neither the primary
// strategy nor the fallback could resolve one; MarginPercent is absent
// whenever Price is absent or zero.
type Result struct {
	Price         decimal.NullDecimal `json:"price"`
	MarginPercent decimal.NullDecimal `json:"margin_percent"`
	Explanation   string              `json:"explanation"`
}

// ExplanationNoPrice is surfaced when no strategy path produced a price.
// Callers decide how to present it (block order submission, show a
// "Price Rules Required" badge, leave the export cell empty).
const ExplanationNoPrice = "Price calculation requires configuration"

// ComputeRetailPrice is the engine's single entry point. It is a pure
// function of its three inputs: identical inputs always yield an identical
// Result, which order totals and comparison screens rely on. It never errors
// on data quality; cfg must have passed Validate.
//
// allQuotes is the full set of vendor quotes for the product (the primary
// included) and feeds cross-vendor MSRP/MAP resolution only.
func ComputeRetailPrice(cfg Config, primary Quote, allQuotes []Quote) Result {
	cost := ParseCost(primary.Cost)
	msrp := ParseSuggestedPrice(primary.Msrp)
	mapPrice := ParseSuggestedPrice(primary.Map)

	// Cross-vendor substitution is gated per field: only when the tenant
	// opted in AND the strategy (or its fallback) actually reads the field.
	effMsrp := ResolveCrossVendor(FieldMsrp, msrp, allQuotes, cfg.UseCrossVendorFallback && cfg.needsMsrp())
	effMap := ResolveCrossVendor(FieldMap, mapPrice, allQuotes, cfg.UseCrossVendorFallback && cfg.needsMap())

	raw, label := evaluateStrategy(cfg, cost, effMsrp, effMap, primary.IsMarketplaceListing)
	if raw.Valid {
		return finishResult(cfg, cost, raw.Decimal, fmt.Sprintf("strategy: %s", label))
	}

	raw, label = evaluateFallback(cfg, cost, effMsrp, effMap)
	if raw.Valid {
		return finishResult(cfg, cost, raw.Decimal, fmt.Sprintf("fallback: %s", label))
	}

	return Result{Explanation: ExplanationNoPrice}
}

func finishResult(cfg Config, cost decimal.NullDecimal, raw decimal.Decimal, explanation string) Result {
	price := ApplyRounding(cfg.roundingRule(), clampZero(raw))
	if rule := cfg.roundingRule(); rule != RoundingNone {
		explanation += fmt.Sprintf(", rounded %s", rule)
	}
	return Result{
		Price:         present(price),
		MarginPercent: MarginFromPrice(present(price), cost),
		Explanation:   explanation,
	}
}
