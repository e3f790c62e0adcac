package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// marketplaceCostStrategies degrade to "use cost verbatim" for marketplace
// listings: the vendor's cost is already the live asking price, and marking
// up an auction price would misstate it. MSRP/MAP strategies are unaffected
// because they never price off cost directly.
var marketplaceCostStrategies = map[Strategy]bool{
	StrategyPercentageMarkup: true,
	StrategyTargetedMargin:   true,
	StrategyPremiumOverMap:   true,
	StrategyDiscountToMsrp:   true,
}

// allowsInternalCostFallback gates the in-strategy cost-markup fallback of
// the reference-price strategies (msrp, map, premium_over_map,
// discount_to_msrp). An explicitly configured fallback strategy takes
// precedence: in that case the strategy reports absent so the orchestrator
// runs the configured fallback instead.
func (c Config) allowsInternalCostFallback() bool {
	return c.fallbackStrategy() == FallbackNone
}

// evaluateStrategy applies the primary strategy to the (cross-vendor
// resolved) inputs and returns the raw candidate price plus a short label of
// the path taken. Absent means the strategy could not produce a price with
// the inputs at hand.
//
// The marketplace short-circuit runs once, before formula dispatch.
// Callers must Validate the config first; an unrecognized strategy here is a
// programming error and panics.
func evaluateStrategy(cfg Config, cost, effMsrp, effMap decimal.NullDecimal, marketplace bool) (decimal.NullDecimal, string) {
	if marketplace && marketplaceCostStrategies[cfg.Strategy] {
		return cost, "marketplace asking price"
	}

	switch cfg.Strategy {
	case StrategyMsrp:
		if effMsrp.Valid {
			return effMsrp, "msrp"
		}
		if !cfg.allowsInternalCostFallback() {
			return absent, ""
		}
		return costMarkup(cost, cfg.markupPercentage()), "msrp via cost markup"

	case StrategyMap:
		if effMap.Valid {
			return effMap, "map"
		}
		if !cfg.allowsInternalCostFallback() {
			return absent, ""
		}
		return costMarkup(cost, cfg.markupPercentage()), "map via cost markup"

	case StrategyPercentageMarkup:
		return costMarkup(cost, cfg.markupPercentage()), "percentage markup"

	case StrategyTargetedMargin:
		return PriceFromMargin(cost, cfg.targetMarginPercentage()), "targeted margin"

	case StrategyPremiumOverMap:
		if effMap.Valid {
			return present(effMap.Decimal.Add(cfg.premiumAmount())), "premium over map"
		}
		if !cfg.allowsInternalCostFallback() {
			return absent, ""
		}
		return costMarkup(cost, cfg.markupPercentage()), "premium over map via cost markup"

	case StrategyDiscountToMsrp:
		if effMsrp.Valid {
			factor := one.Sub(cfg.discountPercentage().DivRound(hundred, 4))
			return present(effMsrp.Decimal.Mul(factor)), "discount to msrp"
		}
		if !cfg.allowsInternalCostFallback() {
			return absent, ""
		}
		return costMarkup(cost, cfg.markupPercentage()), "discount to msrp via cost markup"

	default:
		panic(fmt.Sprintf("pricing: unknown strategy %q (config not validated)", cfg.Strategy))
	}
}

// costMarkup is the shared cost * (1 + pct/100) formula. Absent cost yields
// an absent result.
func costMarkup(cost decimal.NullDecimal, pct decimal.Decimal) decimal.NullDecimal {
	if !cost.Valid {
		return absent
	}
	factor := one.Add(pct.DivRound(hundred, 4))
	return present(cost.Decimal.Mul(factor))
}
