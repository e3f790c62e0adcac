package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// evaluateFallback runs the secondary strategy after the primary yielded no
// price. Fallbacks never cascade further: a map/msrp fallback with no
// effective value is simply absent, and the orchestrator surfaces "no price
// available".
func evaluateFallback(cfg Config, cost, effMsrp, effMap decimal.NullDecimal) (decimal.NullDecimal, string) {
	switch cfg.fallbackStrategy() {
	case FallbackNone:
		return absent, ""

	case FallbackMap:
		if effMap.Valid {
			return effMap, "map"
		}
		return absent, ""

	case FallbackMsrp:
		if effMsrp.Valid {
			return effMsrp, "msrp"
		}
		return absent, ""

	case FallbackCostMarkup:
		return costMarkup(cost, cfg.fallbackMarkupPercentage()), "cost markup"

	case FallbackCostMargin:
		// No distinct cost_margin path: identical to targeted_margin with
		// the engine's default margin.
		return PriceFromMargin(cost, defaultTargetMargin), "cost margin"

	default:
		panic(fmt.Sprintf("pricing: unknown fallback strategy %q (config not validated)", cfg.FallbackStrategy))
	}
}
