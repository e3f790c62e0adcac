// Package pricing implements the retail price calculation engine: given one
// vendor's cost/MSRP/MAP figures, the competing vendors' figures, and a
// tenant's pricing configuration, it deterministically derives a retail price
// and the resulting gross margin.
//
// The engine is pure. It does no I/O, holds no state, and never fails on
// data-quality problems; every computation terminates in a Result. Callers
// load configurations and quotes however they like (GORM models, Redis cache,
// inline request payloads) and hand them in as values.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy selects the primary retail price formula.
type Strategy string

const (
	StrategyMsrp             Strategy = "msrp"
	StrategyMap              Strategy = "map"
	StrategyPercentageMarkup Strategy = "percentage_markup"
	StrategyTargetedMargin   Strategy = "targeted_margin"
	StrategyPremiumOverMap   Strategy = "premium_over_map"
	StrategyDiscountToMsrp   Strategy = "discount_to_msrp"
)

// FallbackStrategy is applied only when the primary strategy yields no price.
type FallbackStrategy string

const (
	FallbackNone       FallbackStrategy = "none"
	FallbackMap        FallbackStrategy = "map"
	FallbackMsrp       FallbackStrategy = "msrp"
	FallbackCostMarkup FallbackStrategy = "cost_markup"
	FallbackCostMargin FallbackStrategy = "cost_margin"
)

// RoundingRule is applied once, after strategy + fallback resolution.
type RoundingRule string

const (
	RoundingNone          RoundingRule = "none"
	RoundingUp99          RoundingRule = "up_99"
	RoundingDown99        RoundingRule = "down_99"
	RoundingUp95          RoundingRule = "up_95"
	RoundingDown95        RoundingRule = "down_95"
	RoundingUp10Cent      RoundingRule = "up_10cent"
	RoundingDown10Cent    RoundingRule = "down_10cent"
	RoundingNearestDollar RoundingRule = "nearest_dollar"
	RoundingUpDollar      RoundingRule = "up_dollar"
)

// Default percentages when a strategy's parameter is not configured.
// Markup-/margin-style parameters default to 20, amount-/discount-style to 0.
var (
	defaultMarkupPercentage = decimal.NewFromInt(20)
	defaultTargetMargin     = decimal.NewFromInt(20)
	defaultPremiumAmount    = decimal.Zero
	defaultDiscount         = decimal.Zero
)

// Config is one tenant's pricing configuration, immutable for the duration of
// a calculation. Selecting which configuration applies (the is_default flag)
// is the caller's job.
type Config struct {
	Strategy                 Strategy            `json:"strategy" binding:"required"`
	MarkupPercentage         decimal.NullDecimal `json:"markup_percentage"`
	TargetMarginPercentage   decimal.NullDecimal `json:"target_margin_percentage"`
	PremiumAmount            decimal.NullDecimal `json:"premium_amount"`
	DiscountPercentage       decimal.NullDecimal `json:"discount_percentage"`
	FallbackStrategy         FallbackStrategy    `json:"fallback_strategy"`
	FallbackMarkupPercentage decimal.NullDecimal `json:"fallback_markup_percentage"`
	RoundingRule             RoundingRule        `json:"rounding_rule"`
	UseCrossVendorFallback   bool                `json:"use_cross_vendor_fallback"`
}

// ErrInvalidConfiguration marks a structurally invalid configuration
// (unrecognized enum value). This is a config-authoring error, not a runtime
// data condition; Validate catches it before any computation runs.
var ErrInvalidConfiguration = fmt.Errorf("pricing: invalid configuration")

// Validate rejects unrecognized enum values. Empty fallback strategy and
// rounding rule are accepted and treated as "none".
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyMsrp, StrategyMap, StrategyPercentageMarkup,
		StrategyTargetedMargin, StrategyPremiumOverMap, StrategyDiscountToMsrp:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, c.Strategy)
	}
	switch c.FallbackStrategy {
	case "", FallbackNone, FallbackMap, FallbackMsrp, FallbackCostMarkup, FallbackCostMargin:
	default:
		return fmt.Errorf("%w: unknown fallback strategy %q", ErrInvalidConfiguration, c.FallbackStrategy)
	}
	switch c.RoundingRule {
	case "", RoundingNone, RoundingUp99, RoundingDown99, RoundingUp95, RoundingDown95,
		RoundingUp10Cent, RoundingDown10Cent, RoundingNearestDollar, RoundingUpDollar:
	default:
		return fmt.Errorf("%w: unknown rounding rule %q", ErrInvalidConfiguration, c.RoundingRule)
	}
	return nil
}

func (c Config) markupPercentage() decimal.Decimal {
	if c.MarkupPercentage.Valid {
		return c.MarkupPercentage.Decimal
	}
	return defaultMarkupPercentage
}

func (c Config) targetMarginPercentage() decimal.Decimal {
	if c.TargetMarginPercentage.Valid {
		return c.TargetMarginPercentage.Decimal
	}
	return defaultTargetMargin
}

func (c Config) premiumAmount() decimal.Decimal {
	if c.PremiumAmount.Valid {
		return c.PremiumAmount.Decimal
	}
	return defaultPremiumAmount
}

func (c Config) discountPercentage() decimal.Decimal {
	if c.DiscountPercentage.Valid {
		return c.DiscountPercentage.Decimal
	}
	return defaultDiscount
}

func (c Config) fallbackMarkupPercentage() decimal.Decimal {
	if c.FallbackMarkupPercentage.Valid {
		return c.FallbackMarkupPercentage.Decimal
	}
	return defaultMarkupPercentage
}

func (c Config) fallbackStrategy() FallbackStrategy {
	if c.FallbackStrategy == "" {
		return FallbackNone
	}
	return c.FallbackStrategy
}

func (c Config) roundingRule() RoundingRule {
	if c.RoundingRule == "" {
		return RoundingNone
	}
	return c.RoundingRule
}

// needsMsrp reports whether the configured strategy or fallback reads the
// effective MSRP, which gates cross-vendor resolution for that field.
func (c Config) needsMsrp() bool {
	return c.Strategy == StrategyMsrp || c.Strategy == StrategyDiscountToMsrp ||
		c.fallbackStrategy() == FallbackMsrp
}

func (c Config) needsMap() bool {
	return c.Strategy == StrategyMap || c.Strategy == StrategyPremiumOverMap ||
		c.fallbackStrategy() == FallbackMap
}
