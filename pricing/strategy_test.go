package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return present(dec(s)) }

func TestEvaluateStrategy_PercentageMarkup(t *testing.T) {
	// Scenario: markup 25% on cost 10.00 => 12.50.
	cfg := Config{Strategy: StrategyPercentageMarkup, MarkupPercentage: nd("25")}

	got, label := evaluateStrategy(cfg, nd("10.00"), absent, absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("12.5")) {
		t.Fatalf("expected 12.5, got %+v", got)
	}
	if label != "percentage markup" {
		t.Fatalf("unexpected label %q", label)
	}

	// Cost is required input: absent cost => absent result.
	if got, _ := evaluateStrategy(cfg, absent, nd("99"), nd("99"), false); got.Valid {
		t.Fatalf("expected absent for absent cost, got %+v", got)
	}
}

func TestEvaluateStrategy_TargetedMargin(t *testing.T) {
	// Scenario: target margin 20% on cost 10.00 => 10 / 0.8 = 12.50.
	cfg := Config{Strategy: StrategyTargetedMargin, TargetMarginPercentage: nd("20")}

	got, _ := evaluateStrategy(cfg, nd("10.00"), absent, absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("12.5")) {
		t.Fatalf("expected 12.5, got %+v", got)
	}

	// Margin >= 100 has no finite price.
	cfg.TargetMarginPercentage = nd("100")
	if got, _ := evaluateStrategy(cfg, nd("10.00"), absent, absent, false); got.Valid {
		t.Fatalf("expected absent for margin >= 100, got %+v", got)
	}
}

func TestEvaluateStrategy_PremiumOverMap(t *testing.T) {
	// Scenario: premium 5.00 over map 25.00 => 30.00.
	cfg := Config{Strategy: StrategyPremiumOverMap, PremiumAmount: nd("5.00")}

	got, _ := evaluateStrategy(cfg, nd("18.00"), absent, nd("25.00"), false)
	if !got.Valid || !got.Decimal.Equal(dec("30")) {
		t.Fatalf("expected 30, got %+v", got)
	}

	// Absent map falls back to cost markup (default 20) when no explicit
	// fallback strategy is configured.
	got, label := evaluateStrategy(cfg, nd("10.00"), absent, absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("12")) {
		t.Fatalf("expected 12 via cost markup, got %+v", got)
	}
	if label != "premium over map via cost markup" {
		t.Fatalf("unexpected label %q", label)
	}
}

func TestEvaluateStrategy_DiscountToMsrp(t *testing.T) {
	cfg := Config{Strategy: StrategyDiscountToMsrp, DiscountPercentage: nd("10")}

	got, _ := evaluateStrategy(cfg, nd("15.00"), nd("40.00"), absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("36")) {
		t.Fatalf("expected 36, got %+v", got)
	}
}

func TestEvaluateStrategy_MsrpInternalCostFallback(t *testing.T) {
	cfg := Config{Strategy: StrategyMsrp}

	got, _ := evaluateStrategy(cfg, nd("10.00"), nd("29.99"), absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("29.99")) {
		t.Fatalf("expected msrp verbatim, got %+v", got)
	}

	// No msrp anywhere: default 20% cost markup.
	got, label := evaluateStrategy(cfg, nd("10.00"), absent, absent, false)
	if !got.Valid || !got.Decimal.Equal(dec("12")) {
		t.Fatalf("expected 12, got %+v", got)
	}
	if label != "msrp via cost markup" {
		t.Fatalf("unexpected label %q", label)
	}

	// With an explicit fallback configured the internal markup is
	// suppressed so the configured fallback can run.
	cfg.FallbackStrategy = FallbackCostMarkup
	if got, _ := evaluateStrategy(cfg, nd("10.00"), absent, absent, false); got.Valid {
		t.Fatalf("expected absent when explicit fallback configured, got %+v", got)
	}

	// Absent cost throughout: nothing to price.
	cfg.FallbackStrategy = ""
	if got, _ := evaluateStrategy(cfg, absent, absent, absent, false); got.Valid {
		t.Fatalf("expected absent for absent cost and msrp, got %+v", got)
	}
}

func TestEvaluateStrategy_MarketplaceOverride(t *testing.T) {
	cost := nd("123.45")
	overridden := []Strategy{
		StrategyPercentageMarkup, StrategyTargetedMargin,
		StrategyPremiumOverMap, StrategyDiscountToMsrp,
	}
	for _, s := range overridden {
		cfg := Config{Strategy: s, MarkupPercentage: nd("50"), TargetMarginPercentage: nd("50"), PremiumAmount: nd("10"), DiscountPercentage: nd("50")}
		got, label := evaluateStrategy(cfg, cost, nd("200"), nd("180"), true)
		if !got.Valid || !got.Decimal.Equal(cost.Decimal) {
			t.Fatalf("strategy %s: expected marketplace cost verbatim, got %+v", s, got)
		}
		if label != "marketplace asking price" {
			t.Fatalf("strategy %s: unexpected label %q", s, label)
		}
	}

	// msrp and map strategies are unaffected by the marketplace flag.
	for _, s := range []Strategy{StrategyMsrp, StrategyMap} {
		cfg := Config{Strategy: s}
		got, _ := evaluateStrategy(cfg, cost, nd("200"), nd("180"), true)
		if !got.Valid || got.Decimal.Equal(cost.Decimal) {
			t.Fatalf("strategy %s: expected reference price, got %+v", s, got)
		}
	}
}

func TestEvaluateFallback(t *testing.T) {
	cost := nd("10.00")

	got, _ := evaluateFallback(Config{FallbackStrategy: FallbackNone}, cost, nd("30"), nd("25"))
	if got.Valid {
		t.Fatalf("fallback none must stay absent, got %+v", got)
	}

	got, _ = evaluateFallback(Config{FallbackStrategy: FallbackMsrp}, cost, nd("30"), absent)
	if !got.Valid || !got.Decimal.Equal(dec("30")) {
		t.Fatalf("msrp fallback expected 30, got %+v", got)
	}

	// map/msrp fallbacks do not cascade further.
	got, _ = evaluateFallback(Config{FallbackStrategy: FallbackMap}, cost, nd("30"), absent)
	if got.Valid {
		t.Fatalf("map fallback without map must be absent, got %+v", got)
	}

	got, _ = evaluateFallback(Config{FallbackStrategy: FallbackCostMarkup, FallbackMarkupPercentage: nd("50")}, cost, absent, absent)
	if !got.Valid || !got.Decimal.Equal(dec("15")) {
		t.Fatalf("cost markup fallback expected 15, got %+v", got)
	}

	// cost_margin behaves as targeted_margin with the default margin (20).
	got, _ = evaluateFallback(Config{FallbackStrategy: FallbackCostMargin}, cost, absent, absent)
	if !got.Valid || !got.Decimal.Equal(dec("12.5")) {
		t.Fatalf("cost margin fallback expected 12.5, got %+v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	ok := Config{Strategy: StrategyMsrp, FallbackStrategy: FallbackCostMarkup, RoundingRule: RoundingUp99}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	// Empty fallback/rounding mean none.
	if err := (Config{Strategy: StrategyMap}).Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	bad := []Config{
		{Strategy: "keystone"},
		{Strategy: StrategyMsrp, FallbackStrategy: "retail"},
		{Strategy: StrategyMsrp, RoundingRule: "up_49"},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}
