package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

var allRoundingRules = []RoundingRule{
	RoundingNone, RoundingUp99, RoundingDown99, RoundingUp95, RoundingDown95,
	RoundingUp10Cent, RoundingDown10Cent, RoundingNearestDollar, RoundingUpDollar,
}

func TestApplyRounding_ReferenceTable(t *testing.T) {
	price := decimal.RequireFromString("24.67")
	cases := []struct {
		rule     RoundingRule
		expected string
	}{
		{RoundingNone, "24.67"},
		{RoundingUp99, "24.99"},
		{RoundingDown99, "23.99"},
		{RoundingUp95, "24.95"},
		{RoundingDown95, "23.95"},
		{RoundingUp10Cent, "24.7"},
		{RoundingDown10Cent, "24.6"},
		{RoundingNearestDollar, "25"},
		{RoundingUpDollar, "25"},
	}
	for _, tc := range cases {
		got := ApplyRounding(tc.rule, price)
		if got.String() != tc.expected {
			t.Fatalf("ApplyRounding(%s, 24.67) expected %s, got %s", tc.rule, tc.expected, got.String())
		}
	}
}

func TestApplyRounding_Idempotent(t *testing.T) {
	samples := []string{"0", "0.01", "0.50", "0.95", "0.99", "1", "12.50", "24.67", "24.95", "24.99", "25", "99.999", "1000.01"}
	for _, rule := range allRoundingRules {
		for _, s := range samples {
			p := decimal.RequireFromString(s)
			once := ApplyRounding(rule, p)
			twice := ApplyRounding(rule, once)
			if !once.Equal(twice) {
				t.Fatalf("ApplyRounding(%s) not idempotent on %s: once=%s twice=%s", rule, s, once.String(), twice.String())
			}
		}
	}
}

func TestApplyRounding_ExactEndingsAreFixedPoints(t *testing.T) {
	cases := []struct {
		rule  RoundingRule
		price string
	}{
		{RoundingUp99, "24.99"},
		{RoundingDown99, "24.99"},
		{RoundingUp95, "24.95"},
		{RoundingDown95, "24.95"},
		{RoundingUpDollar, "25"},
		{RoundingNearestDollar, "25"},
	}
	for _, tc := range cases {
		p := decimal.RequireFromString(tc.price)
		if got := ApplyRounding(tc.rule, p); !got.Equal(p) {
			t.Fatalf("ApplyRounding(%s, %s) expected fixed point, got %s", tc.rule, tc.price, got.String())
		}
	}
}

func TestApplyRounding_NeverNegative(t *testing.T) {
	small := decimal.RequireFromString("0.30")
	for _, rule := range allRoundingRules {
		if got := ApplyRounding(rule, small); got.IsNegative() {
			t.Fatalf("ApplyRounding(%s, 0.30) produced negative %s", rule, got.String())
		}
	}
	// down_99 on a sub-dollar price clamps at zero rather than going to -0.01.
	if got := ApplyRounding(RoundingDown99, small); !got.IsZero() {
		t.Fatalf("ApplyRounding(down_99, 0.30) expected 0, got %s", got.String())
	}
}

func TestApplyRounding_HalfUpToNearestDollar(t *testing.T) {
	if got := ApplyRounding(RoundingNearestDollar, decimal.RequireFromString("24.50")); got.String() != "25" {
		t.Fatalf("expected 24.50 to round up to 25, got %s", got.String())
	}
	if got := ApplyRounding(RoundingNearestDollar, decimal.RequireFromString("24.49")); got.String() != "24" {
		t.Fatalf("expected 24.49 to round down to 24, got %s", got.String())
	}
}
