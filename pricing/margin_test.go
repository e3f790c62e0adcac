package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarginFromPrice(t *testing.T) {
	price := present(decimal.RequireFromString("12.50"))
	cost := present(decimal.NewFromInt(10))

	got := MarginFromPrice(price, cost)
	if !got.Valid || got.Decimal.String() != "20" {
		t.Fatalf("expected margin 20, got %+v", got)
	}
}

func TestMarginFromPrice_AbsentCases(t *testing.T) {
	ten := present(decimal.NewFromInt(10))
	zero := present(decimal.Zero)

	if got := MarginFromPrice(absent, ten); got.Valid {
		t.Fatalf("expected absent margin for absent price")
	}
	if got := MarginFromPrice(zero, ten); got.Valid {
		t.Fatalf("expected absent margin for zero price")
	}
	if got := MarginFromPrice(ten, absent); got.Valid {
		t.Fatalf("expected absent margin for absent cost")
	}
}

func TestPriceFromMargin(t *testing.T) {
	cost := present(decimal.NewFromInt(10))

	got := PriceFromMargin(cost, decimal.NewFromInt(20))
	if !got.Valid || got.Decimal.String() != "12.5" {
		t.Fatalf("expected 12.5, got %+v", got)
	}

	if got := PriceFromMargin(cost, decimal.NewFromInt(100)); got.Valid {
		t.Fatalf("expected absent for margin >= 100, got %+v", got)
	}
	if got := PriceFromMargin(cost, decimal.NewFromInt(150)); got.Valid {
		t.Fatalf("expected absent for margin >= 100, got %+v", got)
	}
	if got := PriceFromMargin(absent, decimal.NewFromInt(20)); got.Valid {
		t.Fatalf("expected absent for absent cost")
	}
}

func TestMarginRoundTrip(t *testing.T) {
	cost := present(decimal.RequireFromString("10.00"))
	tolerance := decimal.RequireFromString("0.01")

	for _, m := range []string{"0", "5", "10", "20", "33.33", "50", "75", "99"} {
		margin := decimal.RequireFromString(m)
		price := PriceFromMargin(cost, margin)
		if !price.Valid {
			t.Fatalf("PriceFromMargin(10, %s) unexpectedly absent", m)
		}
		back := MarginFromPrice(price, cost)
		if !back.Valid {
			t.Fatalf("MarginFromPrice round trip for %s unexpectedly absent", m)
		}
		if back.Decimal.Sub(margin).Abs().GreaterThan(tolerance) {
			t.Fatalf("margin round trip for %s drifted: got %s", m, back.Decimal.String())
		}
	}
}
