package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       any
		expected string
	}{
		{"24.67", "24.67"},
		{"$24.67", "24.67"},
		{"  $ 1,299.00 ", "1299"},
		{"USD 20,000", "20000"},
		{"-5.25", "-5.25"},
		{24.67, "24.67"},
		{json.Number("12.5"), "12.5"},
		{0, "0"},
		{int64(42), "42"},
		{decimal.NewFromInt(7), "7"},
	}
	for _, tc := range cases {
		d := ParseMoney(tc.in)
		if !d.Valid {
			t.Fatalf("ParseMoney(%v) expected present, got absent", tc.in)
		}
		if d.Decimal.String() != tc.expected {
			t.Fatalf("ParseMoney(%v) expected %s, got %s", tc.in, tc.expected, d.Decimal.String())
		}
	}
}

func TestParseMoney_AbsentAndMalformed(t *testing.T) {
	cases := []any{nil, "", "   ", "N/A", "n/a", "no price", struct{}{}, []int{1}}
	for _, tc := range cases {
		if d := ParseMoney(tc); d.Valid {
			t.Fatalf("ParseMoney(%v) expected absent, got %s", tc, d.Decimal.String())
		}
	}
}

func TestParseSuggestedPrice_NonPositiveIsAbsent(t *testing.T) {
	for _, tc := range []any{"0", "0.00", 0, "-3.50", "N/A", nil} {
		if d := ParseSuggestedPrice(tc); d.Valid {
			t.Fatalf("ParseSuggestedPrice(%v) expected absent, got %s", tc, d.Decimal.String())
		}
	}
	if d := ParseSuggestedPrice("29.99"); !d.Valid || d.Decimal.String() != "29.99" {
		t.Fatalf("ParseSuggestedPrice(29.99) expected 29.99, got %+v", d)
	}
}

func TestParseCost_ZeroIsAValidCost(t *testing.T) {
	d := ParseCost("0.00")
	if !d.Valid || !d.Decimal.IsZero() {
		t.Fatalf("ParseCost(0.00) expected present zero, got %+v", d)
	}
	if d := ParseCost("-1"); d.Valid {
		t.Fatalf("ParseCost(-1) expected absent, got %s", d.Decimal.String())
	}
	if d := ParseCost(nil); d.Valid {
		t.Fatalf("ParseCost(nil) expected absent")
	}
}
