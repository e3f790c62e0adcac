package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveCrossVendor_MaxAcrossQuotes(t *testing.T) {
	quotes := []Quote{
		{VendorId: "v1", Cost: "20.00"},                  // no msrp
		{VendorId: "v2", Msrp: "29.99", Map: "27.00"},
		{VendorId: "v3", Msrp: 34.99},
		{VendorId: "v4", Msrp: "N/A", Map: "31.50"},
	}

	got := ResolveCrossVendor(FieldMsrp, absent, quotes, true)
	if !got.Valid || got.Decimal.String() != "34.99" {
		t.Fatalf("expected cross-vendor msrp max 34.99, got %+v", got)
	}

	got = ResolveCrossVendor(FieldMap, absent, quotes, true)
	if !got.Valid || got.Decimal.String() != "31.5" {
		t.Fatalf("expected cross-vendor map max 31.5, got %+v", got)
	}
}

func TestResolveCrossVendor_PrimaryPresentIsNoOp(t *testing.T) {
	primary := present(decimal.RequireFromString("19.99"))
	quotes := []Quote{{VendorId: "v2", Msrp: "99.99"}}

	got := ResolveCrossVendor(FieldMsrp, primary, quotes, true)
	if !got.Valid || got.Decimal.String() != "19.99" {
		t.Fatalf("expected primary value untouched, got %+v", got)
	}
}

func TestResolveCrossVendor_DisabledIsNoOp(t *testing.T) {
	quotes := []Quote{{VendorId: "v2", Msrp: "99.99"}}
	if got := ResolveCrossVendor(FieldMsrp, absent, quotes, false); got.Valid {
		t.Fatalf("expected absent when disabled, got %+v", got)
	}
}

func TestResolveCrossVendor_NoVendorHasField(t *testing.T) {
	quotes := []Quote{
		{VendorId: "v1", Cost: "10.00"},
		{VendorId: "v2", Msrp: "N/A"},
		{VendorId: "v3", Msrp: "0"},
	}
	if got := ResolveCrossVendor(FieldMsrp, absent, quotes, true); got.Valid {
		t.Fatalf("expected absent when no quote carries the field, got %+v", got)
	}
}
