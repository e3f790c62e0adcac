package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/catalog_backend/pricing"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestPricingConfiguration_EngineConfig(t *testing.T) {
	row := PricingConfiguration{
		ID:                       7,
		BusinessId:               "biz-1",
		Name:                     "Default",
		Strategy:                 pricing.StrategyPremiumOverMap,
		PremiumAmount:            nd("5.00"),
		FallbackStrategy:         pricing.FallbackCostMarkup,
		FallbackMarkupPercentage: nd("35"),
		RoundingRule:             pricing.RoundingUp99,
		UseCrossVendorFallback:   utils.NewTrue(),
		IsDefault:                utils.NewTrue(),
	}

	cfg := row.EngineConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid engine config, got %v", err)
	}
	if cfg.Strategy != pricing.StrategyPremiumOverMap {
		t.Fatalf("strategy not carried over: %q", cfg.Strategy)
	}
	if !cfg.UseCrossVendorFallback {
		t.Fatalf("cross-vendor opt-in not carried over")
	}
	if !cfg.PremiumAmount.Valid || cfg.PremiumAmount.Decimal.String() != "5" {
		t.Fatalf("premium amount not carried over: %+v", cfg.PremiumAmount)
	}
}

func TestPricingConfiguration_EngineConfig_NilBoolsAreFalse(t *testing.T) {
	row := PricingConfiguration{Strategy: pricing.StrategyMsrp}
	cfg := row.EngineConfig()
	if cfg.UseCrossVendorFallback {
		t.Fatalf("nil opt-in must map to false")
	}
}

func TestEngineQuotes_MarketplaceFlagStamping(t *testing.T) {
	vendors := map[int]Vendor{
		1: {ID: 1, Name: "Acme Wholesale"},
		2: {ID: 2, Name: "BidBay", IsMarketplace: utils.NewTrue()},
	}
	quotes := []VendorQuote{
		{VendorId: 1, Cost: "10.00", Msrp: "19.99"},
		{VendorId: 2, Cost: "12.34"},
		{VendorId: 3, Cost: "9.99"}, // unknown vendor: not marketplace
	}

	out := EngineQuotes(quotes, vendors)
	if len(out) != 3 {
		t.Fatalf("expected 3 engine quotes, got %d", len(out))
	}
	if out[0].IsMarketplaceListing || !out[1].IsMarketplaceListing || out[2].IsMarketplaceListing {
		t.Fatalf("marketplace flags wrong: %+v", out)
	}
}

func TestChooseLowestCostQuote(t *testing.T) {
	quotes := []pricing.Quote{
		{VendorId: "1", Cost: "12.50"},
		{VendorId: "2", Cost: "N/A"},
		{VendorId: "3", Cost: "$9.99"},
		{VendorId: "4", Cost: "10.00"},
	}
	primary, ok := ChooseLowestCostQuote(quotes)
	if !ok || primary.VendorId != "3" {
		t.Fatalf("expected vendor 3 to win, got %+v ok=%v", primary, ok)
	}

	if _, ok := ChooseLowestCostQuote([]pricing.Quote{{VendorId: "1", Cost: "N/A"}}); ok {
		t.Fatalf("expected no primary when no quote has a cost")
	}
}
