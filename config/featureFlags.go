package config

import (
	"os"
	"strings"
)

// CrossVendorFallbackKillSwitch disables cross-vendor MSRP/MAP substitution
// platform-wide, regardless of per-tenant configuration. Escape hatch for
// bad vendor feeds poisoning the cross-vendor maximum.
//
// Set via env:
// - CROSS_VENDOR_FALLBACK_DISABLED=true
func CrossVendorFallbackKillSwitch() bool {
	return boolEnv("CROSS_VENDOR_FALLBACK_DISABLED")
}

// PricingCacheDisabled bypasses the Redis computed-price cache. Every compute
// request recalculates from quotes. Useful while debugging stale prices.
//
// Set via env:
// - PRICING_CACHE_DISABLED=true
func PricingCacheDisabled() bool {
	return boolEnv("PRICING_CACHE_DISABLED")
}

func boolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
