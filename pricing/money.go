package pricing

import (
	"encoding/json"
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	ten     = decimal.NewFromInt(10)
)

func present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

var absent = decimal.NullDecimal{}

// ParseMoney normalizes the heterogeneous monetary representations vendor
// adapters hand us: "$24.67", "1,299.00", 24.67, json.Number, nil, "N/A".
// nil, empty string and "N/A" are absent. Malformed input logs a warning and
// also resolves to absent; ParseMoney never fails.
func ParseMoney(raw any) decimal.NullDecimal {
	switch v := raw.(type) {
	case nil:
		return absent
	case decimal.Decimal:
		return present(v)
	case decimal.NullDecimal:
		return v
	case string:
		return parseMoneyString(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			warnMalformed(v.String())
			return absent
		}
		return present(d)
	case float64:
		return present(decimal.NewFromFloat(v))
	case float32:
		return present(decimal.NewFromFloat32(v))
	case int:
		return present(decimal.NewFromInt(int64(v)))
	case int64:
		return present(decimal.NewFromInt(v))
	default:
		warnMalformed(v)
		return absent
	}
}

func parseMoneyString(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return absent
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	// Strip currency symbols, letters and thousands separators:
	// keep digits and '.' only.
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		warnMalformed(s)
		return absent
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		warnMalformed(s)
		return absent
	}
	return present(d)
}

// ParseSuggestedPrice applies MSRP/MAP semantics: a zero or negative suggested
// price is not usable and resolves to absent.
func ParseSuggestedPrice(raw any) decimal.NullDecimal {
	d := ParseMoney(raw)
	if !d.Valid || d.Decimal.Sign() <= 0 {
		return absent
	}
	return d
}

// ParseCost applies acquisition-cost semantics: zero is a valid cost
// (free/promotional items), negative is not.
func ParseCost(raw any) decimal.NullDecimal {
	d := ParseMoney(raw)
	if !d.Valid || d.Decimal.Sign() < 0 {
		return absent
	}
	return d
}

func warnMalformed(raw any) {
	if logger := config.GetLogger(); logger != nil {
		logger.WithFields(logrus.Fields{
			"module": "pricing",
			"raw":    raw,
		}).Warn("unparseable monetary value, treating as absent")
	}
}
