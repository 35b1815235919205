package finance

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// A currency symbol followed by either comma-grouped digits or a plain run.
var currencyAmount = regexp.MustCompile(`[$€£]\s?(\d{1,3}(?:,\d{3})+|\d+)`)

// ExtractPrices returns every currency amount found in text, in order.
func ExtractPrices(text string) []decimal.Decimal {
	matches := currencyAmount.FindAllStringSubmatch(text, -1)
	prices := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		digits := strings.ReplaceAll(m[1], ",", "")
		d, err := decimal.NewFromString(digits)
		if err != nil {
			continue
		}
		prices = append(prices, d)
	}
	return prices
}

// ParseRepresentativePrice returns the mean of all currency amounts in a
// catalogue price string such as "$26,420 - $28,500". It returns 0 when no
// amount is present; callers treat 0 as "price unknown".
func ParseRepresentativePrice(text string) float64 {
	prices := ExtractPrices(text)
	if len(prices) == 0 {
		return 0
	}
	return decimal.Avg(prices[0], prices[1:]...).InexactFloat64()
}

// ResolveVehiclePrice prefers an explicit positive price and falls back to
// parsing the catalogue text.
func ResolveVehiclePrice(priceText string, price float64) (float64, bool) {
	if p := clampNonNegative(price); p > 0 {
		return p, true
	}
	parsed := ParseRepresentativePrice(priceText)
	return parsed, parsed > 0
}
