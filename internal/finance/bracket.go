package finance

import (
	"math"
	"strings"
)

// bracketOverlapShare is a tunable design constant, unrelated to the 10% and
// 20% income rules.
const bracketOverlapShare = 0.30

// Overlap is the length of the intersection of two ranges, never negative.
func Overlap(a, b PriceRange) float64 {
	return math.Max(0, math.Min(a.Max, b.Max)-math.Max(a.Min, b.Min))
}

// IsRecommendedBracket reports whether a user-selectable budget bracket
// overlaps the moderate tier by more than 30% of that tier's width.
func IsRecommendedBracket(bracket, moderate PriceRange) bool {
	width := moderate.Width()
	if width == 0 {
		return false
	}
	return Overlap(bracket, moderate) > bracketOverlapShare*width
}

// ParseBracket converts a bracket label into a range. Supported shapes:
// "$25,000-$35,000", "Under $20,000", "Over $50,000" and "$50,000+".
// Open-ended brackets use +Inf as Max.
func ParseBracket(label string) (PriceRange, bool) {
	prices := ExtractPrices(label)
	lower := strings.ToLower(strings.TrimSpace(label))

	switch {
	case len(prices) >= 2:
		lo, hi := prices[0].InexactFloat64(), prices[1].InexactFloat64()
		if lo > hi {
			lo, hi = hi, lo
		}
		return PriceRange{Min: lo, Max: hi}, true
	case len(prices) == 1:
		v := prices[0].InexactFloat64()
		switch {
		case strings.HasPrefix(lower, "under"), strings.HasPrefix(lower, "below"), strings.HasPrefix(lower, "up to"):
			return PriceRange{Min: 0, Max: v}, true
		case strings.HasPrefix(lower, "over"), strings.HasPrefix(lower, "above"), strings.HasSuffix(lower, "+"):
			return PriceRange{Min: v, Max: math.Inf(1)}, true
		}
		return PriceRange{Min: v, Max: v}, true
	}
	return PriceRange{}, false
}
