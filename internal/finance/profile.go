package finance

import (
	"math"
	"strings"
)

type CreditTier string

const (
	CreditExcellent CreditTier = "excellent"
	CreditGood      CreditTier = "good"
	CreditFair      CreditTier = "fair"
	CreditPoor      CreditTier = "poor"
	CreditUnknown   CreditTier = "unknown"
)

// ParseCreditTier maps free-form onboarding answers onto a tier. Anything
// unrecognised becomes CreditUnknown.
func ParseCreditTier(s string) CreditTier {
	switch CreditTier(strings.ToLower(strings.TrimSpace(s))) {
	case CreditExcellent:
		return CreditExcellent
	case CreditGood:
		return CreditGood
	case CreditFair:
		return CreditFair
	case CreditPoor:
		return CreditPoor
	default:
		return CreditUnknown
	}
}

// FinancialProfile is supplied by the caller and never mutated.
type FinancialProfile struct {
	AnnualIncome    float64    `json:"annualIncome"`
	CreditScoreTier CreditTier `json:"creditScoreTier"`
}

// Income returns the usable annual income and whether one is present.
// Zero, negative (clamped), NaN and infinite values all count as absent.
func (p FinancialProfile) Income() (float64, bool) {
	income := clampNonNegative(p.AnnualIncome)
	if income == 0 {
		return 0, false
	}
	return income, true
}

func (p FinancialProfile) IsExcellentCredit() bool {
	return ParseCreditTier(string(p.CreditScoreTier)) == CreditExcellent
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
