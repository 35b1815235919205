package calculateloanbreakdown

import (
	"vehicle-finance-workers/internal/common/validation"
	"vehicle-finance-workers/internal/finance"
)

// Input carries either a resolved vehiclePrice or the catalogue priceRange
// text; an explicit positive price wins.
type Input struct {
	SessionID       string             `json:"sessionId,omitempty"`
	VehicleID       string             `json:"vehicleId,omitempty"`
	VehiclePrice    float64            `json:"vehiclePrice,omitempty"`
	PriceRange      string             `json:"priceRange,omitempty"`
	CityMpg         *float64           `json:"cityMpg,omitempty"`
	AnnualIncome    *validation.Number `json:"annualIncome,omitempty"`
	CreditScoreTier string             `json:"creditScoreTier,omitempty"`
}

func (i *Input) Profile() finance.FinancialProfile {
	p := finance.FinancialProfile{CreditScoreTier: finance.ParseCreditTier(i.CreditScoreTier)}
	if i.AnnualIncome != nil {
		p.AnnualIncome = i.AnnualIncome.Float64()
	}
	return p
}

type Output struct {
	LoanBreakdown finance.LoanCostBreakdown `json:"loanBreakdown"`
	BudgetWarning bool                      `json:"budgetWarning"`
}
