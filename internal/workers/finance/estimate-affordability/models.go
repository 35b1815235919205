package estimateaffordability

import (
	"vehicle-finance-workers/internal/common/validation"
	"vehicle-finance-workers/internal/finance"
)

type Input struct {
	SessionID       string             `json:"sessionId,omitempty"`
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
	HasData               bool                         `json:"hasData"`
	Affordability         *finance.AffordabilityResult `json:"affordability,omitempty"`
	RecommendedPriceRange *finance.PriceRange          `json:"recommendedPriceRange,omitempty"`
	Message               string                       `json:"message,omitempty"`
}

// estimate is the memoized value; NoData is cached as HasData=false.
type estimate struct {
	HasData bool                        `json:"hasData"`
	Result  finance.AffordabilityResult `json:"result"`
}

const noDataMessage = "Add your annual income to see a recommended price range."
