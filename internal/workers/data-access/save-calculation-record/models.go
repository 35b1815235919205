package savecalculationrecord

import "encoding/json"

const (
	CalculationAffordability = "affordability"
	CalculationLoanBreakdown = "loan_breakdown"
	CalculationBracketMatch  = "bracket_match"
)

type Input struct {
	SessionID       string          `json:"sessionId"`
	CalculationType string          `json:"calculationType"`
	VehicleID       string          `json:"vehicleId,omitempty"`
	Input           json.RawMessage `json:"input"`
	Result          json.RawMessage `json:"result"`
}

type Output struct {
	CalculationID   string `json:"calculationId"`
	SavedAt         string `json:"savedAt"`
	WithinGuideline *bool  `json:"withinGuideline,omitempty"`
}

// verdict locates a budget verdict in either a bare breakdown or a loan
// worker output wrapping one.
type verdict struct {
	BudgetImpact  *impact `json:"budgetImpact"`
	LoanBreakdown *struct {
		BudgetImpact *impact `json:"budgetImpact"`
	} `json:"loanBreakdown"`
}

type impact struct {
	WithinGuideline bool `json:"withinGuideline"`
}

func withinGuideline(result json.RawMessage) *bool {
	var v verdict
	if err := json.Unmarshal(result, &v); err != nil {
		return nil
	}
	switch {
	case v.BudgetImpact != nil:
		return &v.BudgetImpact.WithinGuideline
	case v.LoanBreakdown != nil && v.LoanBreakdown.BudgetImpact != nil:
		return &v.LoanBreakdown.BudgetImpact.WithinGuideline
	}
	return nil
}
