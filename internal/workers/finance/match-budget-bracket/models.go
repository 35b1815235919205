package matchbudgetbracket

import (
	"vehicle-finance-workers/internal/common/validation"
	"vehicle-finance-workers/internal/finance"
)

// Input names the brackets to score. The moderate tier comes from
// moderateRange when given, otherwise it is estimated from annualIncome.
type Input struct {
	SessionID     string              `json:"sessionId,omitempty"`
	Brackets      []string            `json:"brackets"`
	ModerateRange *finance.PriceRange `json:"moderateRange,omitempty"`
	AnnualIncome  *validation.Number  `json:"annualIncome,omitempty"`
}

// BracketMatch reports one bracket. A nil Max marks an open-ended bracket
// such as "$50,000+".
type BracketMatch struct {
	Label       string   `json:"label"`
	Parsed      bool     `json:"parsed"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Recommended bool     `json:"recommended"`
}

type Output struct {
	HasData             bool                `json:"hasData"`
	ModerateRange       *finance.PriceRange `json:"moderateRange,omitempty"`
	Brackets            []BracketMatch      `json:"brackets"`
	RecommendedBrackets []string            `json:"recommendedBrackets"`
}
