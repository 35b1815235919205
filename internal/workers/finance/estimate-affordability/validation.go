package estimateaffordability

import "vehicle-finance-workers/internal/common/validation"

// annualIncome is optional and untyped; a missing, non-positive or
// non-numeric income yields hasData=false rather than a validation error.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "Shopping session the estimate belongs to",
				MaxLength:   validation.IntPtr(128),
			},
			"annualIncome": {
				Description: "Gross annual income; number or numeric string",
			},
			"creditScoreTier": {
				Type:        "string",
				Description: "Self-reported credit tier",
				Nullable:    true,
			},
		},
		AdditionalProperties: true,
	}
}
