package calculateloanbreakdown

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:      "string",
				MaxLength: validation.IntPtr(128),
			},
			"vehicleId": {
				Type: "string",
			},
			"vehiclePrice": {
				Type:        "number",
				Description: "Resolved vehicle price; 0 or absent falls back to priceRange",
				Nullable:    true,
			},
			"priceRange": {
				Type:        "string",
				Description: "Catalogue price text such as \"$26,420 - $28,500\"",
				Nullable:    true,
			},
			"cityMpg": {
				Type:     "number",
				Minimum:  validation.FloatPtr(0),
				Nullable: true,
			},
			"annualIncome": {
				Description: "Gross annual income; non-numeric values mean no budget verdict",
			},
			"creditScoreTier": {
				Type:     "string",
				Nullable: true,
			},
		},
		AdditionalProperties: true,
	}
}
