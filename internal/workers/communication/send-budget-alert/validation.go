package sendbudgetalert

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"vehicleId": {
				Type:     "string",
				Nullable: true,
			},
			"vehicleName": {
				Type:     "string",
				Nullable: true,
			},
			"email": {
				Type:        "string",
				Description: "Shopper address; email is skipped when absent",
				Pattern:     validation.StringPtr(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
				Nullable:    true,
			},
			"loanBreakdown": {
				Type:        "object",
				Description: "Output of the loan breakdown calculation",
				Properties: map[string]validation.Property{
					"vehiclePrice":     {Type: "number"},
					"totalMonthlyCost": {Type: "number"},
				},
				Required: []string{"vehiclePrice", "totalMonthlyCost"},
			},
		},
		Required:             []string{"sessionId", "loanBreakdown"},
		AdditionalProperties: true,
	}
}
