package savecalculationrecord

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(128),
			},
			"calculationType": {
				Type: "string",
				Enum: []string{CalculationAffordability, CalculationLoanBreakdown, CalculationBracketMatch},
			},
			"vehicleId": {
				Type:     "string",
				Nullable: true,
			},
			"input": {
				Type:        "object",
				Description: "Inputs the calculation was run with",
			},
			"result": {
				Type:        "object",
				Description: "Calculation output as returned by the finance worker",
			},
		},
		Required:             []string{"sessionId", "calculationType", "input", "result"},
		AdditionalProperties: true,
	}
}
