package matchbudgetbracket

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type: "string",
			},
			"brackets": {
				Type:        "array",
				Description: "Budget bracket labels offered to the shopper",
				MinItems:    validation.IntPtr(1),
				Items:       &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
			},
			"moderateRange": {
				Type: "object",
				Properties: map[string]validation.Property{
					"min": {Type: "number", Minimum: validation.FloatPtr(0)},
					"max": {Type: "number", Minimum: validation.FloatPtr(0)},
				},
				Required: []string{"min", "max"},
				Nullable: true,
			},
			"annualIncome": {
				Description: "Gross annual income; non-numeric values mean no data",
			},
		},
		Required:             []string{"brackets"},
		AdditionalProperties: true,
	}
}
