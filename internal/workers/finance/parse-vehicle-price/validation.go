package parsevehicleprice

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"vehicleId": {
				Type: "string",
			},
			"priceRange": {
				Type:        "string",
				Description: "Catalogue price text such as \"$26,420 - $28,500\"",
				MaxLength:   validation.IntPtr(256),
			},
		},
		Required:             []string{"priceRange"},
		AdditionalProperties: true,
	}
}
