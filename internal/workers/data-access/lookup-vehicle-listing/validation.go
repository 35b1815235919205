package lookupvehiclelisting

import "vehicle-finance-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type: "string",
			},
			"vehicleId": {
				Type:        "string",
				Description: "Catalogue document id",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(128),
			},
		},
		Required:             []string{"vehicleId"},
		AdditionalProperties: true,
	}
}
