package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func profileSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"annualIncome"},
		Properties: map[string]Property{
			"annualIncome": {
				Type:    "number",
				Minimum: FloatPtr(0),
			},
			"cityMpg": {
				Type:     "number",
				Nullable: true,
			},
			"creditScoreTier": {
				Type: "string",
				Enum: []string{"excellent", "good", "fair", "poor", "unknown"},
			},
			"brackets": {
				Type:     "array",
				MinItems: IntPtr(1),
				Items:    &Property{Type: "string", MinLength: IntPtr(1)},
			},
		},
		AdditionalProperties: true,
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		badField  string
	}{
		{
			name:      "valid profile",
			input:     map[string]interface{}{"annualIncome": 60000.0, "creditScoreTier": "excellent"},
			wantValid: true,
		},
		{
			name:      "extra process variables allowed",
			input:     map[string]interface{}{"annualIncome": 0.0, "sessionId": "s-1"},
			wantValid: true,
		},
		{
			name:      "nullable accepts null",
			input:     map[string]interface{}{"annualIncome": 1.0, "cityMpg": nil},
			wantValid: true,
		},
		{
			name:      "nullable still type checked",
			input:     map[string]interface{}{"annualIncome": 1.0, "cityMpg": "thirty"},
			wantValid: false,
			badField:  "cityMpg",
		},
		{
			name:      "missing income",
			input:     map[string]interface{}{"creditScoreTier": "good"},
			wantValid: false,
			badField:  "annualIncome",
		},
		{
			name:      "income as string",
			input:     map[string]interface{}{"annualIncome": "60k"},
			wantValid: false,
			badField:  "annualIncome",
		},
		{
			name:      "unknown tier",
			input:     map[string]interface{}{"annualIncome": 1.0, "creditScoreTier": "platinum"},
			wantValid: false,
			badField:  "creditScoreTier",
		},
		{
			name:      "empty bracket list",
			input:     map[string]interface{}{"annualIncome": 1.0, "brackets": []interface{}{}},
			wantValid: false,
			badField:  "brackets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, profileSchema())
			assert.Equal(t, tt.wantValid, result.Valid, result.GetErrorMessages())
			if tt.badField != "" {
				assert.True(t, result.HasErrors(tt.badField), result.GetErrorMessages())
			}
		})
	}
}

func TestValidateInput_ClosedSchema(t *testing.T) {
	schema := profileSchema()
	schema.AdditionalProperties = false

	result := ValidateInput(map[string]interface{}{"annualIncome": 1.0, "extra": true}, schema)
	assert.False(t, result.Valid)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("finance.loan.breakdown"))
	assert.NoError(t, ValidateActivityNaming("vehicle.listing.lookup"))
	assert.Error(t, ValidateActivityNaming("finance-loan-breakdown"))
	assert.Error(t, ValidateActivityNaming("Finance.Loan.Breakdown"))
}

func TestValidateInput_Pattern(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"email": {Type: "string", Pattern: StringPtr(`^[^@\s]+@[^@\s]+$`), Nullable: true},
		},
		AdditionalProperties: true,
	}

	assert.True(t, ValidateInput(map[string]interface{}{"email": "a@b.co"}, schema).Valid)
	assert.True(t, ValidateInput(map[string]interface{}{"email": nil}, schema).Valid)

	result := ValidateInput(map[string]interface{}{"email": "nobody"}, schema)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("email"), result.GetErrorMessages())
}
