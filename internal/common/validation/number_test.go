package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `60000`, 60000},
		{"fraction", `1234.5`, 1234.5},
		{"numeric string", `"60000"`, 60000},
		{"grouped string", `" 60,000 "`, 60000},
		{"empty string", `""`, 0},
		{"word", `"abc"`, 0},
		{"nan string", `"NaN"`, 0},
		{"bool", `true`, 0},
		{"object", `{"amount":1}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Income *Number `json:"annualIncome"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"annualIncome":`+tt.raw+`}`), &dst))
			require.NotNil(t, dst.Income)
			assert.Equal(t, tt.want, dst.Income.Float64())
		})
	}
}

func TestNumber_NullStaysNil(t *testing.T) {
	var dst struct {
		Income *Number `json:"annualIncome"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"annualIncome":null}`), &dst))
	assert.Nil(t, dst.Income)
}

func TestValidateInput_UntypedPropertyAcceptsAnything(t *testing.T) {
	schema := JSONSchema{
		Type:                 "object",
		Properties:           map[string]Property{"annualIncome": {Description: "Gross annual income"}},
		AdditionalProperties: true,
	}
	for _, v := range []interface{}{"", "abc", "60000", 60000.0, nil} {
		assert.True(t, ValidateInput(map[string]interface{}{"annualIncome": v}, schema).Valid, "%v", v)
	}
}
