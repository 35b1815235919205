package camunda

import (
	"testing"

	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceInput struct {
	PriceRange string `json:"priceRange"`
}

func priceSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"priceRange"},
		Properties: map[string]validation.Property{
			"priceRange": {Type: "string", MinLength: validation.IntPtr(1)},
		},
		AdditionalProperties: true,
	}
}

func jobWithVariables(vars string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Variables: vars}}
}

func TestDecodeJobVariables(t *testing.T) {
	var in priceInput
	require.NoError(t, DecodeJobVariables(jobWithVariables(`{"priceRange":"$26,420 - $28,500","other":1}`), priceSchema(), &in))
	assert.Equal(t, "$26,420 - $28,500", in.PriceRange)
}

func TestDecodeJobVariables_Errors(t *testing.T) {
	tests := []struct {
		name     string
		vars     string
		wantCode errors.ErrorCode
	}{
		{"malformed json", `{"priceRange":`, errors.ErrCodeInputParsingFailed},
		{"missing field", `{}`, errors.ErrCodeValidationFailed},
		{"wrong type", `{"priceRange": 27460}`, errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in priceInput
			err := DecodeJobVariables(jobWithVariables(tt.vars), priceSchema(), &in)
			require.Error(t, err)
			assert.Equal(t, string(tt.wantCode), errors.CodeOf(err))
		})
	}
}
