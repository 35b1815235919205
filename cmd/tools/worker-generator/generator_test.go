package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"vehicle-finance-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActivity() registry.Activity {
	return registry.Activity{
		ID:          "estimate-lease",
		DisplayName: "Estimate Lease",
		Description: "Prices a 36-month lease.",
		Category:    "finance",
		TaskType:    "finance.lease.estimate",
		Timeout:     "5s",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"vehicleId":    map[string]interface{}{"type": "string"},
				"annualIncome": map[string]interface{}{"type": []interface{}{"number", "null"}, "description": "Gross annual income"},
				"brackets":     map[string]interface{}{"type": "array"},
			},
			"required": []interface{}{"vehicleId"},
		},
	}
}

func TestGenerate_WritesParseableFiles(t *testing.T) {
	dir := t.TempDir()

	files, err := generate(sampleActivity(), dir, false)
	require.NoError(t, err)
	assert.Len(t, files, len(templates))

	fset := token.NewFileSet()
	for _, f := range files {
		assert.Equal(t, filepath.Join(dir, "finance", "estimate-lease"), filepath.Dir(f))
		_, err := parser.ParseFile(fset, f, nil, parser.AllErrors)
		assert.NoError(t, err, f)
	}

	models, err := os.ReadFile(filepath.Join(dir, "finance", "estimate-lease", "models.go"))
	require.NoError(t, err)
	assert.Regexp(t, `AnnualIncome\s+\*float64`, string(models))
	assert.Regexp(t, `VehicleID\s+string`, string(models))
	assert.Regexp(t, `Brackets\s+\[\]interface\{\}`, string(models))

	validation, err := os.ReadFile(filepath.Join(dir, "finance", "estimate-lease", "validation.go"))
	require.NoError(t, err)
	assert.Contains(t, string(validation), `[]string{"vehicleId"}`)
	assert.Regexp(t, `Nullable:\s+true`, string(validation))
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := generate(sampleActivity(), dir, false)
	require.NoError(t, err)

	_, err = generate(sampleActivity(), dir, false)
	assert.Error(t, err)

	_, err = generate(sampleActivity(), dir, true)
	assert.NoError(t, err)
}

func TestGenerate_InvalidTimeout(t *testing.T) {
	a := sampleActivity()
	a.Timeout = "soon"
	_, err := generate(a, t.TempDir(), false)
	assert.Error(t, err)
}

func TestPropertyType(t *testing.T) {
	typ, nullable := propertyType("string")
	assert.Equal(t, "string", typ)
	assert.False(t, nullable)

	typ, nullable = propertyType([]interface{}{"null", "integer"})
	assert.Equal(t, "integer", typ)
	assert.True(t, nullable)
}
