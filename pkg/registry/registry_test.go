package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActivity(id, taskType string) Activity {
	return Activity{
		ID:                   id,
		DisplayName:          "Calculate Loan Breakdown",
		Description:          "Monthly loan and ownership cost for a vehicle",
		Category:             "finance",
		Version:              "1.0.0",
		TaskType:             taskType,
		ImplementationStatus: StatusCompleted,
		Timeout:              "10s",
	}
}

func TestAddAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")

	reg, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.NoError(t, reg.Add(sampleActivity("calculate-loan-breakdown", "finance.loan.breakdown")))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 1)
	assert.NotEmpty(t, loaded.LastUpdated)

	a, ok := loaded.FindByTaskType("finance.loan.breakdown")
	require.True(t, ok)
	assert.Equal(t, "calculate-loan-breakdown", a.ID)
}

func TestAdd_Rejects(t *testing.T) {
	reg := &ActivityRegistry{}
	require.NoError(t, reg.Add(sampleActivity("a", "finance.loan.breakdown")))

	assert.Error(t, reg.Add(sampleActivity("a", "finance.price.parse")), "duplicate id")
	assert.Error(t, reg.Add(sampleActivity("b", "loan-breakdown")), "bad naming")

	missingName := sampleActivity("c", "finance.bracket.match")
	missingName.DisplayName = ""
	assert.Error(t, reg.Add(missingName))
}

func TestUpdate(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{sampleActivity("a", "finance.loan.breakdown")}}

	require.NoError(t, reg.Update("a", "status", StatusVerified))
	require.NoError(t, reg.Update("a", "retries", "3"))
	require.NoError(t, reg.Update("a", "timeout", "15s"))

	a, _ := reg.Find("a")
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.Equal(t, 3, a.Retries)
	assert.Equal(t, "15s", a.Timeout)

	assert.Error(t, reg.Update("a", "status", "shipped"))
	assert.Error(t, reg.Update("a", "retries", "many"))
	assert.Error(t, reg.Update("a", "colour", "red"))
	assert.Error(t, reg.Update("missing", "status", StatusPlanned))
}

func TestValidate_RequiredTaskTypes(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		sampleActivity("a", "finance.loan.breakdown"),
		sampleActivity("b", "finance.price.parse"),
	}}

	assert.NoError(t, reg.Validate("finance.loan.breakdown"))

	err := reg.Validate("finance.loan.breakdown", "finance.budget.alert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finance.budget.alert")

	assert.Error(t, (&ActivityRegistry{}).Validate())
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}
