package estimateaffordability

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"vehicle-finance-workers/internal/common/cache"
	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/validation"
	"vehicle-finance-workers/internal/finance"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "vehicle-shopping",
		ProcessDefinitionVersion: 1,
		ElementId:                "Activity_EstimateAffordability",
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T, memo *cache.Memo) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Memo:         memo,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func income(v float64) *validation.Number { return validation.NumberPtr(v) }

func TestHandler_Execute(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name         string
		input        *Input
		wantData     bool
		wantModerate *finance.PriceRange
	}{
		{
			name:         "60k income",
			input:        &Input{SessionID: "s-1", AnnualIncome: income(60000), CreditScoreTier: "good"},
			wantData:     true,
			wantModerate: &finance.PriceRange{Min: 5000, Max: 7000},
		},
		{
			name:     "missing income",
			input:    &Input{SessionID: "s-2"},
			wantData: false,
		},
		{
			name:     "zero income",
			input:    &Input{AnnualIncome: income(0)},
			wantData: false,
		},
		{
			name:     "negative income",
			input:    &Input{AnnualIncome: income(-1000)},
			wantData: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, out.HasData)

			if !tt.wantData {
				assert.Nil(t, out.Affordability)
				assert.Nil(t, out.RecommendedPriceRange)
				assert.Equal(t, noDataMessage, out.Message)
				return
			}
			require.NotNil(t, out.Affordability)
			assert.Equal(t, *tt.wantModerate, *out.RecommendedPriceRange)
			assert.Equal(t, out.Affordability.PriceTiers.Moderate, *out.RecommendedPriceRange)
		})
	}
}

func TestHandler_Execute_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	memo := cache.New(rdb, time.Minute, logger.NewNoOpLogger())
	h := newTestHandler(t, memo)

	first, err := h.Execute(context.Background(), &Input{AnnualIncome: income(85000)})
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	second, err := h.Execute(context.Background(), &Input{AnnualIncome: income(85000)})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, mr.Keys(), 1)
}

func TestHandler_Execute_CreditTierDoesNotChangeEstimate(t *testing.T) {
	h := newTestHandler(t, nil)

	excellent, err := h.Execute(context.Background(), &Input{AnnualIncome: income(90000), CreditScoreTier: "excellent"})
	require.NoError(t, err)
	poor, err := h.Execute(context.Background(), &Input{AnnualIncome: income(90000), CreditScoreTier: "poor"})
	require.NoError(t, err)

	assert.Equal(t, excellent.Affordability, poor.Affordability)
}

func TestHandler_Execute_NetIncomeFactor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NetIncomeFactor = 0.75
	h, err := NewHandler(HandlerOptions{CustomConfig: cfg, Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{AnnualIncome: income(60000)})
	require.NoError(t, err)
	assert.InDelta(t, 3750, out.Affordability.Derived.NetMonthlyIncome, 0.001)
	assert.InDelta(t, 375, out.Affordability.MaxMonthlyCarExpense, 0.001)
}

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
		wantCode  errors.ErrorCode
		check     func(t *testing.T, in Input)
	}{
		{
			name:      "income and tier",
			variables: map[string]interface{}{"sessionId": "s-1", "annualIncome": 60000, "creditScoreTier": "good"},
			check: func(t *testing.T, in Input) {
				require.NotNil(t, in.AnnualIncome)
				assert.Equal(t, 60000.0, in.AnnualIncome.Float64())
				assert.Equal(t, finance.CreditGood, in.Profile().CreditScoreTier)
			},
		},
		{
			name:      "null income",
			variables: map[string]interface{}{"annualIncome": nil},
			check: func(t *testing.T, in Input) {
				assert.Nil(t, in.AnnualIncome)
				_, ok := in.Profile().Income()
				assert.False(t, ok)
			},
		},
		{
			name:      "numeric string income",
			variables: map[string]interface{}{"annualIncome": "60000"},
			check: func(t *testing.T, in Input) {
				income, ok := in.Profile().Income()
				assert.True(t, ok)
				assert.Equal(t, 60000.0, income)
			},
		},
		{
			name:      "worded income",
			variables: map[string]interface{}{"annualIncome": "sixty thousand"},
			check: func(t *testing.T, in Input) {
				_, ok := in.Profile().Income()
				assert.False(t, ok)
			},
		},
		{
			name:      "session id too long",
			variables: map[string]interface{}{"sessionId": strings.Repeat("s", 200)},
			wantErr:   true,
			wantCode:  errors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			err := camunda.DecodeJobVariables(createMockJob(1, tt.variables), GetInputSchema(), &in)
			if tt.wantErr {
				require.Error(t, err)
				stdErr, ok := errors.AsStandardError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, stdErr.Code)
				return
			}
			require.NoError(t, err)
			tt.check(t, in)
		})
	}
}

func TestHandler_Execute_IncomeFromProcessVariables(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name         string
		income       interface{}
		wantData     bool
		wantModerate finance.PriceRange
	}{
		{name: "empty string", income: "", wantData: false},
		{name: "non-numeric string", income: "abc", wantData: false},
		{name: "numeric string", income: "60000", wantData: true, wantModerate: finance.PriceRange{Min: 5000, Max: 7000}},
		{name: "number", income: 60000, wantData: true, wantModerate: finance.PriceRange{Min: 5000, Max: 7000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			job := createMockJob(7, map[string]interface{}{"sessionId": "s-7", "annualIncome": tt.income})
			require.NoError(t, camunda.DecodeJobVariables(job, GetInputSchema(), &in))

			out, err := h.Execute(context.Background(), &in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, out.HasData)
			if !tt.wantData {
				assert.Equal(t, noDataMessage, out.Message)
				assert.Nil(t, out.RecommendedPriceRange)
				return
			}
			require.NotNil(t, out.RecommendedPriceRange)
			assert.Equal(t, tt.wantModerate, *out.RecommendedPriceRange)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "zero max jobs", mutate: func(c *Config) { c.MaxJobsActive = 0 }, wantErr: true},
		{name: "factor above one", mutate: func(c *Config) { c.NetIncomeFactor = 1.2 }, wantErr: true},
		{name: "factor zero", mutate: func(c *Config) { c.NetIncomeFactor = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Workers: map[string]config.WorkerConfig{
			WorkerName: {Enabled: false, MaxJobsActive: 3, Timeout: 2000},
		},
		Finance: config.FinanceConfig{NetIncomeFactor: 0.8},
	}

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 0.8, cfg.NetIncomeFactor)

	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))
}

func TestHandler_GetTaskType(t *testing.T) {
	h := newTestHandler(t, nil)
	assert.Equal(t, "finance.affordability.estimate", h.GetTaskType())
	assert.True(t, h.IsEnabled())
}
