package calculateloanbreakdown

import (
	"context"
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/cache"
	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/metrics"
	"vehicle-finance-workers/internal/finance"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "finance.loan.breakdown"
	WorkerName = "calculate-loan-breakdown"

	cacheNamespace = "loan"
)

type Handler struct {
	config *Config
	memo   *cache.Memo
	errors *errors.ErrorHandler
	logger logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Memo         *cache.Memo
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		memo:   opts.Memo,
		errors: errors.NewErrorHandler(log),
		logger: log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	var input Input
	if err := camunda.DecodeJobVariables(job, GetInputSchema(), &input); err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute prices the loan. An unresolvable price still produces a breakdown
// with priceKnown=false and no budget verdict.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	price, known := finance.ResolveVehiclePrice(input.PriceRange, input.VehiclePrice)
	profile := input.Profile()

	if !known {
		h.logger.Warn("vehicle price unknown", map[string]interface{}{
			"vehicleId":  input.VehicleID,
			"priceRange": input.PriceRange,
		})
	}

	key, err := cache.Key(cacheNamespace, price, profile.AnnualIncome, profile.IsExcellentCredit(), input.CityMpg)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	breakdown, hit, err := cache.GetOrCompute(ctx, h.memo, key, func() (finance.LoanCostBreakdown, error) {
		return finance.ComputeBreakdown(price, profile, input.CityMpg), nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	warning := false
	if impact := breakdown.BudgetImpact; impact != nil {
		metrics.RecordBudgetVerdict(impact.WithinGuideline)
		warning = !impact.WithinGuideline
	}

	h.logger.Debug("loan breakdown calculated", map[string]interface{}{
		"sessionId":        input.SessionID,
		"vehicleId":        input.VehicleID,
		"totalMonthlyCost": breakdown.TotalMonthlyCost,
		"budgetWarning":    warning,
		"cacheHit":         hit,
	})

	return &Output{LoanBreakdown: breakdown, BudgetWarning: warning}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.CodeOf(err)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
