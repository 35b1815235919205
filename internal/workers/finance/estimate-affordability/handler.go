package estimateaffordability

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
	TaskType   = "finance.affordability.estimate"
	WorkerName = "estimate-affordability"

	cacheNamespace = "affordability"
)

type Handler struct {
	config    *Config
	estimator finance.Estimator
	memo      *cache.Memo
	errors    *errors.ErrorHandler
	logger    logger.Logger
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
		config:    cfg,
		estimator: finance.Estimator{NetIncomeFactor: cfg.NetIncomeFactor},
		memo:      opts.Memo,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
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

// Execute never fails for missing income; that is reported as hasData=false.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile := input.Profile()

	key, err := cache.Key(cacheNamespace, profile.AnnualIncome, h.estimator.NetIncomeFactor)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	est, hit, err := cache.GetOrCompute(ctx, h.memo, key, func() (estimate, error) {
		result, ok := h.estimator.Estimate(profile)
		return estimate{HasData: ok, Result: result}, nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if !est.HasData {
		metrics.AffordabilityEstimates.WithLabelValues(metrics.EstimateResultNoData).Inc()
		h.logger.Info("no income on profile, skipping estimate", map[string]interface{}{
			"sessionId": input.SessionID,
		})
		return &Output{HasData: false, Message: noDataMessage}, nil
	}

	metrics.AffordabilityEstimates.WithLabelValues(metrics.EstimateResultEstimated).Inc()
	moderate := est.Result.PriceTiers.Moderate
	h.logger.Debug("affordability estimated", map[string]interface{}{
		"sessionId":   input.SessionID,
		"maxCarPrice": est.Result.Derived.MaxCarPrice,
		"cacheHit":    hit,
	})

	return &Output{
		HasData:               true,
		Affordability:         &est.Result,
		RecommendedPriceRange: &moderate,
	}, nil
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
