package matchbudgetbracket

import (
	"context"
	"fmt"
	"math"
	"time"

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
	TaskType   = "finance.bracket.match"
	WorkerName = "match-budget-bracket"
)

type Handler struct {
	config    *Config
	estimator finance.Estimator
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
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

	var input Input
	if err := camunda.DecodeJobVariables(job, GetInputSchema(), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.CodeOf(err)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, h.Execute(&input)); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute scores every bracket against the moderate tier. Without a moderate
// tier nothing is recommended and hasData is false.
func (h *Handler) Execute(input *Input) *Output {
	moderate, ok := h.moderateRange(input)

	out := &Output{
		HasData:             ok,
		Brackets:            make([]BracketMatch, 0, len(input.Brackets)),
		RecommendedBrackets: []string{},
	}
	if ok {
		out.ModerateRange = &moderate
	}

	for _, label := range input.Brackets {
		match := BracketMatch{Label: label}

		bracket, parsed := finance.ParseBracket(label)
		if parsed {
			match.Parsed = true
			match.Min = bound(bracket.Min)
			match.Max = bound(bracket.Max)
			match.Recommended = ok && finance.IsRecommendedBracket(bracket, moderate)
		} else {
			h.logger.Warn("unparseable budget bracket", map[string]interface{}{"label": label})
		}

		if match.Recommended {
			out.RecommendedBrackets = append(out.RecommendedBrackets, label)
		}
		out.Brackets = append(out.Brackets, match)
	}

	h.logger.Debug("budget brackets matched", map[string]interface{}{
		"sessionId":   input.SessionID,
		"brackets":    len(input.Brackets),
		"recommended": len(out.RecommendedBrackets),
	})
	return out
}

func (h *Handler) moderateRange(input *Input) (finance.PriceRange, bool) {
	if input.ModerateRange != nil {
		return *input.ModerateRange, true
	}
	if input.AnnualIncome == nil {
		return finance.PriceRange{}, false
	}
	result, ok := h.estimator.Estimate(finance.FinancialProfile{AnnualIncome: input.AnnualIncome.Float64()})
	if !ok {
		return finance.PriceRange{}, false
	}
	return result.PriceTiers.Moderate, true
}

// bound drops infinite ends; JSON cannot carry them.
func bound(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
