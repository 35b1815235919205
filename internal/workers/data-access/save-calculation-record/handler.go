package savecalculationrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType   = "finance.calculation.save"
	WorkerName = "save-calculation-record"
)

type Handler struct {
	config *Config
	db     *sql.DB
	errors *errors.ErrorHandler
	logger logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	DB           *sql.DB
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.DB == nil {
		return nil, fmt.Errorf("database connection is required for %s", WorkerName)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		db:     opts.DB,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	calcID := uuid.New().String()
	createdAt := time.Now().UTC()
	within := withinGuideline(input.Result)

	var vehicleID sql.NullString
	if input.VehicleID != "" {
		vehicleID = sql.NullString{String: input.VehicleID, Valid: true}
	}
	var withinCol sql.NullBool
	if within != nil {
		withinCol = sql.NullBool{Bool: *within, Valid: true}
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO calculation_records (
			id, session_id, calculation_type, vehicle_id,
			input, result, within_guideline, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		calcID,
		input.SessionID,
		input.CalculationType,
		vehicleID,
		[]byte(input.Input),
		[]byte(input.Result),
		withinCol,
		createdAt,
	)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err).WithMetadata("sessionId", input.SessionID)
	}

	// Audit entries are best effort.
	details, err := json.Marshal(map[string]interface{}{
		"sessionId":       input.SessionID,
		"calculationType": input.CalculationType,
		"vehicleId":       input.VehicleID,
		"withinGuideline": within,
	})
	if err != nil {
		details = []byte("{}")
	}
	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"calculation_saved",
		"calculation_record",
		calcID,
		details,
		createdAt,
	); err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"calculationId": calcID,
		})
	}

	h.logger.Info("calculation record saved", map[string]interface{}{
		"calculationId":   calcID,
		"sessionId":       input.SessionID,
		"calculationType": input.CalculationType,
	})

	return &Output{
		CalculationID:   calcID,
		SavedAt:         createdAt.Format(time.RFC3339),
		WithinGuideline: within,
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
