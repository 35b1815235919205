package lookupvehiclelisting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/metrics"
	"vehicle-finance-workers/internal/finance"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType   = "vehicle.listing.lookup"
	WorkerName = "lookup-vehicle-listing"
)

type Handler struct {
	config *Config
	client esapi.Transport
	errors *errors.ErrorHandler
	logger logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Client       esapi.Transport
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("elasticsearch client is required for %s", WorkerName)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		client: opts.Client,
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

// Execute fetches the listing and resolves its price. A listing without a
// parseable price is returned with priceKnown=false.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc, err := h.fetch(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	price, known := finance.ResolveVehiclePrice(doc.PriceRange, doc.Price)
	if !known {
		h.logger.Warn("listing has no usable price", map[string]interface{}{
			"vehicleId":  input.VehicleID,
			"priceRange": doc.PriceRange,
		})
	}

	return &Output{
		VehicleID:    input.VehicleID,
		VehicleName:  vehicleName(doc),
		Make:         doc.Make,
		Model:        doc.Model,
		Year:         doc.Year,
		PriceRange:   doc.PriceRange,
		CityMpg:      doc.CityMpg,
		VehiclePrice: price,
		PriceKnown:   known,
	}, nil
}

func (h *Handler) fetch(ctx context.Context, vehicleID string) (*listing, error) {
	req := esapi.GetRequest{
		Index:      h.config.Index,
		DocumentID: vehicleID,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, errors.NewPriceLookupFailedError(vehicleID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.NewVehicleNotFoundError(vehicleID)
	}
	if res.IsError() {
		return nil, errors.NewPriceLookupFailedError(vehicleID, fmt.Errorf("elasticsearch returned %s", res.Status()))
	}

	var body getResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, errors.NewPriceLookupFailedError(vehicleID, fmt.Errorf("decode listing: %w", err))
	}
	if !body.Found {
		return nil, errors.NewVehicleNotFoundError(vehicleID)
	}
	return &body.Source, nil
}

func vehicleName(doc *listing) string {
	parts := make([]string, 0, 4)
	if doc.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", doc.Year))
	}
	for _, p := range []string{doc.Make, doc.Model, doc.Trim} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
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
