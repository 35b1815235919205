package camunda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusUnknown   = "unacknowledged"
)

type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Observability *observability.Observability
	Logger        logger.Logger
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for opts.TaskType with the handler wrapped in
// tracing and job metrics.
func NewWorker(client zbc.Client, opts WorkerOptions, handler JobHandler) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(Instrument(opts.TaskType, opts.Observability, handler)).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(fmt.Sprintf("%s-worker", opts.TaskType)).
		Open()

	opts.Logger.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return &CamundaWorker{worker: jobWorker, logger: opts.Logger, taskType: opts.TaskType}
}

func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}

// Instrument records a span and the job outcome around handler. The outcome
// is observed from which command the handler issues on the job client.
func Instrument(taskType string, obs *observability.Observability, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		recorder := &outcomeClient{JobClient: client, status: statusUnknown}

		if obs == nil {
			handler.Handle(recorder, job)
			return
		}

		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.GetKey()),
			attribute.Int64("process.instance.key", job.GetProcessInstanceKey()),
			attribute.String("bpmn.element.id", job.GetElementId()),
		)
		defer span.End()

		handler.Handle(recorder, job)

		status := recorder.Status()
		span.SetAttributes(attribute.String("job.status", status))
		if status != statusCompleted {
			span.SetStatus(codes.Error, status)
		}
		obs.RecordJobProcessed(ctx, taskType, status)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), status)
	}
}

// outcomeClient remembers whether the handler completed or failed the job.
type outcomeClient struct {
	worker.JobClient
	mu     sync.Mutex
	status string
}

func (c *outcomeClient) set(status string) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *outcomeClient) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.set(statusCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.set(statusFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.set(statusFailed)
	return c.JobClient.NewThrowErrorCommand()
}
