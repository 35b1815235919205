package sendbudgetalert

import (
	"context"
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/aws"
	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/metrics"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "finance.budget.alert"
	WorkerName = "send-budget-alert"

	alertType = "budget_guideline_exceeded"
)

type Handler struct {
	config    *Config
	publisher aws.TopicPublisher
	sender    aws.EmailSender
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

// HandlerOptions takes the AWS clients as interfaces; a nil client disables
// its channel.
type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Publisher    aws.TopicPublisher
	EmailSender  aws.EmailSender
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
		publisher: opts.Publisher,
		sender:    opts.EmailSender,
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

// Execute alerts only when the breakdown carries a verdict outside the
// guideline. SNS is the primary channel: an email failure after a successful
// publish is logged and the job still completes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	impact := input.LoanBreakdown.BudgetImpact
	switch {
	case impact == nil:
		return &Output{Channels: []string{}, Reason: ReasonNoVerdict}, nil
	case impact.WithinGuideline:
		return &Output{Channels: []string{}, Reason: ReasonWithinGuideline}, nil
	}

	useSNS := h.config.SNSEnabled && h.publisher != nil
	useEmail := h.config.SESEnabled && h.sender != nil && input.Email != ""
	if !useSNS && !useEmail {
		h.logger.Warn("budget alert has no delivery channel", map[string]interface{}{
			"sessionId": input.SessionID,
		})
		return &Output{Channels: []string{}, Reason: ReasonNoChannel}, nil
	}

	text := alertText(input, impact)
	out := &Output{Channels: []string{}}

	if useSNS {
		msg := aws.NewTopicMessage(h.config.TopicARN, alertSubject, text, map[string]string{
			"alertType": alertType,
			"sessionId": input.SessionID,
			"vehicleId": input.VehicleID,
		})
		res, err := h.publisher.Publish(ctx, msg)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelSNS, err)
		}
		out.MessageID = awssdk.ToString(res.MessageId)
		out.Channels = append(out.Channels, ChannelSNS)
	}

	if useEmail {
		res, err := h.sender.SendEmail(ctx, aws.NewEmailInput(h.config.FromEmail, input.Email, alertSubject, text, ""))
		switch {
		case err != nil && len(out.Channels) == 0:
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		case err != nil:
			h.logger.Warn("budget alert email failed", map[string]interface{}{
				"sessionId": input.SessionID,
				"error":     err,
			})
		default:
			if out.MessageID == "" {
				out.MessageID = awssdk.ToString(res.MessageId)
			}
			out.Channels = append(out.Channels, ChannelEmail)
		}
	}

	out.AlertSent = true
	h.logger.Info("budget alert sent", map[string]interface{}{
		"sessionId":              input.SessionID,
		"vehicleId":              input.VehicleID,
		"channels":               out.Channels,
		"percentOfMonthlyIncome": impact.PercentOfMonthlyIncome,
	})
	return out, nil
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
