package camunda

import (
	"context"
	"errors"
	"testing"

	"vehicle-finance-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// nilJobClient satisfies worker.JobClient; the handlers under test only
// request commands, they never send them.
type nilJobClient struct{}

func (nilJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (nilJobClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (nilJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

type handlerFunc func(client worker.JobClient, job entities.Job)

func (f handlerFunc) Handle(client worker.JobClient, job entities.Job) { f(client, job) }

func testJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                7,
		Type:               "finance.loan.breakdown",
		ProcessInstanceKey: 70,
		ElementId:          "Activity_LoanBreakdown",
		Variables:          "{}",
	}}
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	tests := []struct {
		name       string
		handle     handlerFunc
		wantStatus string
	}{
		{
			name:       "completed",
			handle:     func(c worker.JobClient, _ entities.Job) { c.NewCompleteJobCommand() },
			wantStatus: statusCompleted,
		},
		{
			name:       "thrown",
			handle:     func(c worker.JobClient, _ entities.Job) { c.NewThrowErrorCommand() },
			wantStatus: statusFailed,
		},
		{
			name:       "failed",
			handle:     func(c worker.JobClient, _ entities.Job) { c.NewFailJobCommand() },
			wantStatus: statusFailed,
		},
		{
			name:       "no command",
			handle:     func(worker.JobClient, entities.Job) {},
			wantStatus: statusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := tracetest.NewInMemoryExporter()
			obs, err := observability.New(observability.Options{ServiceName: "test", SpanExporter: exporter})
			require.NoError(t, err)

			defer func() { _ = obs.Shutdown(context.Background()) }()

			Instrument("finance.loan.breakdown", obs, tt.handle)(nilJobClient{}, testJob())
			require.NoError(t, obs.ForceFlush(context.Background()))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, "finance.loan.breakdown", spans[0].Name)

			var status string
			for _, attr := range spans[0].Attributes {
				if attr.Key == "job.status" {
					status = attr.Value.AsString()
				}
			}
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestInstrument_NilObservability(t *testing.T) {
	called := false
	h := Instrument("finance.price.parse", nil, handlerFunc(func(worker.JobClient, entities.Job) { called = true }))
	h(nilJobClient{}, testJob())
	assert.True(t, called)
}

func TestExecuteWithRetry(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 2, BaseDelay: 0, MaxDelay: 0}

	t.Run("retries transient errors then succeeds", func(t *testing.T) {
		attempts := 0
		err := executeWithRetry(context.Background(), rc, "publish", func(context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		attempts := 0
		err := executeWithRetry(context.Background(), rc, "publish", func(context.Context) error {
			attempts++
			return errors.New("invalid argument")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := executeWithRetry(context.Background(), rc, "publish", func(context.Context) error {
			attempts++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Contains(t, err.Error(), "ENGINE_UNAVAILABLE")
	})
}
