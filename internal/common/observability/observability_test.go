package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_ExportsToConfiguredExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	obs, err := New(Options{ServiceName: "vehicle-finance-workers-test", SpanExporter: exporter})
	require.NoError(t, err)

	ctx, span := obs.StartSpan(context.Background(), "finance.loan.breakdown",
		attribute.Int64("job.key", 42))
	obs.RecordJobProcessed(ctx, "finance.loan.breakdown", "completed")
	obs.RecordJobDuration(ctx, "finance.loan.breakdown", 3*time.Millisecond, "completed")
	span.End()

	require.NoError(t, obs.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "finance.loan.breakdown", spans[0].Name)

	require.NoError(t, obs.Shutdown(context.Background()))
}

func TestStartSpan_NoExporterIsNoop(t *testing.T) {
	obs, err := New(Options{ServiceName: "noop", Sampler: sdktrace.NeverSample()})
	require.NoError(t, err)

	_, span := obs.StartSpan(context.Background(), "finance.price.parse")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, obs.ForceFlush(context.Background()))
	assert.NoError(t, obs.Shutdown(context.Background()))
}
