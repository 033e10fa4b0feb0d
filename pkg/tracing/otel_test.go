package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestPopulationSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewTracerFromProvider(tp, "test")

	ctx, span := tracer.StartPopulationSpan(context.Background(), 10, 4)
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordSpanDuration(span, 3*time.Millisecond)
	RecordSpanError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "featsel.evaluate_population", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("featsel.population.size", 10))
}

func TestNewTracerWithoutEndpoint(t *testing.T) {
	tracer, err := NewTracer(Config{})
	require.NoError(t, err)

	ctx, span := tracer.StartPopulationSpan(context.Background(), 3, 1)
	RecordSpanSuccess(span)
	span.End()
	assert.NoError(t, tracer.Shutdown(context.Background()))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))
}
