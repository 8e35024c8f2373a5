package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTrackQuery_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DatabaseQueryErrors.WithLabelValues("test_op", "Post"))

	TrackQuery("test_op", "Post")(nil)
	TrackQuery("test_op", "Post")(errors.New("boom"))

	after := testutil.ToFloat64(DatabaseQueryErrors.WithLabelValues("test_op", "Post"))
	assert.Equal(t, before+1, after)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer)
}

func TestRepositorySpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() { Tracer = prev })

	_, span := StartRepositorySpan(context.Background(), "mysql", "get", "Post")
	EndSpan(span, errors.New("timeout"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "repository.get", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
