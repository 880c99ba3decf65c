package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp, err := newProvider(context.Background(), Options{ServiceName: "membership-test"}, sdktrace.WithSpanProcessor(sr))
	require.NoError(t, err)

	prev := otel.GetTracerProvider()
	Install(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(Options{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	sr := setupRecorder(t)

	t.Run("父子Span属于同一条链路", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "member", "ListMembers")
		rootTraceID := ExtractTraceID(ctx)
		rootSpanID := ExtractSpanID(ctx)

		childCtx, child := StartSpan(ctx, "member", "FindAllPage")
		assert.Equal(t, rootTraceID, ExtractTraceID(childCtx))
		assert.NotEqual(t, rootSpanID, ExtractSpanID(childCtx))

		child.End()
		root.End()

		ended := sr.Ended()
		require.GreaterOrEqual(t, len(ended), 2)
		last := ended[len(ended)-1]
		prev := ended[len(ended)-2]
		assert.Equal(t, "ListMembers", last.Name())
		assert.Equal(t, "FindAllPage", prev.Name())
		assert.Equal(t, last.SpanContext().SpanID(), prev.Parent().SpanID())
	})

	t.Run("记录属性与错误", func(t *testing.T) {
		_, span := StartSpan(context.Background(), "member", "BulkAgePlus")
		span.SetAttributes(attribute.Int("member.age", 20))
		span.SetStatus(codes.Error, "db down")
		span.End()

		ended := sr.Ended()
		got := ended[len(ended)-1]
		assert.Equal(t, codes.Error, got.Status().Code)
		assert.Contains(t, got.Attributes(), attribute.Int("member.age", 20))
	})
}

func TestExtractWithoutSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}

func TestPropagation(t *testing.T) {
	setupRecorder(t)

	ctx, span := StartSpan(context.Background(), "member", "Outgoing")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	require.NotEmpty(t, carrier.Get("traceparent"))

	incoming := otel.GetTextMapPropagator().Extract(context.Background(), carrier)
	assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(incoming))
}
