package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/pkg/tracing"
)

func TestTracingPlugin(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracing.Install(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { tracing.Install(noop.NewTracerProvider()) })

	f := newFixture(t)
	ctx, parent := tracing.StartSpan(context.Background(), "test", "parent")
	f.saveMember(t, ctx, member.NewMember("member1"))
	_, err := f.members.FindByUsername(ctx, "member1")
	require.NoError(t, err)
	parent.End()

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		byName[s.Name()] = s
	}

	create, ok := byName["db.create"]
	require.True(t, ok)
	assert.Equal(t, parent.SpanContext().TraceID(), create.SpanContext().TraceID())

	query, ok := byName["db.query"]
	require.True(t, ok)
	var statement string
	for _, kv := range query.Attributes() {
		if kv.Key == "db.statement" {
			statement = kv.Value.AsString()
		}
	}
	assert.Contains(t, statement, "username")
}
