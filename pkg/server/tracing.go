package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// outcome is how the hub disposed of one inbound message.
type outcome string

const (
	outcomeOK     outcome = "ok"
	outcomeStale  outcome = "stale"
	outcomeOrphan outcome = "orphan"
	outcomeIgnore outcome = "ignored"
)

// tracer wraps an OpenTelemetry tracer from the global provider. Spans are no-ops unless
// the host program installs a provider.
type tracer struct {
	t trace.Tracer
}

func newTracer(name string) tracer {
	return tracer{t: otel.Tracer(name)}
}

// startDispatch opens the span for one inbound message.
func (t tracer) startDispatch(ctx context.Context, event, sessionID string) (context.Context, trace.Span) {
	return t.t.Start(ctx, "arena."+event,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("arena.event", event),
			attribute.String("arena.session_id", sessionID),
		),
	)
}

// endDispatch records the outcome and closes the span.
func endDispatch(span trace.Span, o outcome) {
	span.SetAttributes(attribute.String("arena.outcome", string(o)))
	if o == outcomeOrphan {
		span.SetStatus(codes.Error, "no player record")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
