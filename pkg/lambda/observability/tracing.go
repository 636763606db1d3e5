package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Uses the global OTel tracer provider.
var tracer = otel.Tracer("lambda")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCompileSpan starts a span for compiling src.
	StartCompileSpan(ctx context.Context, src string) (context.Context, trace.Span)

	// StartEvalSpan starts a span for evaluating src. A compile span
	// started with the returned context becomes its child.
	StartEvalSpan(ctx context.Context, src string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartCompileSpan(ctx context.Context, src string) (context.Context, trace.Span) {
	return StartCompileSpan(ctx, src)
}

func (m *otelSpanManager) StartEvalSpan(ctx context.Context, src string) (context.Context, trace.Span) {
	return StartEvalSpan(ctx, src)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

func sourceAttrs(src string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("expr.source", Source(src)),
		attribute.Int("expr.length", len(src)),
	)
}

// StartCompileSpan starts a compile span using the global OTel tracer.
func StartCompileSpan(ctx context.Context, src string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "lambda.compile",
		sourceAttrs(src),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEvalSpan starts an evaluation span using the global OTel tracer.
func StartEvalSpan(ctx context.Context, src string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "lambda.eval",
		sourceAttrs(src),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
