package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records a parse of an expression that missed the cache.
	RecordCompile(ctx context.Context, duration time.Duration, err error)

	// RecordCacheLookup records whether a compile request hit the cache.
	RecordCacheLookup(ctx context.Context, hit bool)

	// RecordEval records an evaluation with its duration and error status.
	RecordEval(ctx context.Context, duration time.Duration, err error)
}

type otelMetrics struct {
	compiles       metric.Int64Counter
	compileLatency metric.Float64Histogram
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	evals          metric.Int64Counter
	evalErrors     metric.Int64Counter
	evalLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("lambda")

	compiles, err := meter.Int64Counter("lambda.compile.count",
		metric.WithDescription("Number of expression compilations"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("lambda.compile.latency_ms",
		metric.WithDescription("Expression compile latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("lambda.cache.hits",
		metric.WithDescription("Number of compile requests served from the cache"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter("lambda.cache.misses",
		metric.WithDescription("Number of compile requests that missed the cache"),
	)
	if err != nil {
		return nil, err
	}

	evals, err := meter.Int64Counter("lambda.eval.count",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("lambda.eval.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("lambda.eval.latency_ms",
		metric.WithDescription("Expression evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:       compiles,
		compileLatency: compileLatency,
		cacheHits:      cacheHits,
		cacheMisses:    cacheMisses,
		evals:          evals,
		evalErrors:     evalErrors,
		evalLatency:    evalLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// RecordCompile records a compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.compiles.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, ms(duration), attrs)
}

// RecordCacheLookup records a cache hit or miss.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if hit {
		m.cacheHits.Add(ctx, 1)
		return
	}
	m.cacheMisses.Add(ctx, 1)
}

// RecordEval records an evaluation.
func (m *otelMetrics) RecordEval(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.evals.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, ms(duration), attrs)

	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("phase", lerrors.Categorize(err).String()),
		))
	}
}
