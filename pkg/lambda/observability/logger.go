// Package observability provides structured logging, metrics and tracing
// for expression compilation and evaluation.
//
// Logging uses slog. Metrics and tracing use OpenTelemetry and read the
// global providers. All features are opt-in and have no-op implementations
// when disabled.
package observability

import (
	"log/slog"
	"time"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

// maxSourceLen bounds how much expression text is attached to logs and spans.
const maxSourceLen = 256

// Source shortens expression text for logs and span attributes.
func Source(src string) string {
	if len(src) <= maxSourceLen {
		return src
	}
	return src[:maxSourceLen] + "..."
}

// EnrichLogger adds the expression source to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "a + b")
//	enriched.Info("evaluating") // includes expr
func EnrichLogger(logger *slog.Logger, src string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("expr", Source(src)))
}

// LogCompile logs a successful compilation.
func LogCompile(logger *slog.Logger, src string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression compiled",
		slog.String("expr", Source(src)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompileError logs a failed compilation.
func LogCompileError(logger *slog.Logger, src string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("expression compile failed",
		slog.String("expr", Source(src)),
		slog.String("error", err.Error()),
	)
}

// LogCacheHit logs a compiled expression served from the cache.
func LogCacheHit(logger *slog.Logger, src string) {
	if logger == nil {
		return
	}
	logger.Debug("expression cache hit",
		slog.String("expr", Source(src)),
	)
}

// LogEval logs a successful evaluation.
func LogEval(logger *slog.Logger, src string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression evaluated",
		slog.String("expr", Source(src)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvalError logs a failed evaluation with its error phase.
func LogEvalError(logger *slog.Logger, src string, err error) {
	if logger == nil {
		return
	}
	logger.Error("expression evaluation failed",
		slog.String("expr", Source(src)),
		slog.String("phase", lerrors.Categorize(err).String()),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
