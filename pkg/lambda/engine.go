package lambda

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/lambda/pkg/lambda/ast"
	"github.com/randalmurphal/lambda/pkg/lambda/cache"
	"github.com/randalmurphal/lambda/pkg/lambda/config"
	"github.com/randalmurphal/lambda/pkg/lambda/convert"
	"github.com/randalmurphal/lambda/pkg/lambda/invoke"
	"github.com/randalmurphal/lambda/pkg/lambda/observability"
	"github.com/randalmurphal/lambda/pkg/lambda/parser"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// Engine compiles and evaluates expressions. Compiled trees are cached by
// source text. An Engine is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	tracing  bool
	cache    cache.Cache[ast.Node]
	conv     convert.Service
	coercer  value.Coercer
	resolver *invoke.Resolver
	timeout  time.Duration

	compiles atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.metrics = observability.NewMetricsRecorder()
		} else {
			e.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(e *Engine) {
		e.tracing = enabled
		if enabled {
			e.spans = observability.NewSpanManager()
		} else {
			e.spans = observability.NoopSpanManager{}
		}
	}
}

// WithCache replaces the default unbounded cache, for example with
// cache.NewLRU.
func WithCache(c cache.Cache[ast.Node]) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithConverter sets the conversion service used for coercion and argument
// conversion.
func WithConverter(conv convert.Service) Option {
	return func(e *Engine) {
		if conv != nil {
			e.conv = conv
		}
	}
}

// WithResolver sets the member resolver. Without it the engine builds one
// over its conversion service.
func WithResolver(r *invoke.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithTimeout bounds every evaluation by d, on top of any deadline the
// caller's context already carries. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = max(d, 0)
	}
}

// New creates an Engine.
//
// Example:
//
//	eng := lambda.New(lambda.WithCache(cache.NewLRU[ast.Node](512)))
//	v, err := eng.Eval("price * qty", map[string]any{"price": 2.5, "qty": 4})
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:  slog.New(slog.DiscardHandler),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		cache:   cache.NewUnbounded[ast.Node](),
		conv:    convert.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.coercer = value.NewCoercer(e.conv)
	if e.resolver == nil {
		e.resolver = invoke.New(e.conv)
	}
	return e
}

// NewFromConfig creates an Engine from configuration settings. opts are
// applied after the settings and take precedence.
func NewFromConfig(cfg config.Config, opts ...Option) (*Engine, error) {
	s, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
		WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.LogLevel}))),
	}
	if s.CacheCapacity > 0 {
		base = append(base, WithCache(cache.NewLRU[ast.Node](s.CacheCapacity)))
	}
	if s.EvalTimeout > 0 {
		base = append(base, WithTimeout(s.EvalTimeout))
	}
	return New(append(base, opts...)...), nil
}

// Resolver returns the member resolver, for registering builtins.
func (e *Engine) Resolver() *invoke.Resolver {
	return e.resolver
}

// Stats are engine counters.
type Stats struct {
	// Compiles counts parser runs.
	Compiles int64
	Hits     int64
	Misses   int64
	Cached   int
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Compiles: e.compiles.Load(),
		Hits:     e.hits.Load(),
		Misses:   e.misses.Load(),
		Cached:   e.cache.Len(),
	}
}

// Compile parses src, or returns the tree cached for it.
func (e *Engine) Compile(src string) (ast.Node, error) {
	return e.compile(context.Background(), src)
}

// CompileContext is Compile with a context for tracing.
func (e *Engine) CompileContext(ctx context.Context, src string) (ast.Node, error) {
	return e.compile(ctx, src)
}

func (e *Engine) compile(ctx context.Context, src string) (ast.Node, error) {
	node, hit, err := cache.GetOrCompile(e.cache, src, func(s string) (ast.Node, error) {
		return e.parse(ctx, s)
	})

	e.metrics.RecordCacheLookup(ctx, hit)
	if hit {
		e.hits.Add(1)
		e.spans.AddSpanEvent(ctx, "lambda.cache.hit")
		observability.LogCacheHit(e.logger, src)
	} else {
		e.misses.Add(1)
	}
	return node, err
}

func (e *Engine) parse(ctx context.Context, src string) (node ast.Node, err error) {
	e.compiles.Add(1)

	if e.tracing {
		var span trace.Span
		ctx, span = e.spans.StartCompileSpan(ctx, src)
		defer func() {
			e.spans.EndSpanWithError(span, err)
		}()
	}

	start := time.Now()
	node, err = parser.Parse(src)
	duration := time.Since(start)

	e.metrics.RecordCompile(ctx, duration, err)
	if err != nil {
		observability.LogCompileError(e.logger, src, err)
		return nil, err
	}
	observability.LogCompile(e.logger, src, float64(duration.Microseconds())/1000)
	return node, nil
}

// Eval compiles src and evaluates it against vars. The result is a plain
// Go value: nil, bool, decimal.Decimal, string, time.Time, or a host value.
func (e *Engine) Eval(src string, vars map[string]any) (any, error) {
	return e.EvalContext(context.Background(), src, MapVars(vars))
}

// EvalContext is Eval with a context and any Vars implementation.
func (e *Engine) EvalContext(ctx context.Context, src string, vars Vars) (result any, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	if e.tracing {
		var span trace.Span
		ctx, span = e.spans.StartEvalSpan(ctx, src)
		defer func() {
			e.spans.EndSpanWithError(span, err)
		}()
	}

	defer func() {
		duration := time.Since(start)
		e.metrics.RecordEval(ctx, duration, err)
		if err != nil {
			observability.LogEvalError(e.logger, src, err)
		} else {
			observability.LogEval(e.logger, src, float64(duration.Microseconds())/1000)
		}
	}()

	node, err := e.compile(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.EvalNode(ctx, node, vars)
}

// EvalNode evaluates an already compiled tree.
func (e *Engine) EvalNode(ctx context.Context, node ast.Node, vars Vars) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ev := &evaluator{ctx: ctx, engine: e, vars: vars}
	v, err := ev.eval(node)
	if err != nil {
		return nil, err
	}
	return v.Unwrap(), nil
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide engine used by the package-level
// functions.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Compile parses src using the default engine.
func Compile(src string) (ast.Node, error) {
	return Default().Compile(src)
}

// Eval evaluates src against vars using the default engine.
func Eval(src string, vars map[string]any) (any, error) {
	return Default().Eval(src, vars)
}

// EvalContext evaluates src against vars using the default engine.
func EvalContext(ctx context.Context, src string, vars Vars) (any, error) {
	return Default().EvalContext(ctx, src, vars)
}
