package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/lambda/pkg/lambda"
	"github.com/randalmurphal/lambda/pkg/lambda/ast"
	"github.com/randalmurphal/lambda/pkg/lambda/observability"
	"github.com/randalmurphal/lambda/pkg/lambda/provider"
)

// Catalog evaluates stored expressions by name. Sources are compiled before
// they are stored, so a Catalog never holds an expression that fails to
// parse.
type Catalog struct {
	store  Store
	engine *lambda.Engine
	logger *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithEngine sets the engine used to compile and evaluate entries.
func WithEngine(engine *lambda.Engine) Option {
	return func(c *Catalog) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Catalog over store.
func New(store Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:  store,
		engine: lambda.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine entries are evaluated with.
func (c *Catalog) Engine() *lambda.Engine {
	return c.engine
}

// Define compiles src and stores it under name, replacing any previous
// definition. A compile error leaves the store untouched.
func (c *Catalog) Define(name, src, description string) (Entry, error) {
	if _, err := c.engine.Compile(src); err != nil {
		return Entry{}, fmt.Errorf("define %q: %w", name, err)
	}
	e, err := c.store.Put(Entry{Name: name, Source: src, Description: description})
	if err != nil {
		return Entry{}, fmt.Errorf("define %q: %w", name, err)
	}
	observability.EnrichLogger(c.logger, src).Info("expression defined",
		slog.String("name", name),
		slog.String("id", e.ID),
	)
	return e, nil
}

// Lookup returns the entry stored under name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	return c.store.Get(name)
}

// List returns every entry ordered by name.
func (c *Catalog) List() ([]Entry, error) {
	return c.store.List()
}

// Remove deletes the entry stored under name.
func (c *Catalog) Remove(name string) error {
	if err := c.store.Delete(name); err != nil {
		return err
	}
	c.logger.Info("expression removed", slog.String("name", name))
	return nil
}

// Compile returns the tree for the entry stored under name.
func (c *Catalog) Compile(ctx context.Context, name string) (ast.Node, error) {
	e, err := c.store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", name, err)
	}
	return c.engine.CompileContext(ctx, e.Source)
}

// Eval evaluates the entry stored under name against vars.
func (c *Catalog) Eval(ctx context.Context, name string, vars lambda.Vars) (any, error) {
	e, err := c.store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", name, err)
	}
	return c.engine.EvalContext(ctx, e.Source, vars)
}

// Warm compiles every stored entry into the engine cache and returns how
// many compiled. Entries that fail are reported together.
func (c *Catalog) Warm(ctx context.Context) (int, error) {
	entries, err := c.store.List()
	if err != nil {
		return 0, err
	}

	done := observability.TimedOperation()
	var (
		warmed int
		errs   []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := c.engine.CompileContext(ctx, e.Source); err != nil {
			errs = append(errs, fmt.Errorf("warm %q: %w", e.Name, err))
			continue
		}
		warmed++
	}

	c.logger.Info("catalog warmed",
		slog.Int("entries", len(entries)),
		slog.Int("compiled", warmed),
		slog.Float64("duration_ms", done()),
	)
	return warmed, errors.Join(errs...)
}

// Scope exposes every entry as a variable whose value is the entry
// evaluated against base. Names that are not entries fall through to base.
func (c *Catalog) Scope(ctx context.Context, base lambda.Vars) (*provider.Scope, error) {
	entries, err := c.store.List()
	if err != nil {
		return nil, err
	}
	providers := make(map[string]provider.Provider, len(entries))
	for _, e := range entries {
		p, err := provider.NewExpr(c.engine, e.Source)
		if err != nil {
			return nil, fmt.Errorf("scope %q: %w", e.Name, err)
		}
		providers[e.Name] = p
	}
	return provider.NewScope(ctx, providers, base), nil
}
