// Package provider composes values from constants and expressions.
//
// A Provider produces a value from a set of variables. Providers nest:
// a Dictionary of Expr providers evaluates several expressions against the
// same variables and collects the results by name.
//
//	p := provider.Dictionary{
//	    "total": provider.MustExpr(eng, "price * qty"),
//	    "label": provider.Const{Value: "order"},
//	}
//	m, err := p.Provide(ctx, lambda.MapVars{"price": 2.5, "qty": 4})
package provider

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/randalmurphal/lambda/pkg/lambda"
	"github.com/randalmurphal/lambda/pkg/lambda/ast"
)

// Provider produces a value from vars.
type Provider interface {
	Provide(ctx context.Context, vars lambda.Vars) (any, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, vars lambda.Vars) (any, error)

// Provide implements Provider.
func (f Func) Provide(ctx context.Context, vars lambda.Vars) (any, error) {
	return f(ctx, vars)
}

// Const always provides Value.
type Const struct {
	Value any
}

// Provide implements Provider.
func (c Const) Provide(context.Context, lambda.Vars) (any, error) {
	return c.Value, nil
}

// Dictionary provides a map[string]any holding the value of each entry.
// Entries are evaluated in key order.
type Dictionary map[string]Provider

// Provide implements Provider.
func (d Dictionary) Provide(ctx context.Context, vars lambda.Vars) (any, error) {
	out := make(map[string]any, len(d))
	for _, name := range d.names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := d[name]
		if p == nil {
			out[name] = nil
			continue
		}
		v, err := p.Provide(ctx, vars)
		if err != nil {
			return nil, fmt.Errorf("provide %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func (d Dictionary) names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Expr evaluates an expression. The source is compiled when the Expr is
// created so syntax errors surface early.
type Expr struct {
	engine *lambda.Engine
	src    string
	node   ast.Node
}

// NewExpr compiles src with engine. A nil engine uses lambda.Default.
func NewExpr(engine *lambda.Engine, src string) (*Expr, error) {
	if engine == nil {
		engine = lambda.Default()
	}
	node, err := engine.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Expr{engine: engine, src: src, node: node}, nil
}

// MustExpr is NewExpr that panics on a compile error.
func MustExpr(engine *lambda.Engine, src string) *Expr {
	e, err := NewExpr(engine, src)
	if err != nil {
		panic(fmt.Sprintf("provider: %v", err))
	}
	return e
}

// Source returns the expression text.
func (e *Expr) Source() string {
	return e.src
}

// Provide implements Provider.
func (e *Expr) Provide(ctx context.Context, vars lambda.Vars) (any, error) {
	return e.engine.EvalNode(ctx, e.node, vars)
}

// Scope exposes providers as variables. A name found in providers is
// computed from base on first lookup and remembered; other names fall
// through to base. Provider errors make the name resolve to nil and are
// reported by Err.
type Scope struct {
	ctx       context.Context
	providers map[string]Provider
	base      lambda.Vars

	mu     sync.Mutex
	values map[string]any
	err    error
}

var _ lambda.Vars = (*Scope)(nil)

// NewScope creates a Scope.
func NewScope(ctx context.Context, providers map[string]Provider, base lambda.Vars) *Scope {
	return &Scope{
		ctx:       ctx,
		providers: providers,
		base:      base,
		values:    make(map[string]any),
	}
}

// Lookup implements lambda.Vars.
func (s *Scope) Lookup(name string) (any, bool) {
	p, ok := s.providers[name]
	if !ok {
		if s.base == nil {
			return nil, false
		}
		return s.base.Lookup(name)
	}

	s.mu.Lock()
	if v, ok := s.values[name]; ok {
		s.mu.Unlock()
		return v, true
	}
	s.mu.Unlock()

	v, err := p.Provide(s.ctx, s.base)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.err == nil {
			s.err = fmt.Errorf("provide %q: %w", name, err)
		}
		return nil, true
	}
	s.values[name] = v
	return v, true
}

// Err returns the first provider error seen by Lookup.
func (s *Scope) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
