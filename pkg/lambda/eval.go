package lambda

import (
	"context"
	"fmt"

	"github.com/randalmurphal/lambda/pkg/lambda/ast"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// evaluator walks one tree for one call. Child results are computed before
// their parent, except where short-circuiting skips them.
type evaluator struct {
	ctx    context.Context
	engine *Engine
	vars   Vars
}

func (ev *evaluator) eval(n ast.Node) (value.Value, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return value.Of(n.Value), nil

	case *ast.Variable:
		if ev.vars == nil {
			return value.NullValue, nil
		}
		v, ok := ev.vars.Lookup(n.Name)
		if !ok {
			return value.NullValue, nil
		}
		return value.Of(v), nil

	case *ast.MemberAccess:
		target, err := ev.eval(n.Target)
		if err != nil {
			return value.NullValue, err
		}
		if err := ev.ctx.Err(); err != nil {
			return value.NullValue, err
		}
		return wrap(ev.engine.resolver.Property(target.Unwrap(), n.Name))

	case *ast.MethodCall:
		target, err := ev.eval(n.Target)
		if err != nil {
			return value.NullValue, err
		}
		args, err := ev.args(n.Args)
		if err != nil {
			return value.NullValue, err
		}
		return wrap(ev.engine.resolver.Method(target.Unwrap(), n.Name, args))

	case *ast.Call:
		fn, err := ev.eval(n.Func)
		if err != nil {
			return value.NullValue, err
		}
		args, err := ev.args(n.Args)
		if err != nil {
			return value.NullValue, err
		}
		return wrap(ev.engine.resolver.Call(fn.Unwrap(), n.Func.String(), args))

	case *ast.Indexer:
		target, err := ev.eval(n.Target)
		if err != nil {
			return value.NullValue, err
		}
		args, err := ev.args(n.Args)
		if err != nil {
			return value.NullValue, err
		}
		return wrap(ev.engine.resolver.Index(target.Unwrap(), args))

	case *ast.UnaryOp:
		return ev.unary(n)

	case *ast.BinaryOp:
		return ev.binary(n)

	case *ast.Ternary:
		cond, err := ev.truth(n.Cond)
		if err != nil {
			return value.NullValue, err
		}
		if cond {
			return ev.eval(n.Then)
		}
		return ev.eval(n.Else)

	case *ast.ListLiteral:
		items, err := ev.values(n.Items)
		if err != nil {
			return value.NullValue, err
		}
		return value.NewList(items), nil

	case *ast.DictLiteral:
		keys, err := ev.values(n.Keys)
		if err != nil {
			return value.NullValue, err
		}
		vals, err := ev.values(n.Values)
		if err != nil {
			return value.NullValue, err
		}
		return value.NewDict(keys, vals)
	}
	return value.NullValue, fmt.Errorf("unsupported node %T", n)
}

func wrap(v any, err error) (value.Value, error) {
	if err != nil {
		return value.NullValue, err
	}
	return value.Of(v), nil
}

// args evaluates call arguments left to right into plain values.
func (ev *evaluator) args(nodes []ast.Node) ([]any, error) {
	if err := ev.ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := ev.eval(n)
		if err != nil {
			return nil, err
		}
		out[i] = v.Unwrap()
	}
	return out, nil
}

// values evaluates nodes left to right, keeping them wrapped.
func (ev *evaluator) values(nodes []ast.Node) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := ev.eval(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *evaluator) truth(n ast.Node) (bool, error) {
	v, err := ev.eval(n)
	if err != nil {
		return false, err
	}
	return ev.engine.coercer.IsTrue(v)
}

func (ev *evaluator) unary(n *ast.UnaryOp) (value.Value, error) {
	switch n.Op {
	case ast.OpNeg:
		v, err := ev.eval(n.Operand)
		if err != nil {
			return value.NullValue, err
		}
		return ev.engine.coercer.Neg(v)
	case ast.OpNot:
		b, err := ev.truth(n.Operand)
		if err != nil {
			return value.NullValue, err
		}
		return value.BoolOf(!b), nil
	}
	return value.NullValue, fmt.Errorf("unsupported unary operator %s", n.Op)
}

func (ev *evaluator) binary(n *ast.BinaryOp) (value.Value, error) {
	switch n.Op {
	case ast.OpAndAlso:
		l, err := ev.truth(n.Left)
		if err != nil || !l {
			return value.BoolOf(false), err
		}
		r, err := ev.truth(n.Right)
		return value.BoolOf(r), err

	case ast.OpOrElse:
		l, err := ev.truth(n.Left)
		if err != nil || l {
			return value.BoolOf(l), err
		}
		r, err := ev.truth(n.Right)
		return value.BoolOf(r), err

	case ast.OpAnd, ast.OpOr:
		l, err := ev.truth(n.Left)
		if err != nil {
			return value.NullValue, err
		}
		r, err := ev.truth(n.Right)
		if err != nil {
			return value.NullValue, err
		}
		if n.Op == ast.OpAnd {
			return value.BoolOf(l && r), nil
		}
		return value.BoolOf(l || r), nil
	}

	l, err := ev.eval(n.Left)
	if err != nil {
		return value.NullValue, err
	}
	r, err := ev.eval(n.Right)
	if err != nil {
		return value.NullValue, err
	}

	c := ev.engine.coercer
	switch n.Op {
	case ast.OpAdd:
		return c.Add(l, r)
	case ast.OpSub:
		return c.Sub(l, r)
	case ast.OpMul:
		return c.Mul(l, r)
	case ast.OpDiv:
		return c.Div(l, r)
	case ast.OpMod:
		return c.Mod(l, r)
	}

	cmp, err := c.Compare(l, r)
	if err != nil {
		return value.NullValue, err
	}
	switch n.Op {
	case ast.OpEq:
		return value.BoolOf(cmp == 0), nil
	case ast.OpNe:
		return value.BoolOf(cmp != 0), nil
	case ast.OpLt:
		return value.BoolOf(cmp < 0), nil
	case ast.OpGt:
		return value.BoolOf(cmp > 0), nil
	case ast.OpLe:
		return value.BoolOf(cmp <= 0), nil
	case ast.OpGe:
		return value.BoolOf(cmp >= 0), nil
	}
	return value.NullValue, fmt.Errorf("unsupported binary operator %s", n.Op)
}
