package cli

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// Eval evaluates an expression.
type Eval struct {
	Expr string `arg:"" help:"Expression to evaluate."`

	Vars varFlags `embed:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, env *Env) error {
	vars, err := e.Vars.resolve(ctx, env)
	if err != nil {
		return err
	}

	result, err := env.Engine.EvalContext(ctx, e.Expr, vars)
	if err != nil {
		env.Logger.Debug("eval failed",
			slog.String("command", "eval"),
			slog.Any("error", err),
		)
		return err
	}

	_, err = fmt.Fprintln(env.Out, Format(result))
	return err
}

// Check parses an expression without evaluating it.
type Check struct {
	Expr string `arg:"" help:"Expression to parse."`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, env *Env) error {
	node, err := env.Engine.CompileContext(ctx, c.Expr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, node.String())
	return err
}

// Format renders a result for display. Strings print bare at the top level
// and quoted inside lists and dictionaries.
func Format(v any) string {
	return format(v, true)
}

func format(v any, top bool) string {
	val := value.Of(v)
	switch val.Kind() {
	case value.Null:
		return "null"
	case value.String:
		if top {
			return val.String()
		}
		return fmt.Sprintf("%q", val.String())
	case value.List:
		items, _ := val.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = format(item, false)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.Map:
		return formatMap(val.Unwrap())
	default:
		return val.String()
	}
}

// formatMap renders entries sorted by key.
func formatMap(m any) string {
	rv := reflect.ValueOf(m)
	entries := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, format(iter.Key().Interface(), false)+": "+format(iter.Value().Interface(), false))
	}
	slices.Sort(entries)
	return "{" + strings.Join(entries, ", ") + "}"
}
