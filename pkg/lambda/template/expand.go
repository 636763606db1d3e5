package template

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/lambda/pkg/lambda"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// Expander expands placeholders in strings.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	engine        *lambda.Engine
	missingAction MissingAction
	braceStyle    bool
	dollarStyle   bool
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - Engine: lambda.Default()
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - BraceStyle: enabled (${expr})
//   - DollarStyle: enabled ($name)
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		braceStyle:    true,
		dollarStyle:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.engine == nil {
		e.engine = lambda.Default()
	}
	return e
}

// Expand expands placeholders in s using vars.
//
// Example:
//
//	exp := NewExpander()
//	result, err := exp.Expand("Hello ${name.ToUpper()}", map[string]any{"name": "World"})
//	// result: "Hello WORLD"
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	return e.ExpandContext(context.Background(), s, lambda.MapVars(vars))
}

// ExpandContext is Expand with a context and any Vars implementation.
// The partially expanded string is returned alongside an
// *UndefinedVariableError.
func (e *Expander) ExpandContext(ctx context.Context, s string, vars lambda.Vars) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	var (
		b       strings.Builder
		missing []string
	)
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		next := s[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next == '{' && e.braceStyle:
			end, err := closingBrace(s, i+2)
			if err != nil {
				return "", err
			}
			src := s[i+2 : end]
			v, err := e.engine.EvalContext(ctx, src, vars)
			if err != nil {
				return "", &ExpressionError{Expr: src, Offset: i, Err: err}
			}
			if !e.write(&b, s[i:end+1], v) {
				missing = append(missing, strings.TrimSpace(src))
			}
			i = end + 1

		case isIdentStart(next) && e.dollarStyle:
			j := i + 2
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			name := s[i+1 : j]
			var v any
			if vars != nil {
				v, _ = vars.Lookup(name)
			}
			if !e.write(&b, s[i:j], v) {
				missing = append(missing, name)
			}
			i = j

		default:
			b.WriteByte('$')
			i++
		}
	}

	if len(missing) > 0 && e.missingAction == MissingError {
		return b.String(), &UndefinedVariableError{Names: missing}
	}
	return b.String(), nil
}

// write renders v, or applies the missing action when v is null. It
// reports whether v had a value.
func (e *Expander) write(b *strings.Builder, placeholder string, v any) bool {
	val := value.Of(v)
	if !val.IsNull() {
		b.WriteString(val.String())
		return true
	}
	if e.missingAction != MissingEmpty {
		b.WriteString(placeholder)
	}
	return false
}

// closingBrace returns the index of the brace closing the placeholder whose
// body starts at start. Braces inside string literals are ignored.
func closingBrace(s string, start int) (int, error) {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, &ExpressionError{Expr: s[start:], Offset: start - 2, Err: errUnclosed}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// MustExpand expands placeholders in s and panics on error.
func (e *Expander) MustExpand(s string, vars map[string]any) string {
	result, err := e.Expand(s, vars)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return result
}

// ExpandAll expands placeholders in all strings.
//
// On error, returns nil and the first error.
func (e *Expander) ExpandAll(ss []string, vars map[string]any) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, vars)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap expands placeholders in all string values of a map recursively.
//
// Non-string values are copied as-is. Nested maps and []any are expanded.
// On error, returns nil and the first error.
func (e *Expander) ExpandMap(m map[string]any, vars map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, vars)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

func (e *Expander) expandValue(v any, vars map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, vars)
	case map[string]any:
		return e.ExpandMap(val, vars)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.expandValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

var defaultExpander = NewExpander()

// Expand expands placeholders in s using a default expander.
// Missing values are kept; evaluation errors leave s unchanged.
func Expand(s string, vars map[string]any) string {
	result, err := defaultExpander.Expand(s, vars)
	if err != nil {
		return s
	}
	return result
}
