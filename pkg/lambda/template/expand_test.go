package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/lambda/pkg/lambda"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

func TestExpand_BraceStyle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]any
		expected string
	}{
		{
			name:     "simple variable",
			input:    "Hello ${name}",
			vars:     map[string]any{"name": "World"},
			expected: "Hello World",
		},
		{
			name:     "arithmetic",
			input:    "Total: ${price * qty}",
			vars:     map[string]any{"price": 2.5, "qty": 4},
			expected: "Total: 10",
		},
		{
			name:     "method call",
			input:    "${name.ToUpper()}!",
			vars:     map[string]any{"name": "world"},
			expected: "WORLD!",
		},
		{
			name:     "adjacent placeholders",
			input:    "${a}${b}${c}",
			vars:     map[string]any{"a": "1", "b": "2", "c": "3"},
			expected: "123",
		},
		{
			name:     "dictionary literal",
			input:    `${{"x": "ex"}["x"]}`,
			expected: "ex",
		},
		{
			name:     "brace inside string literal",
			input:    `${"}" + s}`,
			vars:     map[string]any{"s": "{"},
			expected: "}{",
		},
		{
			name:     "ternary",
			input:    `${n > 1 ? "many" : "one"}`,
			vars:     map[string]any{"n": 3},
			expected: "many",
		},
		{
			name:     "bool result",
			input:    "${a == b}",
			vars:     map[string]any{"a": 1, "b": 1},
			expected: "true",
		},
		{
			name:     "no placeholders",
			input:    "plain text",
			expected: "plain text",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	exp := NewExpander()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exp.Expand(tt.input, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpand_DollarStyle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]any
		expected string
	}{
		{
			name:     "simple variable",
			input:    "Hello $name",
			vars:     map[string]any{"name": "World"},
			expected: "Hello World",
		},
		{
			name:     "word boundary",
			input:    "$port/$portNumber",
			vars:     map[string]any{"port": 80, "portNumber": 8080},
			expected: "80/8080",
		},
		{
			name:     "followed by punctuation",
			input:    "$host:$port",
			vars:     map[string]any{"host": "localhost", "port": 8080},
			expected: "localhost:8080",
		},
		{
			name:     "escaped dollar",
			input:    "cost $$5",
			expected: "cost $5",
		},
		{
			name:     "lone dollar",
			input:    "$ and $",
			expected: "$ and $",
		},
		{
			name:     "digit after dollar",
			input:    "$5",
			expected: "$5",
		},
	}

	exp := NewExpander()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exp.Expand(tt.input, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpand_NoReexpansion(t *testing.T) {
	got, err := NewExpander().Expand("${a} $b", map[string]any{"a": "$b", "b": "${a}"})
	require.NoError(t, err)
	assert.Equal(t, "$b ${a}", got)
}

func TestExpand_MissingAction(t *testing.T) {
	input := "Hello ${ user } and $other"

	tests := []struct {
		name     string
		action   MissingAction
		expected string
		wantErr  bool
	}{
		{name: "keep", action: MissingKeep, expected: input},
		{name: "empty", action: MissingEmpty, expected: "Hello  and "},
		{name: "error", action: MissingError, expected: input, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := NewExpander(WithMissingAction(tt.action))
			got, err := exp.Expand(input, map[string]any{"other": nil})
			assert.Equal(t, tt.expected, got)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var undef *UndefinedVariableError
			require.ErrorAs(t, err, &undef)
			assert.Equal(t, []string{"user", "other"}, undef.Names)
			assert.Equal(t, "undefined variables: user, other", err.Error())
		})
	}
}

func TestExpand_EvaluationError(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingEmpty))

	_, err := exp.Expand("x = ${1 / 0}", nil)
	var exprErr *ExpressionError
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, "1 / 0", exprErr.Expr)
	assert.Equal(t, 4, exprErr.Offset)
	var arith *lerrors.ArithmeticError
	assert.ErrorAs(t, err, &arith)

	_, err = exp.Expand("${1 +}", nil)
	require.ErrorAs(t, err, &exprErr)
	assert.True(t, lerrors.IsCompileError(err))

	_, err = exp.Expand("oops ${1 + 2", nil)
	require.ErrorAs(t, err, &exprErr)
	assert.True(t, errors.Is(err, errUnclosed))
	assert.Equal(t, 5, exprErr.Offset)
}

func TestExpander_Styles(t *testing.T) {
	vars := map[string]any{"name": "World"}

	got, err := NewExpander(WithBraceStyle(false)).Expand("${name} $name", vars)
	require.NoError(t, err)
	assert.Equal(t, "${name} World", got)

	got, err = NewExpander(WithDollarStyle(false)).Expand("${name} $name", vars)
	require.NoError(t, err)
	assert.Equal(t, "World $name", got)
}

func TestExpander_WithEngine(t *testing.T) {
	eng := lambda.New()
	exp := NewExpander(WithEngine(eng))

	for i := 0; i < 3; i++ {
		_, err := exp.Expand("${a + 1}", map[string]any{"a": i})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), eng.Stats().Compiles)
}

func TestExpandContext_Vars(t *testing.T) {
	vars := lambda.VarsFunc(func(name string) (any, bool) {
		return "<" + name + ">", true
	})
	got, err := NewExpander().ExpandContext(context.Background(), "$a ${b + c}", vars)
	require.NoError(t, err)
	assert.Equal(t, "<a> <b><c>", got)
}

func TestExpandAll(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingError))
	vars := map[string]any{"env": "prod"}

	got, err := exp.ExpandAll([]string{"https://${env}.api.com", "$env-db"}, vars)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://prod.api.com", "prod-db"}, got)

	got, err = exp.ExpandAll([]string{"$env", "$missing"}, vars)
	assert.Error(t, err)
	assert.Nil(t, got)

	got, err = exp.ExpandAll(nil, vars)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpandMap(t *testing.T) {
	exp := NewExpander()
	vars := map[string]any{"env": "prod", "n": 2}

	got, err := exp.ExpandMap(map[string]any{
		"url":  "https://${env}.api.com",
		"port": 8080,
		"nested": map[string]any{
			"replicas": "${n * 3}",
		},
		"hosts": []any{"$env-1", "$env-2", 3},
	}, vars)
	require.NoError(t, err)

	assert.Equal(t, "https://prod.api.com", got["url"])
	assert.Equal(t, 8080, got["port"])
	assert.Equal(t, map[string]any{"replicas": "6"}, got["nested"])
	assert.Equal(t, []any{"prod-1", "prod-2", 3}, got["hosts"])
}

func TestMustExpand(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingError))
	assert.Equal(t, "hi", exp.MustExpand("$x", map[string]any{"x": "hi"}))
	assert.Panics(t, func() { exp.MustExpand("$y", nil) })
}

func TestPackageExpand(t *testing.T) {
	assert.Equal(t, "Hello World", Expand("Hello $name", map[string]any{"name": "World"}))
	assert.Equal(t, "bad ${1 /}", Expand("bad ${1 /}", nil))
}
