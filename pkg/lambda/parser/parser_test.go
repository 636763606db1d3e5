package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/lambda/pkg/lambda/ast"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

func TestParse_Rendering(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "number", src: "42", want: "42"},
		{name: "string", src: `"a"`, want: `"a"`},
		{name: "bool", src: "true", want: "true"},
		{name: "variable", src: "one", want: "one"},
		{name: "mul binds tighter", src: "1+2*3", want: "(1 + (2 * 3))"},
		{name: "left assoc sub", src: "1-2-3", want: "((1 - 2) - 3)"},
		{name: "parens", src: "(1+2)*3", want: "((1 + 2) * 3)"},
		{name: "unary minus", src: "-one", want: "(-one)"},
		{name: "nested unary", src: "!!a", want: "(!(!a))"},
		{name: "relational below equality", src: "a<b==c>d", want: "((a < b) == (c > d))"},
		{name: "and above or", src: "a || b && c", want: "(a || (b && c))"},
		{name: "keyword or", src: "a or b and c", want: "(a || (b && c))"},
		{name: "non short circuit", src: "a | b & c", want: "(a | (b & c))"},
		{name: "ternary lowest", src: "true or false ? 1 : 0", want: "((true || false) ? 1 : 0)"},
		{name: "ternary right assoc", src: "a ? 1 : b ? 2 : 3", want: "(a ? 1 : (b ? 2 : 3))"},
		{name: "member", src: "now.Year", want: "now.Year"},
		{name: "method chain", src: `obj.Format("b", 2).ToString()`, want: `obj.Format("b", 2).ToString()`},
		{name: "method on literal", src: `"3".ToString()`, want: `"3".ToString()`},
		{name: "free call", src: "f(1, two)", want: "f(1, two)"},
		{name: "indexer", src: "arr[0]", want: "arr[0]"},
		{name: "multi indexer", src: "m[1, 2]", want: "m[1, 2]"},
		{name: "list literal", src: "[1, 2, [3]]", want: "[1, 2, [3]]"},
		{name: "empty list", src: "[]", want: "[]"},
		{name: "dict literal", src: `{"a": 1, "b": two}`, want: `{"a": 1, "b": two}`},
		{name: "empty dict", src: "{}", want: "{}"},
		{name: "decimal literal", src: "3.14", want: "3.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestParse_Shapes(t *testing.T) {
	t.Run("keyword and symbolic forms agree", func(t *testing.T) {
		a, err := Parse("x and y or z")
		require.NoError(t, err)
		b, err := Parse("x && y || z")
		require.NoError(t, err)
		assert.True(t, ast.Equal(a, b))
	})

	t.Run("bare identifier call is a free call", func(t *testing.T) {
		node, err := Parse("f(1)")
		require.NoError(t, err)
		call, ok := node.(*ast.Call)
		require.True(t, ok)
		assert.Equal(t, "f", call.Func.(*ast.Variable).Name)
		require.Len(t, call.Args, 1)
	})

	t.Run("member followed by parens is a method call", func(t *testing.T) {
		node, err := Parse("a.b(1, 2)")
		require.NoError(t, err)
		call, ok := node.(*ast.MethodCall)
		require.True(t, ok)
		assert.Equal(t, "b", call.Name)
		assert.Len(t, call.Args, 2)
	})

	t.Run("number literal is decimal", func(t *testing.T) {
		node, err := Parse("0.1")
		require.NoError(t, err)
		lit := node.(*ast.Literal)
		assert.True(t, decimal.RequireFromString("0.1").Equal(lit.Value.(decimal.Decimal)))
	})

	t.Run("positions are recorded", func(t *testing.T) {
		node, err := Parse("a + b")
		require.NoError(t, err)
		bin := node.(*ast.BinaryOp)
		assert.Equal(t, 2, bin.Pos())
		assert.Equal(t, 4, bin.Right.Pos())
	})
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		pos      int
		expected string
	}{
		{name: "empty", src: "", pos: 0, expected: "expression"},
		{name: "trailing tokens", src: "1 2", pos: 2, expected: "end of input"},
		{name: "unclosed paren", src: "(1+2", pos: 4, expected: "')'"},
		{name: "unmatched close", src: "1+2)", pos: 3, expected: "end of input"},
		{name: "unclosed bracket", src: "a[1", pos: 3, expected: "']'"},
		{name: "missing else", src: "a ? 1", pos: 5, expected: "':'"},
		{name: "dangling operator", src: "1 +", pos: 3, expected: "expression"},
		{name: "dot without name", src: "a.1", pos: 2, expected: "member name"},
		{name: "dict without colon", src: "{1 2}", pos: 3, expected: "':'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			var synErr *lerrors.SyntaxError
			require.True(t, errors.As(err, &synErr), "got %T: %v", err, err)
			assert.Equal(t, tt.pos, synErr.Pos)
			assert.Equal(t, tt.expected, synErr.Expected)
		})
	}
}

func TestParse_LexErrorsPassThrough(t *testing.T) {
	_, err := Parse(`"abc`)
	var lexErr *lerrors.LexError
	require.True(t, errors.As(err, &lexErr))
	assert.True(t, lerrors.IsCompileError(err))
}

func TestParse_Deterministic(t *testing.T) {
	src := "pi>one && 0<one ? (1+8)/3+1*two : 0"
	a, err := Parse(src)
	require.NoError(t, err)
	b, err := Parse(src)
	require.NoError(t, err)
	assert.True(t, ast.Equal(a, b))
	assert.NotSame(t, a, b)
}
