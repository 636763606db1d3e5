package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	var toks []Token
	for tok, err := range Tokens(src) {
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	return toks
}

func TestNext_TokenClasses(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "integer",
			src:  "42",
			want: []Token{{Kind: Number, Text: "42", Pos: 0}, {Kind: EOF, Pos: 2}},
		},
		{
			name: "decimal",
			src:  "3.14",
			want: []Token{{Kind: Number, Text: "3.14", Pos: 0}, {Kind: EOF, Pos: 4}},
		},
		{
			name: "string without escapes",
			src:  `"b{0}_\n"`,
			want: []Token{{Kind: String, Text: `b{0}_\n`, Pos: 0}, {Kind: EOF, Pos: 9}},
		},
		{
			name: "identifier and keyword",
			src:  "abc true",
			want: []Token{
				{Kind: Ident, Text: "abc", Pos: 0},
				{Kind: Keyword, Text: "true", Pos: 4},
				{Kind: EOF, Pos: 8},
			},
		},
		{
			name: "unicode identifiers",
			src:  "café + _naïve2",
			want: []Token{
				{Kind: Ident, Text: "café", Pos: 0},
				{Kind: Operator, Text: "+", Pos: 6},
				{Kind: Ident, Text: "_naïve2", Pos: 8},
				{Kind: EOF, Pos: 16},
			},
		},
		{
			name: "and or become operators",
			src:  "a and b or c",
			want: []Token{
				{Kind: Ident, Text: "a", Pos: 0},
				{Kind: Operator, Text: "&&", Pos: 2},
				{Kind: Ident, Text: "b", Pos: 6},
				{Kind: Operator, Text: "||", Pos: 8},
				{Kind: Ident, Text: "c", Pos: 11},
				{Kind: EOF, Pos: 12},
			},
		},
		{
			name: "number followed by member access",
			src:  "1.ToString()",
			want: []Token{
				{Kind: Number, Text: "1", Pos: 0},
				{Kind: Punct, Text: ".", Pos: 1},
				{Kind: Ident, Text: "ToString", Pos: 2},
				{Kind: Punct, Text: "(", Pos: 10},
				{Kind: Punct, Text: ")", Pos: 11},
				{Kind: EOF, Pos: 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, tt.src))
		})
	}
}

func TestNext_Operators(t *testing.T) {
	src := "+ - * / % == != < > <= >= && || & | ! ? : , . ( ) [ ] { }"
	want := []string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "&", "|", "!", "?", ":", ",", ".", "(", ")", "[", "]", "{", "}"}

	toks := collect(t, src)
	require.Len(t, toks, len(want)+1)
	for i, text := range want {
		assert.Equal(t, text, toks[i].Text, "token %d", i)
		assert.True(t, toks[i].Is(text))
	}
	assert.Equal(t, EOF, toks[len(want)].Kind)
}

func TestNext_WhitespaceInsignificant(t *testing.T) {
	a := collect(t, "1+2")
	b := collect(t, " 1 \t+\n 2 ")
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Kind, b[i].Kind)
		assert.Equal(t, a[i].Text, b[i].Text)
	}
}

func TestNext_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  int
	}{
		{name: "unterminated string", src: `1 + "abc`, pos: 4},
		{name: "invalid number", src: "12abc", pos: 0},
		{name: "unknown character", src: "1 # 2", pos: 2},
		{name: "single equals", src: "a = b", pos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			for _, e := range Tokens(tt.src) {
				if e != nil {
					err = e
				}
			}
			require.Error(t, err)
			var lexErr *lerrors.LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.pos, lexErr.Pos)
		})
	}
}

func TestNext_UnexpectedRune(t *testing.T) {
	l := New("1 € 2")
	_, err := l.Next()
	require.NoError(t, err)
	_, err = l.Next()
	var lexErr *lerrors.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 2, lexErr.Pos)
	assert.Contains(t, lexErr.Msg, "'€'")
}

func TestTokens_StopsEarly(t *testing.T) {
	count := 0
	for range Tokens("a b c d") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
