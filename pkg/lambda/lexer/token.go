package lexer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Number
	String
	Ident
	Keyword
	Operator
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Number:
		return "number"
	case String:
		return "string"
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Punct:
		return "punctuation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical unit.
//
// Text holds the literal payload: digits for numbers, the unquoted content
// for strings, and the canonical spelling for operators. The keyword forms
// "and" and "or" are reported as the operators "&&" and "||".
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// Is reports whether the token is the given operator, punctuation or keyword.
func (t Token) Is(text string) bool {
	switch t.Kind {
	case Operator, Punct, Keyword:
		return t.Text == text
	}
	return false
}

// String renders the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case String:
		return fmt.Sprintf("%q", t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}
