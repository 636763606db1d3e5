// Package lexer turns expression source into tokens.
package lexer

import (
	"fmt"
	"iter"
	"unicode"
	"unicode/utf8"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

// Lexer tokenizes an expression string on demand.
type Lexer struct {
	input string
	pos   int
	ch    byte
}

// New creates a lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// Tokens returns the token stream of src as a lazy sequence. The sequence
// stops after the EOF token or the first error.
func Tokens(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := New(src)
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == EOF {
				return
			}
		}
	}
}

func (l *Lexer) advance() {
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

// skip advances n bytes.
func (l *Lexer) skip(n int) {
	for range n {
		l.advance()
	}
}

// current decodes the rune at the read position.
func (l *Lexer) current() (rune, int) {
	if l.atEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) atIdentStart() bool {
	r, _ := l.current()
	return isIdentStart(r)
}

// skipIdent consumes letters, digits and underscores.
func (l *Lexer) skipIdent() {
	for {
		r, w := l.current()
		if !isIdentStart(r) && !isDigit(r) {
			return
		}
		l.skip(w)
	}
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r') {
		l.advance()
	}
}

// two-character operators, keyed by their first byte
var doubles = map[byte][]string{
	'=': {"=="},
	'!': {"!="},
	'<': {"<="},
	'>': {">="},
	'&': {"&&"},
	'|': {"||"},
}

const singles = "+-*/%<>&|!?"

const punct = ":,.()[]{}"

// Next returns the next token from the input.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.atEnd() {
		return Token{Kind: EOF, Pos: l.pos}, nil
	}

	start := l.pos

	switch {
	case isDigit(rune(l.ch)):
		return l.readNumber(start)
	case l.ch == '"':
		return l.readString(start)
	case l.atIdentStart():
		return l.readIdent(start), nil
	}

	for _, op := range doubles[l.ch] {
		if l.peek() == op[1] {
			l.advance()
			l.advance()
			return Token{Kind: Operator, Text: op, Pos: start}, nil
		}
	}

	ch := l.ch
	for i := 0; i < len(singles); i++ {
		if singles[i] == ch {
			l.advance()
			return Token{Kind: Operator, Text: string(ch), Pos: start}, nil
		}
	}
	for i := 0; i < len(punct); i++ {
		if punct[i] == ch {
			l.advance()
			return Token{Kind: Punct, Text: string(ch), Pos: start}, nil
		}
	}

	r, _ := l.current()
	return Token{}, &lerrors.LexError{
		Pos: start,
		Msg: fmt.Sprintf("unexpected character %q", r),
	}
}

func (l *Lexer) readNumber(start int) (Token, error) {
	for isDigit(rune(l.ch)) {
		l.advance()
	}
	// A '.' only belongs to the number when a digit follows; otherwise it
	// starts a member access such as 1.ToString().
	if l.ch == '.' && isDigit(rune(l.peek())) {
		l.advance()
		for isDigit(rune(l.ch)) {
			l.advance()
		}
	}
	if l.atIdentStart() {
		l.skipIdent()
		return Token{}, &lerrors.LexError{
			Pos: start,
			Msg: fmt.Sprintf("invalid numeric literal %q", l.input[start:l.pos]),
		}
	}
	return Token{Kind: Number, Text: l.input[start:l.pos], Pos: start}, nil
}

func (l *Lexer) readString(start int) (Token, error) {
	l.advance()
	begin := l.pos
	for !l.atEnd() && l.ch != '"' {
		l.advance()
	}
	if l.atEnd() {
		return Token{}, &lerrors.LexError{Pos: start, Msg: "unterminated string literal"}
	}
	text := l.input[begin:l.pos]
	l.advance()
	return Token{Kind: String, Text: text, Pos: start}, nil
}

func (l *Lexer) readIdent(start int) Token {
	l.skipIdent()
	word := l.input[start:l.pos]

	switch word {
	case "and":
		return Token{Kind: Operator, Text: "&&", Pos: start}
	case "or":
		return Token{Kind: Operator, Text: "||", Pos: start}
	case "true", "false":
		return Token{Kind: Keyword, Text: word, Pos: start}
	}
	return Token{Kind: Ident, Text: word, Pos: start}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart accepts any Unicode letter.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
