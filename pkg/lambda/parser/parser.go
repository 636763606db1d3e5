// Package parser builds syntax trees from expression source.
//
// Grammar, lowest precedence first:
//
//	Expr           → Or ('?' Expr ':' Expr)?
//	Or             → And (('||' | 'or' | '|') And)*
//	And            → Equality (('&&' | 'and' | '&') Equality)*
//	Equality       → Relational (('==' | '!=') Relational)*
//	Relational     → Additive (('<' | '>' | '<=' | '>=') Additive)*
//	Additive       → Multiplicative (('+' | '-') Multiplicative)*
//	Multiplicative → Unary (('*' | '/' | '%') Unary)*
//	Unary          → ('-' | '!') Unary | Postfix
//	Postfix        → Primary ('.' Ident ('(' Args ')')? | '(' Args ')' | '[' Args ']')*
//	Primary        → Number | String | 'true' | 'false' | Ident
//	               | '(' Expr ')' | '[' Args ']' | '{' (Expr ':' Expr (',' Expr ':' Expr)*)? '}'
package parser

import (
	"github.com/shopspring/decimal"

	"github.com/randalmurphal/lambda/pkg/lambda/ast"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/lexer"
)

// Parser parses a single expression.
type Parser struct {
	lexer *lexer.Lexer
	cur   lexer.Token
}

// New creates a parser for input.
func New(input string) *Parser {
	return &Parser{lexer: lexer.New(input)}
}

// Parse parses src into a syntax tree. The whole input must form exactly
// one expression.
func Parse(src string) (ast.Node, error) {
	return New(src).Parse()
}

// Parse parses the input and returns the root node.
func (p *Parser) Parse() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EOF {
		return nil, p.unexpected("end of input")
	}
	return node, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) unexpected(expected string) error {
	return &lerrors.SyntaxError{
		Pos:      p.cur.Pos,
		Expected: expected,
		Found:    p.cur.String(),
	}
}

// expect consumes the given punctuation or fails.
func (p *Parser) expect(text string) error {
	if !p.cur.Is(text) {
		return p.unexpected("'" + text + "'")
	}
	return p.advance()
}

var (
	orOps         = map[string]ast.Op{"||": ast.OpOrElse, "|": ast.OpOr}
	andOps        = map[string]ast.Op{"&&": ast.OpAndAlso, "&": ast.OpAnd}
	equalityOps   = map[string]ast.Op{"==": ast.OpEq, "!=": ast.OpNe}
	relationalOps = map[string]ast.Op{"<": ast.OpLt, ">": ast.OpGt, "<=": ast.OpLe, ">=": ast.OpGe}
	additiveOps   = map[string]ast.Op{"+": ast.OpAdd, "-": ast.OpSub}
	mulOps        = map[string]ast.Op{"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod}
)

func (p *Parser) parseExpr() (ast.Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.cur.Is("?") {
		return cond, nil
	}

	at := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	// Right-associative: the else branch may itself be a ternary.
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{At: at, Cond: cond, Then: then, Else: els}, nil
}

// tiers lists the left-associative binary levels, lowest precedence first.
var tiers = []map[string]ast.Op{orOps, andOps, equalityOps, relationalOps, additiveOps, mulOps}

func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(tiers) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == lexer.Operator {
		op, ok := tiers[level][p.cur.Text]
		if !ok {
			break
		}
		at := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{At: at, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.cur.Kind == lexer.Operator && (p.cur.Text == "-" || p.cur.Text == "!") {
		op := ast.OpNeg
		if p.cur.Text == "!" {
			op = ast.OpNot
		}
		at := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{At: at, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.cur.Is("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind != lexer.Ident {
				return nil, p.unexpected("member name")
			}
			name, at := p.cur.Text, p.cur.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Is("(") {
				args, err := p.parseArgs("(", ")")
				if err != nil {
					return nil, err
				}
				node = &ast.MethodCall{At: at, Target: node, Name: name, Args: args}
			} else {
				node = &ast.MemberAccess{At: at, Target: node, Name: name}
			}

		case p.cur.Is("("):
			at := p.cur.Pos
			args, err := p.parseArgs("(", ")")
			if err != nil {
				return nil, err
			}
			node = &ast.Call{At: at, Func: node, Args: args}

		case p.cur.Is("["):
			at := p.cur.Pos
			args, err := p.parseArgs("[", "]")
			if err != nil {
				return nil, err
			}
			node = &ast.Indexer{At: at, Target: node, Args: args}

		default:
			return node, nil
		}
	}
}

// parseArgs parses a possibly empty, comma-separated expression list
// between open and end.
func (p *Parser) parseArgs(open, end string) ([]ast.Node, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}

	args := []ast.Node{}
	if p.cur.Is(end) {
		return args, p.advance()
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.cur.Is(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(end); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur

	switch tok.Kind {
	case lexer.Number:
		d, err := decimal.NewFromString(tok.Text)
		if err != nil {
			return nil, &lerrors.LexError{Pos: tok.Pos, Msg: "invalid numeric literal " + tok.Text}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{At: tok.Pos, Value: d}, nil

	case lexer.String:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{At: tok.Pos, Value: tok.Text}, nil

	case lexer.Keyword:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{At: tok.Pos, Value: tok.Text == "true"}, nil

	case lexer.Ident:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Variable{At: tok.Pos, Name: tok.Text}, nil
	}

	switch {
	case tok.Is("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return expr, nil

	case tok.Is("["):
		items, err := p.parseArgs("[", "]")
		if err != nil {
			return nil, err
		}
		return &ast.ListLiteral{At: tok.Pos, Items: items}, nil

	case tok.Is("{"):
		return p.parseDict()
	}

	return nil, p.unexpected("expression")
}

func (p *Parser) parseDict() (ast.Node, error) {
	at := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	dict := &ast.DictLiteral{At: at, Keys: []ast.Node{}, Values: []ast.Node{}}
	if p.cur.Is("}") {
		return dict, p.advance()
	}
	for {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, val)
		if !p.cur.Is(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return dict, nil
}
