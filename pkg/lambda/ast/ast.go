// Package ast defines the syntax tree produced by the parser.
//
// Nodes are immutable once built and are shared read-only between
// concurrent evaluations through the expression cache.
package ast

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the byte offset of the node in the source.
	Pos() int
	String() string
	node()
}

// Op is a unary or binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAndAlso // && and
	OpOrElse  // || or
	OpAnd     // &
	OpOr      // |
	OpNeg
	OpNot
)

var opText = [...]string{
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpGt:      ">",
	OpLe:      "<=",
	OpGe:      ">=",
	OpAndAlso: "&&",
	OpOrElse:  "||",
	OpAnd:     "&",
	OpOr:      "|",
	OpNeg:     "-",
	OpNot:     "!",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opText) {
		return opText[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Literal is a constant: decimal.Decimal, string or bool.
type Literal struct {
	At    int
	Value any
}

// Variable is a context lookup.
type Variable struct {
	At   int
	Name string
}

// MemberAccess reads a property or field.
type MemberAccess struct {
	At     int
	Target Node
	Name   string
}

// MethodCall invokes a named method on Target.
type MethodCall struct {
	At     int
	Target Node
	Name   string
	Args   []Node
}

// Call invokes a function value, as in f(1, 2).
type Call struct {
	At   int
	Func Node
	Args []Node
}

// Indexer applies target[args...].
type Indexer struct {
	At     int
	Target Node
	Args   []Node
}

// UnaryOp applies - or ! to Operand.
type UnaryOp struct {
	At      int
	Op      Op
	Operand Node
}

// BinaryOp applies a binary operator.
type BinaryOp struct {
	At    int
	Op    Op
	Left  Node
	Right Node
}

// Ternary is cond ? then : else.
type Ternary struct {
	At   int
	Cond Node
	Then Node
	Else Node
}

// ListLiteral is [a, b, ...].
type ListLiteral struct {
	At    int
	Items []Node
}

// DictLiteral is {k: v, ...}. Keys and Values have equal length.
type DictLiteral struct {
	At     int
	Keys   []Node
	Values []Node
}

func (n *Literal) Pos() int      { return n.At }
func (n *Variable) Pos() int     { return n.At }
func (n *MemberAccess) Pos() int { return n.At }
func (n *MethodCall) Pos() int   { return n.At }
func (n *Call) Pos() int         { return n.At }
func (n *Indexer) Pos() int      { return n.At }
func (n *UnaryOp) Pos() int      { return n.At }
func (n *BinaryOp) Pos() int     { return n.At }
func (n *Ternary) Pos() int      { return n.At }
func (n *ListLiteral) Pos() int  { return n.At }
func (n *DictLiteral) Pos() int  { return n.At }

func (*Literal) node()      {}
func (*Variable) node()     {}
func (*MemberAccess) node() {}
func (*MethodCall) node()   {}
func (*Call) node()         {}
func (*Indexer) node()      {}
func (*UnaryOp) node()      {}
func (*BinaryOp) node()     {}
func (*Ternary) node()      {}
func (*ListLiteral) node()  {}
func (*DictLiteral) node()  {}

func (n *Literal) String() string {
	switch v := n.Value.(type) {
	case string:
		return `"` + v + `"`
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (n *Variable) String() string { return n.Name }

func (n *MemberAccess) String() string {
	return n.Target.String() + "." + n.Name
}

func (n *MethodCall) String() string {
	return n.Target.String() + "." + n.Name + "(" + join(n.Args) + ")"
}

func (n *Call) String() string {
	return n.Func.String() + "(" + join(n.Args) + ")"
}

func (n *Indexer) String() string {
	return n.Target.String() + "[" + join(n.Args) + "]"
}

func (n *UnaryOp) String() string {
	return "(" + n.Op.String() + n.Operand.String() + ")"
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (n *Ternary) String() string {
	return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String() + ")"
}

func (n *ListLiteral) String() string {
	return "[" + join(n.Items) + "]"
}

func (n *DictLiteral) String() string {
	parts := make([]string, len(n.Keys))
	for i := range n.Keys {
		parts[i] = n.Keys[i].String() + ": " + n.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
