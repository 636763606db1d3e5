package ast

import (
	"github.com/shopspring/decimal"
)

// Walk visits node and its descendants in pre-order. Children of a node are
// skipped when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Children returns the direct children of node in evaluation order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *MemberAccess:
		return []Node{n.Target}
	case *MethodCall:
		return append([]Node{n.Target}, n.Args...)
	case *Call:
		return append([]Node{n.Func}, n.Args...)
	case *Indexer:
		return append([]Node{n.Target}, n.Args...)
	case *UnaryOp:
		return []Node{n.Operand}
	case *BinaryOp:
		return []Node{n.Left, n.Right}
	case *Ternary:
		return []Node{n.Cond, n.Then, n.Else}
	case *ListLiteral:
		return n.Items
	case *DictLiteral:
		out := make([]Node, 0, 2*len(n.Keys))
		for i := range n.Keys {
			out = append(out, n.Keys[i], n.Values[i])
		}
		return out
	}
	return nil
}

// Equal reports whether a and b are structurally equal. Positions are
// ignored.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && literalEqual(x.Value, y.Value)
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *MemberAccess:
		y, ok := b.(*MemberAccess)
		return ok && x.Name == y.Name && Equal(x.Target, y.Target)
	case *MethodCall:
		y, ok := b.(*MethodCall)
		return ok && x.Name == y.Name && Equal(x.Target, y.Target) && equalAll(x.Args, y.Args)
	case *Call:
		y, ok := b.(*Call)
		return ok && Equal(x.Func, y.Func) && equalAll(x.Args, y.Args)
	case *Indexer:
		y, ok := b.(*Indexer)
		return ok && Equal(x.Target, y.Target) && equalAll(x.Args, y.Args)
	case *UnaryOp:
		y, ok := b.(*UnaryOp)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Ternary:
		y, ok := b.(*Ternary)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *ListLiteral:
		y, ok := b.(*ListLiteral)
		return ok && equalAll(x.Items, y.Items)
	case *DictLiteral:
		y, ok := b.(*DictLiteral)
		return ok && equalAll(x.Keys, y.Keys) && equalAll(x.Values, y.Values)
	}
	return false
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func literalEqual(a, b any) bool {
	da, okA := a.(decimal.Decimal)
	db, okB := b.(decimal.Decimal)
	if okA || okB {
		return okA && okB && da.Equal(db)
	}
	return a == b
}
