// Package value implements the dynamically typed values that flow through
// evaluation, with explicit arithmetic, comparison and truthiness.
package value

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/lambda/pkg/lambda/convert"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

// Kind is the dynamic type of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Time
	Object
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Time:
		return "time"
	case Object:
		return "object"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value holds exactly one dynamically typed payload. The zero Value is null.
//
// Numbers are always decimal.Decimal; host integers and floats are
// normalised on wrapping. A Value never holds another Value.
type Value struct {
	kind Kind
	v    any
}

// NullValue is the null Value.
var NullValue = Value{}

// Of wraps a host value. Wrapping a Value returns it unchanged, and the
// elements of an []any are unwrapped into a fresh slice.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return NullValue
	case Value:
		return t
	case *Value:
		if t == nil {
			return NullValue
		}
		return *t
	case bool:
		return Value{kind: Bool, v: t}
	case string:
		return Value{kind: String, v: t}
	case decimal.Decimal:
		return Value{kind: Number, v: t}
	case time.Time:
		return Value{kind: Time, v: t}
	case []any:
		return NewList(t)
	}

	if d, ok := convert.ToDecimal(x); ok {
		return Value{kind: Number, v: d}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return NullValue
		}
	case reflect.Slice:
		if rv.IsNil() {
			return NullValue
		}
		return Value{kind: List, v: x}
	case reflect.Array:
		return Value{kind: List, v: x}
	case reflect.Map:
		if rv.IsNil() {
			return NullValue
		}
		return Value{kind: Map, v: x}
	}
	return Value{kind: Object, v: x}
}

// Bool returns a boolean Value.
func BoolOf(b bool) Value { return Value{kind: Bool, v: b} }

// NumberOf returns a numeric Value.
func NumberOf(d decimal.Decimal) Value { return Value{kind: Number, v: d} }

// StringOf returns a string Value.
func StringOf(s string) Value { return Value{kind: String, v: s} }

// NewList builds a list, unwrapping any Value elements.
func NewList(items []any) Value {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Of(item).Unwrap()
	}
	return Value{kind: List, v: out}
}

// NewDict builds a map from parallel key and value slices, unwrapping both.
// Keys are canonicalised with DictKey, so numerically equal keys collapse
// into one entry and the last value wins.
func NewDict(keys, values []any) (Value, error) {
	if len(keys) != len(values) {
		return NullValue, fmt.Errorf("dictionary has %d keys and %d values", len(keys), len(values))
	}
	d := make(map[any]any, len(keys))
	fractions := make(map[string]any)
	for i := range keys {
		k := DictKey(keys[i])
		if dk, ok := k.(decimal.Decimal); ok {
			if prev, seen := fractions[dk.String()]; seen {
				k = prev
			} else {
				fractions[dk.String()] = k
			}
		}
		if k != nil && !reflect.ValueOf(k).Comparable() {
			return NullValue, &lerrors.ConversionError{
				From: reflect.TypeOf(k).String(),
				To:   "dictionary key",
			}
		}
		d[k] = Of(values[i]).Unwrap()
	}
	return Value{kind: Map, v: d}, nil
}

var (
	minKey = decimal.NewFromInt(math.MinInt64)
	maxKey = decimal.NewFromInt(math.MaxInt64)
)

// DictKey returns the canonical map key for x. Integral numbers in the
// int64 range become int64, since decimal.Decimal values holding the same
// number are distinct map keys. Anything else is returned unwrapped.
func DictKey(x any) any {
	k := Of(x).Unwrap()
	if d, ok := k.(decimal.Decimal); ok && d.IsInteger() &&
		d.GreaterThanOrEqual(minKey) && d.LessThanOrEqual(maxKey) {
		return d.IntPart()
	}
	return k
}

// Kind returns the dynamic kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Unwrap returns the plain payload: nil, bool, decimal.Decimal, string,
// time.Time, or the host object, slice or map.
func (v Value) Unwrap() any { return v.v }

// TypeName names the payload type for error messages.
func (v Value) TypeName() string {
	if v.v == nil {
		return "null"
	}
	return reflect.TypeOf(v.v).String()
}

// String renders the payload as string concatenation would.
func (v Value) String() string {
	return convert.Stringify(v.v)
}

// Items returns the elements of a list value.
func (v Value) Items() ([]any, bool) {
	if v.kind != List {
		return nil, false
	}
	if items, ok := v.v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v.v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
