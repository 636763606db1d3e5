package value

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/lambda/pkg/lambda/convert"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

// Comparer is implemented by host objects with their own ordering.
type Comparer interface {
	CompareTo(other any) (int, error)
}

// Coercer performs operations on Values, delegating kind bridging to a
// conversion service.
type Coercer struct {
	conv convert.Service
}

// NewCoercer creates a Coercer. A nil service selects convert.Default.
func NewCoercer(conv convert.Service) Coercer {
	if conv == nil {
		conv = convert.Default
	}
	return Coercer{conv: conv}
}

// Converter returns the conversion service in use.
func (c Coercer) Converter() convert.Service {
	return c.conv
}

func (c Coercer) decimal(v Value) (decimal.Decimal, error) {
	if v.kind == Number {
		return v.v.(decimal.Decimal), nil
	}
	d, err := c.conv.ChangeType(v.v, convert.DecimalType)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.(decimal.Decimal), nil
}

func (c Coercer) decimals(a, b Value) (decimal.Decimal, decimal.Decimal, error) {
	x, err := c.decimal(a)
	if err != nil {
		return x, x, err
	}
	y, err := c.decimal(b)
	return x, y, err
}

// Stringify converts v to a string through the conversion service.
func (c Coercer) Stringify(v Value) (string, error) {
	if v.kind == String {
		return v.v.(string), nil
	}
	s, err := c.conv.ChangeType(v.v, convert.StringType)
	if err != nil {
		return "", err
	}
	return s.(string), nil
}

// Add concatenates when either operand is a string, otherwise adds the
// decimal forms.
func (c Coercer) Add(a, b Value) (Value, error) {
	if a.kind == String || b.kind == String {
		x, err := c.Stringify(a)
		if err != nil {
			return NullValue, err
		}
		y, err := c.Stringify(b)
		if err != nil {
			return NullValue, err
		}
		return StringOf(x + y), nil
	}
	x, y, err := c.decimals(a, b)
	if err != nil {
		return NullValue, err
	}
	return NumberOf(x.Add(y)), nil
}

// Sub subtracts.
func (c Coercer) Sub(a, b Value) (Value, error) {
	x, y, err := c.decimals(a, b)
	if err != nil {
		return NullValue, err
	}
	return NumberOf(x.Sub(y)), nil
}

// Mul multiplies.
func (c Coercer) Mul(a, b Value) (Value, error) {
	x, y, err := c.decimals(a, b)
	if err != nil {
		return NullValue, err
	}
	return NumberOf(x.Mul(y)), nil
}

// Div divides. Non-terminating quotients are rounded to
// decimal.DivisionPrecision places.
func (c Coercer) Div(a, b Value) (Value, error) {
	x, y, err := c.decimals(a, b)
	if err != nil {
		return NullValue, err
	}
	if y.IsZero() {
		return NullValue, &lerrors.ArithmeticError{Op: "/", Err: lerrors.ErrDivideByZero}
	}
	return NumberOf(x.Div(y)), nil
}

// Mod returns the remainder, with the sign of the dividend.
func (c Coercer) Mod(a, b Value) (Value, error) {
	x, y, err := c.decimals(a, b)
	if err != nil {
		return NullValue, err
	}
	if y.IsZero() {
		return NullValue, &lerrors.ArithmeticError{Op: "%", Err: lerrors.ErrDivideByZero}
	}
	return NumberOf(x.Mod(y)), nil
}

// Neg negates the decimal form.
func (c Coercer) Neg(a Value) (Value, error) {
	x, err := c.decimal(a)
	if err != nil {
		return NullValue, err
	}
	return NumberOf(x.Neg()), nil
}

// IsTrue applies truthiness: null is false, booleans are themselves and
// everything else goes through the conversion service.
func (c Coercer) IsTrue(v Value) (bool, error) {
	switch v.kind {
	case Null:
		return false, nil
	case Bool:
		return v.v.(bool), nil
	}
	b, err := c.conv.ChangeType(v.v, convert.BoolType)
	if err != nil {
		return false, err
	}
	return b.(bool), nil
}

// Equal reports whether Compare(a, b) == 0.
func (c Coercer) Equal(a, b Value) (bool, error) {
	r, err := c.Compare(a, b)
	return r == 0, err
}

// Compare orders a and b:
//   - null equals null and sorts below everything else
//   - two lists compare element-wise, then by length
//   - when one payload type is assignable to the other, the native ordering
//     of that type is used
//   - otherwise b is converted to a's type, or failing that a to b's type
//
// Values with no common ordering fail with *errors.IncomparableTypesError.
func (c Coercer) Compare(a, b Value) (int, error) {
	switch {
	case a.IsNull() && b.IsNull():
		return 0, nil
	case a.IsNull():
		return -1, nil
	case b.IsNull():
		return 1, nil
	}

	if a.kind == List && b.kind == List {
		return c.compareLists(a, b)
	}

	ta, tb := reflect.TypeOf(a.v), reflect.TypeOf(b.v)
	if tb.AssignableTo(ta) {
		if r, ok, err := native(a.v, b.v); ok || err != nil {
			return r, err
		}
	}
	if ta.AssignableTo(tb) {
		if r, ok, err := native(b.v, a.v); ok || err != nil {
			return -r, err
		}
	}

	if conv, ok := c.conv.FindConverter(tb, ta); ok {
		if bc, err := conv(b.v, ta); err == nil {
			if r, ok, err := native(a.v, bc); ok || err != nil {
				return r, err
			}
		}
	}
	if conv, ok := c.conv.FindConverter(ta, tb); ok {
		if ac, err := conv(a.v, tb); err == nil {
			if r, ok, err := native(b.v, ac); ok || err != nil {
				return -r, err
			}
		}
	}

	return 0, &lerrors.IncomparableTypesError{Left: a.TypeName(), Right: b.TypeName()}
}

func (c Coercer) compareLists(a, b Value) (int, error) {
	xs, _ := a.Items()
	ys, _ := b.Items()
	for i := 0; i < len(xs) && i < len(ys); i++ {
		r, err := c.Compare(Of(xs[i]), Of(ys[i]))
		if err != nil || r != 0 {
			return r, err
		}
	}
	switch {
	case len(xs) < len(ys):
		return -1, nil
	case len(xs) > len(ys):
		return 1, nil
	}
	return 0, nil
}

// native compares x with y using x's own ordering. ok is false when x's
// type has no ordering usable with y.
func native(x, y any) (int, bool, error) {
	if cmp, isCmp := x.(Comparer); isCmp {
		r, err := cmp.CompareTo(y)
		return r, true, err
	}

	switch xv := x.(type) {
	case decimal.Decimal:
		if yv, ok := y.(decimal.Decimal); ok {
			return xv.Cmp(yv), true, nil
		}
	case string:
		if yv, ok := y.(string); ok {
			return strings.Compare(xv, yv), true, nil
		}
	case bool:
		if yv, ok := y.(bool); ok {
			return boolCmp(xv, yv), true, nil
		}
	case time.Time:
		if yv, ok := y.(time.Time); ok {
			return xv.Compare(yv), true, nil
		}
	}

	if d, ok := convert.ToDecimal(x); ok {
		if e, ok := convert.ToDecimal(y); ok {
			return d.Cmp(e), true, nil
		}
	}

	// Unordered types are only comparable for identity. Struct and interface
	// payloads may still hold slices or maps.
	rx, ry := reflect.ValueOf(x), reflect.ValueOf(y)
	if rx.IsValid() && ry.IsValid() && rx.Type() == ry.Type() &&
		rx.Comparable() && ry.Comparable() && rx.Equal(ry) {
		return 0, true, nil
	}
	return 0, false, nil
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

var std = NewCoercer(nil)

// Compare orders a and b using convert.Default.
func Compare(a, b Value) (int, error) { return std.Compare(a, b) }

// IsTrue applies truthiness using convert.Default.
func IsTrue(v Value) (bool, error) { return std.IsTrue(v) }

// Add adds or concatenates using convert.Default.
func Add(a, b Value) (Value, error) { return std.Add(a, b) }
