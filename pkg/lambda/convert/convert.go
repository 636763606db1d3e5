// Package convert is the conversion service used by the engine to bridge
// value kinds: argument coercion for host calls, truthiness, cross-kind
// comparison and string concatenation.
//
// The default Manager handles:
//   - identity and assignable types
//   - anything to string
//   - numbers (Go numeric kinds and decimal.Decimal) between each other
//   - numbers to bool (zero is false, nonzero is true)
//   - strings to numbers, bool and time.Time
//   - slices element-wise to slice types
//   - nil to the zero value of any type
//
// Bool to number is deliberately not provided, so comparing a number with
// a boolean converts the number to bool rather than the other way round.
package convert

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/registry"
)

// Converter converts v to type to.
type Converter func(v any, to reflect.Type) (any, error)

// Service converts values between types.
type Service interface {
	// ChangeType converts v to type to, or fails with *errors.ConversionError.
	ChangeType(v any, to reflect.Type) (any, error)

	// CanChangeType reports whether values of type from convert to type to.
	CanChangeType(from, to reflect.Type) bool

	// FindConverter returns the converter bridging from to to.
	FindConverter(from, to reflect.Type) (Converter, bool)
}

// Well-known types.
var (
	DecimalType = reflect.TypeOf(decimal.Decimal{})
	StringType  = reflect.TypeOf("")
	BoolType    = reflect.TypeOf(false)
	TimeType    = reflect.TypeOf(time.Time{})
	AnyType     = reflect.TypeOf((*any)(nil)).Elem()
)

// TimeLayouts are tried in order when parsing strings into time.Time.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

type pair struct {
	from, to reflect.Type
}

// Manager is the default Service. The zero value is not usable; call New.
type Manager struct {
	custom *registry.Registry[pair, Converter]
}

var _ Service = (*Manager)(nil)

// New creates a Manager with the default rules.
func New() *Manager {
	return &Manager{custom: registry.New[pair, Converter]()}
}

// Default is the process-wide Manager.
var Default = New()

// Register adds a converter for an exact type pair. Registered converters
// take precedence over the default rules.
func (m *Manager) Register(from, to reflect.Type, fn Converter) {
	m.custom.Register(pair{from, to}, fn)
}

// ChangeType implements Service.
func (m *Manager) ChangeType(v any, to reflect.Type) (any, error) {
	if v == nil {
		return reflect.Zero(to).Interface(), nil
	}
	from := reflect.TypeOf(v)
	conv, ok := m.FindConverter(from, to)
	if !ok {
		return nil, &lerrors.ConversionError{From: TypeName(from), To: TypeName(to)}
	}
	out, err := conv(v, to)
	if err != nil {
		return nil, &lerrors.ConversionError{From: TypeName(from), To: TypeName(to), Err: err}
	}
	return out, nil
}

// CanChangeType implements Service.
func (m *Manager) CanChangeType(from, to reflect.Type) bool {
	_, ok := m.FindConverter(from, to)
	return ok
}

// FindConverter implements Service.
func (m *Manager) FindConverter(from, to reflect.Type) (Converter, bool) {
	if from == nil || to == nil {
		return nil, false
	}
	if fn, ok := m.custom.Get(pair{from, to}); ok {
		return fn, true
	}
	if from.AssignableTo(to) {
		return identity, true
	}

	switch {
	case to == StringType:
		return toString, true
	case to == BoolType:
		if IsNumber(from) || from.Kind() == reflect.String {
			return toBool, true
		}
	case to == DecimalType:
		if IsNumber(from) || from.Kind() == reflect.String {
			return toDecimal, true
		}
	case to == TimeType:
		if from.Kind() == reflect.String {
			return toTime, true
		}
	case isNativeNumber(to.Kind()):
		if IsNumber(from) || from.Kind() == reflect.String {
			return toNative, true
		}
	case to.Kind() == reflect.Slice:
		if from.Kind() == reflect.Slice || from.Kind() == reflect.Array {
			return m.toSlice, true
		}
	}

	// Named types sharing a kind, e.g. type Celsius float64.
	if from.Kind() == to.Kind() && from.ConvertibleTo(to) && from.Kind() != reflect.Struct {
		return reflectConvert, true
	}
	return nil, false
}

// IsNumber reports whether t is a Go numeric kind or decimal.Decimal.
func IsNumber(t reflect.Type) bool {
	return t == DecimalType || isNativeNumber(t.Kind())
}

func isNativeNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// TypeName renders a type for error messages; nil is "null".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "null"
	}
	return t.String()
}

// ToDecimal converts any Go number or decimal to decimal.Decimal.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		if rv.Kind() == reflect.Float32 {
			return decimal.NewFromFloat32(float32(f)), true
		}
		return decimal.NewFromFloat(f), true
	}
	return decimal.Decimal{}, false
}

// Stringify renders v the way string concatenation does.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case decimal.Decimal:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

func identity(v any, _ reflect.Type) (any, error) {
	return v, nil
}

func reflectConvert(v any, to reflect.Type) (any, error) {
	return reflect.ValueOf(v).Convert(to).Interface(), nil
}

func toString(v any, to reflect.Type) (any, error) {
	return reflect.ValueOf(Stringify(v)).Convert(to).Interface(), nil
}

func toBool(v any, _ reflect.Type) (any, error) {
	if d, ok := ToDecimal(v); ok {
		return !d.IsZero(), nil
	}
	s := strings.TrimSpace(reflect.ValueOf(v).String())
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseDecimal(v any) (decimal.Decimal, error) {
	if d, ok := ToDecimal(v); ok {
		return d, nil
	}
	return decimal.NewFromString(strings.TrimSpace(reflect.ValueOf(v).String()))
}

func toDecimal(v any, _ reflect.Type) (any, error) {
	return parseDecimal(v)
}

func toNative(v any, to reflect.Type) (any, error) {
	d, err := parseDecimal(v)
	if err != nil {
		return nil, err
	}

	out := reflect.New(to).Elem()
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		f := d.InexactFloat64()
		if out.OverflowFloat(f) {
			return nil, fmt.Errorf("%s overflows %s", d, to)
		}
		out.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		r := d.RoundBank(0)
		if !r.IsInteger() || r.BigInt().BitLen() > 63 || out.OverflowInt(r.IntPart()) {
			return nil, fmt.Errorf("%s overflows %s", d, to)
		}
		out.SetInt(r.IntPart())
	default:
		r := d.RoundBank(0)
		if r.IsNegative() || r.BigInt().BitLen() > 64 || out.OverflowUint(r.BigInt().Uint64()) {
			return nil, fmt.Errorf("%s overflows %s", d, to)
		}
		out.SetUint(r.BigInt().Uint64())
	}
	return out.Interface(), nil
}

func toTime(v any, _ reflect.Type) (any, error) {
	s := strings.TrimSpace(reflect.ValueOf(v).String())
	var firstErr error
	for _, layout := range TimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func (m *Manager) toSlice(v any, to reflect.Type) (any, error) {
	src := reflect.ValueOf(v)
	out := reflect.MakeSlice(to, src.Len(), src.Len())
	elem := to.Elem()
	for i := 0; i < src.Len(); i++ {
		item := src.Index(i).Interface()
		conv, err := m.ChangeType(item, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if conv == nil {
			continue
		}
		out.Index(i).Set(reflect.ValueOf(conv))
	}
	return out.Interface(), nil
}
