package invoke

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/lambda/pkg/lambda/convert"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// AllKinds registers a builtin for every non-null kind.
const AllKinds value.Kind = -1

var (
	intType   = reflect.TypeOf(0)
	anySlice  = reflect.TypeOf([]any(nil))
	oneString = []reflect.Type{convert.StringType}
)

// Builtin is a member available on every value of a kind. Target is the
// unwrapped payload.
type Builtin struct {
	Params   []reflect.Type
	Variadic bool
	Func     func(target any, args []any) (any, error)
}

type builtinKey struct {
	kind value.Kind
	name string
}

func (b Builtin) bind(name string, target any) Method {
	return Method{
		Name:     name,
		Params:   b.Params,
		Variadic: b.Variadic,
		Func: func(args []any) (any, error) {
			return b.Func(target, args)
		},
	}
}

// RegisterBuiltin adds an overload of name to values of kind. Overloads
// are tried in registration order.
func (r *Resolver) RegisterBuiltin(kind value.Kind, name string, b Builtin) {
	r.builtins.Update(builtinKey{kind, name}, func(cur []Builtin) []Builtin {
		return append(cur, b)
	})
}

func (r *Resolver) builtinsFor(kind value.Kind, name string) []Builtin {
	own, _ := r.builtins.Get(builtinKey{kind, name})
	all, _ := r.builtins.Get(builtinKey{AllKinds, name})
	if len(all) == 0 {
		return own
	}
	return append(append([]Builtin(nil), own...), all...)
}

func (r *Resolver) builtinNames(kind value.Kind) []string {
	var names []string
	for _, k := range r.builtins.Keys() {
		if k.kind == kind || k.kind == AllKinds {
			names = append(names, k.name)
		}
	}
	return names
}

func (r *Resolver) registerDefaults() {
	r.RegisterBuiltin(AllKinds, "ToString", Builtin{
		Func: func(target any, _ []any) (any, error) {
			return r.conv.ChangeType(target, convert.StringType)
		},
	})

	r.registerStringBuiltins()
	r.registerTimeBuiltins()
	r.registerCollectionBuiltins()
}

func stringFn(fn func(s string) any) Builtin {
	return Builtin{Func: func(target any, _ []any) (any, error) {
		return fn(target.(string)), nil
	}}
}

func stringPredicate(fn func(s, arg string) bool) Builtin {
	return Builtin{Params: oneString, Func: func(target any, args []any) (any, error) {
		return fn(target.(string), args[0].(string)), nil
	}}
}

func (r *Resolver) registerStringBuiltins() {
	r.RegisterBuiltin(value.String, "Length", stringFn(func(s string) any {
		return utf8.RuneCountInString(s)
	}))
	r.RegisterBuiltin(value.String, "ToUpper", stringFn(func(s string) any { return strings.ToUpper(s) }))
	r.RegisterBuiltin(value.String, "ToLower", stringFn(func(s string) any { return strings.ToLower(s) }))
	r.RegisterBuiltin(value.String, "Trim", stringFn(func(s string) any { return strings.TrimSpace(s) }))
	r.RegisterBuiltin(value.String, "Contains", stringPredicate(strings.Contains))
	r.RegisterBuiltin(value.String, "StartsWith", stringPredicate(strings.HasPrefix))
	r.RegisterBuiltin(value.String, "EndsWith", stringPredicate(strings.HasSuffix))

	r.RegisterBuiltin(value.String, "IndexOf", Builtin{
		Params: oneString,
		Func: func(target any, args []any) (any, error) {
			s := target.(string)
			i := strings.Index(s, args[0].(string))
			if i < 0 {
				return -1, nil
			}
			return utf8.RuneCountInString(s[:i]), nil
		},
	})

	r.RegisterBuiltin(value.String, "Substring", Builtin{
		Params: []reflect.Type{intType},
		Func: func(target any, args []any) (any, error) {
			runes := []rune(target.(string))
			return substring(runes, args[0].(int), len(runes)-args[0].(int))
		},
	})
	r.RegisterBuiltin(value.String, "Substring", Builtin{
		Params: []reflect.Type{intType, intType},
		Func: func(target any, args []any) (any, error) {
			return substring([]rune(target.(string)), args[0].(int), args[1].(int))
		},
	})

	r.RegisterBuiltin(value.String, "Replace", Builtin{
		Params: []reflect.Type{convert.StringType, convert.StringType},
		Func: func(target any, args []any) (any, error) {
			return strings.ReplaceAll(target.(string), args[0].(string), args[1].(string)), nil
		},
	})

	r.RegisterBuiltin(value.String, "Split", Builtin{
		Params: oneString,
		Func: func(target any, args []any) (any, error) {
			parts := strings.Split(target.(string), args[0].(string))
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out, nil
		},
	})

	r.RegisterBuiltin(value.String, "Format", Builtin{
		Params:   []reflect.Type{anySlice},
		Variadic: true,
		Func: func(target any, args []any) (any, error) {
			return Format(target.(string), args...)
		},
	})
}

func substring(runes []rune, start, length int) (any, error) {
	if start < 0 || length < 0 || start+length > len(runes) {
		return nil, fmt.Errorf("%w: substring(%d, %d) of length %d",
			lerrors.ErrIndexOutOfRange, start, length, len(runes))
	}
	return string(runes[start : start+length]), nil
}

func timeFn(fn func(t time.Time) any) Builtin {
	return Builtin{Func: func(target any, _ []any) (any, error) {
		return fn(target.(time.Time)), nil
	}}
}

func (r *Resolver) registerTimeBuiltins() {
	r.RegisterBuiltin(value.Time, "Year", timeFn(func(t time.Time) any { return t.Year() }))
	r.RegisterBuiltin(value.Time, "Month", timeFn(func(t time.Time) any { return int(t.Month()) }))
	r.RegisterBuiltin(value.Time, "Day", timeFn(func(t time.Time) any { return t.Day() }))
	r.RegisterBuiltin(value.Time, "Hour", timeFn(func(t time.Time) any { return t.Hour() }))
	r.RegisterBuiltin(value.Time, "Minute", timeFn(func(t time.Time) any { return t.Minute() }))
	r.RegisterBuiltin(value.Time, "Second", timeFn(func(t time.Time) any { return t.Second() }))
	r.RegisterBuiltin(value.Time, "DayOfWeek", timeFn(func(t time.Time) any { return t.Weekday().String() }))

	r.RegisterBuiltin(value.Time, "AddDays", Builtin{
		Params: []reflect.Type{convert.DecimalType},
		Func: func(target any, args []any) (any, error) {
			days := args[0].(decimal.Decimal)
			ns := days.Mul(decimal.NewFromInt(int64(24 * time.Hour))).Round(0)
			return target.(time.Time).Add(time.Duration(ns.IntPart())), nil
		},
	})

	r.RegisterBuiltin(value.Time, "ToString", Builtin{
		Params: oneString,
		Func: func(target any, args []any) (any, error) {
			return target.(time.Time).Format(args[0].(string)), nil
		},
	})
}

func (r *Resolver) registerCollectionBuiltins() {
	r.RegisterBuiltin(value.List, "Count", Builtin{
		Func: func(target any, _ []any) (any, error) {
			return reflect.ValueOf(target).Len(), nil
		},
	})
	r.RegisterBuiltin(value.List, "Contains", Builtin{
		Params: []reflect.Type{convert.AnyType},
		Func: func(target any, args []any) (any, error) {
			items, _ := value.Of(target).Items()
			want := value.Of(args[0])
			for _, item := range items {
				if eq, err := r.coercer.Equal(value.Of(item), want); err == nil && eq {
					return true, nil
				}
			}
			return false, nil
		},
	})

	r.RegisterBuiltin(value.Map, "Count", Builtin{
		Func: func(target any, _ []any) (any, error) {
			return reflect.ValueOf(target).Len(), nil
		},
	})
	r.RegisterBuiltin(value.Map, "ContainsKey", Builtin{
		Params: []reflect.Type{convert.AnyType},
		Func: func(target any, args []any) (any, error) {
			_, ok := r.lookupKey(reflect.ValueOf(target), args[0])
			return ok, nil
		},
	})
}
