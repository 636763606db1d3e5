package invoke

import (
	"fmt"
	"reflect"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

const indexerName = "indexer"

// Index applies an indexer. Lists, arrays and strings take a single
// integer; maps take a single key and yield nil when it is absent. Other
// targets are indexed through their Item method.
func (r *Resolver) Index(target any, args []any) (any, error) {
	if isNull(target) {
		return nil, &lerrors.NullTargetError{Name: indexerName}
	}

	rv := reflect.ValueOf(target)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() != reflect.Struct {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		if len(args) != 1 {
			return nil, &lerrors.RankMismatchError{Rank: 1, Indices: len(args)}
		}
		runes := []rune(rv.String())
		i, err := r.position(args[0], len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil

	case reflect.Slice, reflect.Array:
		if len(args) != 1 {
			return nil, &lerrors.RankMismatchError{Rank: 1, Indices: len(args)}
		}
		i, err := r.position(args[0], rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil

	case reflect.Map:
		if len(args) != 1 {
			return nil, &lerrors.RankMismatchError{Rank: 1, Indices: len(args)}
		}
		v, _ := r.lookupKey(rv, args[0])
		return v, nil
	}

	return r.Method(target, ItemMethod, args)
}

func (r *Resolver) position(arg any, n int) (int, error) {
	if arg == nil {
		return 0, &lerrors.ArgumentConversionError{Index: 0, From: "null", To: "int"}
	}
	v, err := r.conv.ChangeType(arg, intType)
	if err != nil {
		return 0, &lerrors.ArgumentConversionError{
			Index: 0,
			From:  reflect.TypeOf(arg).String(),
			To:    "int",
			Err:   err,
		}
	}
	i := v.(int)
	if i < 0 || i >= n {
		return 0, &lerrors.InvocationError{
			Member: indexerName,
			Err:    fmt.Errorf("%w: %d (length %d)", lerrors.ErrIndexOutOfRange, i, n),
		}
	}
	return i, nil
}

// lookupKey finds key in m, first by converting it to the key type (or
// its canonical dictionary form for interface keys) and then by scanning
// for a key that compares equal.
func (r *Resolver) lookupKey(m reflect.Value, key any) (any, bool) {
	kt := m.Type().Key()
	var k reflect.Value
	switch {
	case key == nil:
		if nilable(kt) {
			k = reflect.Zero(kt)
		}
	case kt.Kind() == reflect.Interface && assignable(value.DictKey(key), kt):
		k = reflect.ValueOf(value.DictKey(key))
	case reflect.TypeOf(key).AssignableTo(kt):
		k = reflect.ValueOf(key)
	default:
		if conv, err := r.conv.ChangeType(key, kt); err == nil && conv != nil {
			k = reflect.ValueOf(conv)
		}
	}
	if k.IsValid() && k.Comparable() {
		if v := m.MapIndex(k); v.IsValid() {
			return v.Interface(), true
		}
	}

	want := value.Of(key)
	iter := m.MapRange()
	for iter.Next() {
		if eq, err := r.coercer.Equal(value.Of(iter.Key().Interface()), want); err == nil && eq {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}

func assignable(v any, t reflect.Type) bool {
	return v != nil && reflect.TypeOf(v).AssignableTo(t)
}
