package invoke

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Method is a callable member. Args passed to Func have already been
// converted to Params.
type Method struct {
	Name     string
	Params   []reflect.Type
	Variadic bool
	Func     func(args []any) (any, error)
}

// Reflectable is implemented by hosts that expose members explicitly
// instead of through reflection.
type Reflectable interface {
	// Member returns a property or field value. ok is false if there is no
	// member with that name.
	Member(name string) (v any, ok bool, err error)

	// Methods returns every overload named name.
	Methods(name string) []Method
}

// MemberNamer is optionally implemented by a Reflectable to improve
// suggestions in missing member errors.
type MemberNamer interface {
	MemberNames() []string
}

// Func builds a Method from a Go function value.
func Func(name string, fn any) (Method, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return Method{}, fmt.Errorf("%s: %T is not a function", name, fn)
	}
	return bindFunc(name, rv), nil
}

// MustFunc is like Func but panics on error.
func MustFunc(name string, fn any) Method {
	m, err := Func(name, fn)
	if err != nil {
		panic(err)
	}
	return m
}

func bindFunc(name string, fn reflect.Value) Method {
	ft := fn.Type()
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	m := Method{Name: name, Params: params, Variadic: ft.IsVariadic()}
	m.Func = func(args []any) (any, error) {
		expanded, _ := m.paramsFor(len(args))
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			if a == nil {
				in[i] = reflect.Zero(expanded[i])
			} else {
				in[i] = reflect.ValueOf(a)
			}
		}
		return results(fn.Call(in))
	}
	return m
}

// paramsFor expands the parameter list to n arguments.
func (m Method) paramsFor(n int) ([]reflect.Type, bool) {
	if !m.Variadic {
		return m.Params, len(m.Params) == n
	}
	fixed := len(m.Params) - 1
	if fixed < 0 || n < fixed {
		return nil, false
	}
	out := make([]reflect.Type, n)
	copy(out, m.Params[:fixed])
	elem := m.Params[fixed].Elem()
	for i := fixed; i < n; i++ {
		out[i] = elem
	}
	return out, true
}

// getter reports whether the method can be read as a property.
func getter(t reflect.Type) bool {
	if t.NumIn() != 0 || t.IsVariadic() {
		return false
	}
	switch t.NumOut() {
	case 1:
		return t.Out(0) != errorType
	case 2:
		return t.Out(1) == errorType
	}
	return false
}

// results maps Go return values to a single result. A trailing error is
// returned as the error, no result is nil and several results form a list.
func results(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	list := make([]any, len(out))
	for i, v := range out {
		list[i] = v.Interface()
	}
	return list, nil
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return errors.New(fmt.Sprint("panic: ", rec))
}
