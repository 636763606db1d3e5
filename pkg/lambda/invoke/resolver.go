// Package invoke resolves member access, method calls, indexers and free
// calls against host values at evaluation time.
//
// Hosts can expose members in three ways, tried in order:
//   - by implementing Reflectable
//   - through Go reflection: exported methods, zero-argument getter methods
//     read as properties, and exported struct fields
//   - through builtins registered per value kind (strings, times, lists, maps)
//
// A host's own members therefore shadow builtins of the same name.
//
// Overloads are selected by arity, preferring a unique candidate whose
// parameter types accept every argument as is, and otherwise taking the
// first candidate whose parameters accept every argument after conversion.
package invoke

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/randalmurphal/lambda/pkg/lambda/convert"
	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/registry"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

// ItemMethod is the method used for indexers on targets that are not
// lists, strings or maps.
const ItemMethod = "Item"

// Resolver dispatches members against host values. It is safe for
// concurrent use.
type Resolver struct {
	conv     convert.Service
	coercer  value.Coercer
	builtins *registry.Registry[builtinKey, []Builtin]
}

// New creates a Resolver with the default builtins. A nil service selects
// convert.Default.
func New(conv convert.Service) *Resolver {
	if conv == nil {
		conv = convert.Default
	}
	r := &Resolver{
		conv:     conv,
		coercer:  value.NewCoercer(conv),
		builtins: registry.New[builtinKey, []Builtin](),
	}
	r.registerDefaults()
	return r
}

// Property reads a property or field.
func (r *Resolver) Property(target any, name string) (any, error) {
	if isNull(target) {
		return nil, &lerrors.NullTargetError{Name: name}
	}

	if refl, ok := target.(Reflectable); ok {
		v, found, err := refl.Member(name)
		if err != nil {
			return nil, &lerrors.InvocationError{Member: name, Err: err}
		}
		if found {
			return v, nil
		}
	}

	rv := reflect.ValueOf(target)
	if m, ok := methodByName(rv, name); ok && getter(m.Type()) {
		return call(name, bindFunc(name, m), nil)
	}

	if v, found, err := field(rv, name); err != nil || found {
		return v, err
	}

	for _, b := range r.builtinsFor(value.Of(target).Kind(), name) {
		if len(b.Params) == 0 && !b.Variadic {
			return call(name, b.bind(name, target), nil)
		}
	}

	return nil, r.missing(target, name, 0)
}

// Method invokes a method with args.
func (r *Resolver) Method(target any, name string, args []any) (any, error) {
	if isNull(target) {
		return nil, &lerrors.NullTargetError{Name: name}
	}

	var own []Method
	if refl, ok := target.(Reflectable); ok {
		own = append(own, refl.Methods(name)...)
	}
	if m, ok := methodByName(reflect.ValueOf(target), name); ok {
		own = append(own, bindFunc(name, m))
	}

	c, ok := r.choose(own, args)
	if !ok {
		var builtins []Method
		for _, b := range r.builtinsFor(value.Of(target).Kind(), name) {
			builtins = append(builtins, b.bind(name, target))
		}
		if c, ok = r.choose(builtins, args); !ok {
			return nil, r.missing(target, name, len(args))
		}
	}
	converted, err := r.prepare(c, args)
	if err != nil {
		return nil, err
	}
	return call(name, c.m, converted)
}

// Call invokes a function value. fn may be a Go func or a Method; name
// describes the callee in errors.
func (r *Resolver) Call(fn any, name string, args []any) (any, error) {
	if isNull(fn) {
		return nil, &lerrors.NullTargetError{Name: name}
	}

	var m Method
	switch f := fn.(type) {
	case Method:
		m = f
	case *Method:
		m = *f
	default:
		rv := reflect.ValueOf(fn)
		if rv.Kind() != reflect.Func {
			return nil, &lerrors.InvocationError{
				Member: name,
				Err:    fmt.Errorf("%w: %T", lerrors.ErrNotCallable, fn),
			}
		}
		m = bindFunc(name, rv)
	}

	c, ok := r.choose([]Method{m}, args)
	if !ok {
		return nil, &lerrors.MissingMemberError{
			TargetKind: fmt.Sprintf("%T", fn),
			Name:       name,
			Arity:      len(args),
		}
	}
	converted, err := r.prepare(c, args)
	if err != nil {
		return nil, err
	}
	return call(name, c.m, converted)
}

type candidate struct {
	m      Method
	params []reflect.Type
}

func (r *Resolver) choose(methods []Method, args []any) (candidate, bool) {
	var matched []candidate
	for _, m := range methods {
		if params, ok := m.paramsFor(len(args)); ok {
			matched = append(matched, candidate{m: m, params: params})
		}
	}

	var exact []candidate
	for _, c := range matched {
		if allArgs(c.params, args, exactArg) {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0], true
	}

	for _, c := range matched {
		if allArgs(c.params, args, r.compatibleArg) {
			return c, true
		}
	}
	return candidate{}, false
}

func allArgs(params []reflect.Type, args []any, ok func(reflect.Type, any) bool) bool {
	for i, a := range args {
		if !ok(params[i], a) {
			return false
		}
	}
	return true
}

func exactArg(p reflect.Type, a any) bool {
	if a == nil {
		return p.Kind() == reflect.Interface
	}
	return reflect.TypeOf(a).AssignableTo(p)
}

func (r *Resolver) compatibleArg(p reflect.Type, a any) bool {
	if a == nil {
		return nilable(p)
	}
	t := reflect.TypeOf(a)
	return t.AssignableTo(p) || r.conv.CanChangeType(t, p)
}

func (r *Resolver) prepare(c candidate, args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		p := c.params[i]
		if a == nil || reflect.TypeOf(a).AssignableTo(p) {
			out[i] = a
			continue
		}
		from := reflect.TypeOf(a)
		conv, ok := r.conv.FindConverter(from, p)
		if !ok {
			return nil, &lerrors.ArgumentConversionError{Index: i, From: from.String(), To: p.String()}
		}
		v, err := conv(a, p)
		if err != nil {
			return nil, &lerrors.ArgumentConversionError{Index: i, From: from.String(), To: p.String(), Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func call(name string, m Method, args []any) (res any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, &lerrors.InvocationError{Member: name, Err: panicError(rec)}
		}
	}()

	res, err = m.Func(args)
	if err != nil {
		var inv *lerrors.InvocationError
		if errors.As(err, &inv) {
			return nil, err
		}
		return nil, &lerrors.InvocationError{Member: name, Err: err}
	}
	return res, nil
}

// methodByName finds an exported method, including pointer receiver
// methods of non-pointer values.
func methodByName(rv reflect.Value, name string) (reflect.Value, bool) {
	if !rv.IsValid() {
		return reflect.Value{}, false
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return m, true
	}
	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		if m := p.MethodByName(name); m.IsValid() {
			return m, true
		}
	}
	return reflect.Value{}, false
}

func field(rv reflect.Value, name string) (any, bool, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false, &lerrors.NullTargetError{Name: name}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false, nil
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, false, nil
	}
	f, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false, &lerrors.NullTargetError{Name: name}
	}
	return f.Interface(), true, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func isNull(v any) bool {
	return value.Of(v).IsNull()
}
