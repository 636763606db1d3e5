package invoke

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
	"github.com/randalmurphal/lambda/pkg/lambda/value"
)

const maxSuggestions = 3

func (r *Resolver) missing(target any, name string, arity int) error {
	return &lerrors.MissingMemberError{
		TargetKind:  fmt.Sprintf("%T", target),
		Name:        name,
		Arity:       arity,
		Suggestions: suggest(name, r.memberNames(target)),
	}
}

func (r *Resolver) memberNames(target any) []string {
	var names []string
	if n, ok := target.(MemberNamer); ok {
		names = append(names, n.MemberNames()...)
	}
	names = append(names, r.builtinNames(value.Of(target).Kind())...)

	t := reflect.TypeOf(target)
	pt := t
	if t.Kind() != reflect.Pointer {
		pt = reflect.PointerTo(t)
	}
	for i := 0; i < pt.NumMethod(); i++ {
		names = append(names, pt.Method(i).Name)
	}

	st := t
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(st) {
			if f.IsExported() && !f.Anonymous {
				names = append(names, f.Name)
			}
		}
	}

	slices.Sort(names)
	return slices.Compact(names)
}

// suggest ranks candidates that differ from name only in case first, then
// fuzzy matches.
func suggest(name string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if c != name && strings.EqualFold(c, name) {
			out = append(out, c)
		}
	}
	for _, m := range fuzzy.Find(name, candidates) {
		if len(out) == maxSuggestions {
			break
		}
		if m.Str != name && !slices.Contains(out, m.Str) {
			out = append(out, m.Str)
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
