package lambda

// Vars resolves variable names during evaluation. Names that are not found
// evaluate to null.
type Vars interface {
	Lookup(name string) (any, bool)
}

// MapVars is a Vars backed by a map.
type MapVars map[string]any

// Lookup implements Vars.
func (m MapVars) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// VarsFunc adapts a function to Vars.
type VarsFunc func(name string) (any, bool)

// Lookup implements Vars.
func (f VarsFunc) Lookup(name string) (any, bool) {
	return f(name)
}

// Chain looks names up in each Vars in turn.
type Chain []Vars

// Lookup implements Vars.
func (c Chain) Lookup(name string) (any, bool) {
	for _, vars := range c {
		if vars == nil {
			continue
		}
		if v, ok := vars.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}
