package models

// TemplateVariables is an ordered, immutable mapping from variable name to
// string value. Built fresh per generation request; transformations produce
// a new instance instead of mutating.
type TemplateVariables struct {
	names  []string
	values map[string]string
}

// EmptyVariables returns an empty variable mapping
func EmptyVariables() TemplateVariables {
	return TemplateVariables{values: map[string]string{}}
}

// NewTemplateVariables builds a mapping from an ordered list of name/value
// pairs. Later pairs overwrite earlier ones without changing first-seen
// insertion order.
func NewTemplateVariables(pairs ...[2]string) TemplateVariables {
	vars := EmptyVariables()
	for _, pair := range pairs {
		vars = vars.With(pair[0], pair[1])
	}
	return vars
}

// With returns a new mapping with name set to value
func (v TemplateVariables) With(name, value string) TemplateVariables {
	next := v.clone()
	if _, seen := next.values[name]; !seen {
		next.names = append(next.names, name)
	}
	next.values[name] = value
	return next
}

// Without returns a new mapping with name removed
func (v TemplateVariables) Without(name string) TemplateVariables {
	if !v.Has(name) {
		return v
	}
	next := EmptyVariables()
	for _, n := range v.names {
		if n != name {
			next = next.With(n, v.values[n])
		}
	}
	return next
}

// Get returns the value for name and whether it is present
func (v TemplateVariables) Get(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Has reports whether name is present
func (v TemplateVariables) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

// Len returns the number of variables
func (v TemplateVariables) Len() int {
	return len(v.names)
}

// Names returns variable names in insertion order
func (v TemplateVariables) Names() []string {
	names := make([]string, len(v.names))
	copy(names, v.names)
	return names
}

// Map returns a defensive copy of the mapping
func (v TemplateVariables) Map() map[string]string {
	m := make(map[string]string, len(v.values))
	for name, value := range v.values {
		m[name] = value
	}
	return m
}

// Transform applies fn to every value and returns the resulting mapping
func (v TemplateVariables) Transform(fn func(name, value string) string) TemplateVariables {
	next := EmptyVariables()
	for _, name := range v.names {
		next = next.With(name, fn(name, v.values[name]))
	}
	return next
}

func (v TemplateVariables) clone() TemplateVariables {
	next := TemplateVariables{
		names:  make([]string, len(v.names)),
		values: make(map[string]string, len(v.values)),
	}
	copy(next.names, v.names)
	for name, value := range v.values {
		next.values[name] = value
	}
	return next
}
