// Package stdlib provides the Plume builtin function registry.
package stdlib

import (
	"sort"

	"github.com/plume-lang/plume/pkg/evaluator"
)

// Variadic marks a function that accepts any number of arguments.
const Variadic = -1

// Fn represents a builtin function.
type Fn struct {
	Name    string
	Arity   int
	Doc     string
	Execute func(call *evaluator.Call, args []evaluator.Value) (evaluator.Value, error)
}

// Registry holds registered builtin functions.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Default returns a registry holding every builtin.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register adds a function to the registry, replacing any previous entry.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins converts the registry into the evaluator's dispatch table.
func (r *Registry) Builtins() map[string]*evaluator.Builtin {
	out := make(map[string]*evaluator.Builtin, len(r.fns))
	for name, fn := range r.fns {
		out[name] = &evaluator.Builtin{
			Name:    fn.Name,
			Arity:   fn.Arity,
			Execute: fn.Execute,
		}
	}
	return out
}
