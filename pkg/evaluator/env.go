package evaluator

import "sort"

// Env is the single flat variable namespace of a run.
type Env struct {
	bindings map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]Value)}
}

// Get looks up a variable by name.
func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.bindings[name]
	return val, ok
}

// Set binds or rebinds a variable.
func (e *Env) Set(name string, val Value) {
	e.bindings[name] = val
}

// Delete removes a binding. Deleting an unbound name is a no-op.
func (e *Env) Delete(name string) {
	delete(e.bindings, name)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
