package mal

import "sort"

// Env is one scope frame. Frames are shared by pointer: closures, the
// evaluator and child frames may all hold the same frame, which lives as
// long as any of them still references it.
type Env struct {
	data  map[string]Value
	outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{data: map[string]Value{}, outer: outer}
}

// Define binds name in this frame, replacing any previous local binding.
// Parent frames are never written.
func (e *Env) Define(name string, v Value) {
	e.data[name] = v
}

// Lookup walks outward from e and returns the first binding of name.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.data[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Get is Lookup with a miss reported as an error value.
func (e *Env) Get(name string) Value {
	if v, ok := e.Lookup(name); ok {
		return v
	}
	return errorf(ErrSymbolNotFound, "'%s' not found", name)
}

// Root returns the outermost ancestor of e.
func (e *Env) Root() *Env {
	env := e
	for env.outer != nil {
		env = env.outer
	}
	return env
}

// Names returns the names bound directly in this frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.data))
	for k := range e.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
