package lisp

import (
	"sort"
)

// Environment represents one frame of the scope chain.
type Environment struct {
	vars  map[*Symbol]Any
	Outer *Environment
}

// NewEnvironment makes an empty frame enclosed by outer.
func NewEnvironment(outer *Environment) *Environment {
	return &Environment{make(map[*Symbol]Any), outer}
}

// LookFor returns the innermost frame which binds sym, or nil.
func (env *Environment) LookFor(sym *Symbol) *Environment {
	for env != nil {
		if _, ok := env.vars[sym]; ok {
			return env
		}
		env = env.Outer
	}
	return nil
}

// Lookup returns the value bound to sym.
func (env *Environment) Lookup(sym *Symbol) Any {
	if frame := env.LookFor(sym); frame != nil {
		return frame.vars[sym]
	}
	panic(newError(UnboundVariable, "%s is not defined", string(*sym)))
}

// Define binds sym in this very frame, overwriting any binding there.
func (env *Environment) Define(sym *Symbol, val Any) {
	env.vars[sym] = val
}

// Set rebinds sym in the innermost frame which already binds it.
func (env *Environment) Set(sym *Symbol, val Any) {
	frame := env.LookFor(sym)
	if frame == nil {
		panic(newError(UnboundVariable, "%s is not defined", string(*sym)))
	}
	frame.vars[sym] = val
}

// Names returns the names bound in this frame in sorted order.
func (env *Environment) Names() []string {
	names := make([]string, 0, len(env.vars))
	for sym := range env.vars {
		names = append(names, string(*sym))
	}
	sort.Strings(names)
	return names
}

// PrependDefs builds a new frame enclosed by env which binds params to
// args. If rest is not nil, it is bound to the list of surplus args.
func (env *Environment) PrependDefs(params []*Symbol, rest *Symbol, args []Any) *Environment {
	n := len(params)
	if len(args) < n || (rest == nil && len(args) > n) {
		want := "exactly"
		if rest != nil {
			want = "at least"
		}
		panic(newError(ArityError, "expected %s %d argument(s), got %d",
			want, n, len(args)))
	}
	frame := &Environment{make(map[*Symbol]Any, n+1), env}
	for i, p := range params {
		frame.vars[p] = args[i]
	}
	if rest != nil {
		frame.vars[rest] = List(args[n:]...)
	}
	return frame
}
