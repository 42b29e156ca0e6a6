package lisp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

// Interp is an interpreter: a global environment and its settings.
type Interp struct {
	Global   *Environment
	Out      io.Writer
	Modules  ModuleResolver
	MaxDepth int

	depth    int
	watcher  *Watcher
	builtins map[*Symbol]bool // names bound at start-up
}

// New builds an interpreter whose global environment holds the builtins.
func New(cfg Config) *Interp {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	it := &Interp{
		Global:   NewEnvironment(nil),
		Out:      out,
		Modules:  cfg.Modules,
		MaxDepth: cfg.MaxDepth,
	}
	it.installBuiltins()
	it.builtins = make(map[*Symbol]bool)
	for _, name := range it.Global.Names() {
		it.builtins[Intern(name)] = true
	}
	return it
}

// Evaluate evaluates an expression in an environment.
func (it *Interp) Evaluate(exp Any, env *Environment) (result Any, err error) {
	depth := it.depth
	defer func() {
		if r := recover(); r != nil {
			it.depth = depth
			result, err = Void, asError(r)
		}
	}()
	return it.eval(exp, env), nil
}

// EvalString evaluates every expression of src in the global environment
// and returns the value of the last one.
func (it *Interp) EvalString(src string) (Any, error) {
	exps, err := ParseAll(src)
	if err != nil {
		return Void, err
	}
	var result Any = Void
	for _, exp := range exps {
		if result, err = it.Evaluate(exp, it.Global); err != nil {
			return Void, err
		}
	}
	return result, nil
}

// evalPrint evaluates every expression of src and prints each value.
func (it *Interp) evalPrint(src string) error {
	exps, err := ParseAll(src)
	if err != nil {
		return err
	}
	for _, exp := range exps {
		result, err := it.Evaluate(exp, it.Global)
		if err != nil {
			return err
		}
		if result != Void {
			fmt.Fprintln(it.Out, Stringify(result, true))
		}
	}
	return nil
}

// asError converts a recovered value into an error.
func asError(r Any) error {
	switch e := r.(type) {
	case *Error:
		return e
	case runtime.Error:
		return &Error{Kind: TypeError, Message: e.Error(), Err: e}
	case error:
		if errors.Is(e, ErrQuit) {
			return e
		}
		var le *LoadError
		if errors.As(e, &le) {
			return e
		}
		return &Error{Kind: TypeError, Message: e.Error(), Err: e}
	}
	return newError(TypeError, "%v", r)
}

//----------------------------------------------------------------------

func (it *Interp) eval(exp Any, env *Environment) Any {
	it.depth++
	if it.MaxDepth > 0 && it.depth > it.MaxDepth {
		panic(newError(StackOverflow,
			"maximum evaluation depth (%d) exceeded", it.MaxDepth))
	}
	result := it.dispatch(exp, env)
	it.depth--
	return result
}

// operands returns the n operands of the special form x.
func operands(x *Cell, n int) []Any {
	args := x.Tail().Slice()
	if len(args) != n {
		panic(newError(ArityError, "%s: expected %d operand(s), got %d: %s",
			Stringify(x.Car, true), n, len(args), Stringify(x, true)))
	}
	return args
}

func (it *Interp) dispatch(exp Any, env *Environment) Any {
	x, ok := exp.(*Cell)
	if !ok {
		if sym, ok := exp.(*Symbol); ok {
			return env.Lookup(sym)
		}
		return exp // as a number, #t, #f, a string etc.
	}
	if x == Nil {
		return Nil
	}
	switch x.Car {
	case QuoteSym: // (quote e)
		return operands(x, 1)[0]
	case AtomPSym: // (atom? e)
		_, isList := it.eval(operands(x, 1)[0], env).(*Cell)
		return !isList
	case EqPSym: // (eq? e1 e2)
		args := operands(x, 2)
		return isEq(it.eval(args[0], env), it.eval(args[1], env))
	case CarSym: // (car e)
		j := it.evalList("car", operands(x, 1)[0], env)
		if j == Nil {
			panic(newError(IndexError, "car: empty list"))
		}
		return j.Car
	case CdrSym: // (cdr e)
		j := it.evalList("cdr", operands(x, 1)[0], env)
		if j == Nil {
			return Nil
		}
		return j.Tail()
	case ConsSym: // (cons e1 e2)
		args := operands(x, 2)
		kar := it.eval(args[0], env)
		kdr := it.eval(args[1], env)
		j, ok := kdr.(*Cell)
		if !ok {
			j = List(kdr)
		}
		return &Cell{kar, j}
	case DefineSym: // (define var e)
		args := operands(x, 2)
		sym := asSymbol("define", args[0])
		env.Define(sym, it.eval(args[1], env))
		return Void
	case SetQSym: // (set! var e)
		args := operands(x, 2)
		sym := asSymbol("set!", args[0])
		env.Set(sym, it.eval(args[1], env))
		return Void
	case LambdaSym: // (lambda (v...) e...)
		return makeClosure(x, env)
	case CondSym: // (cond (p e...) ...)
		return it.evalCond(x, env)
	case IfSym: // (if test conseq alt)
		args := operands(x, 3)
		if Truthy(it.eval(args[0], env)) {
			return it.eval(args[1], env)
		}
		return it.eval(args[2], env)
	case NullPSym: // (null? e)
		j, isList := it.eval(operands(x, 1)[0], env).(*Cell)
		return isList && j == Nil
	case BeginSym: // (begin e...)
		var result Any = Void
		for j := x.Tail(); j != Nil; j = j.Tail() {
			result = it.eval(j.Car, env)
		}
		return result
	case ImportSym: // (import name)
		it.importModule(it.eval(operands(x, 1)[0], env), env)
		return Void
	}
	// (fun arg...)
	vals := make([]Any, 0, 8)
	for j := x; j != Nil; j = j.Tail() {
		vals = append(vals, it.eval(j.Car, env))
	}
	return it.apply(vals[0], vals[1:])
}

// apply applies a procedure to evaluated arguments.
func (it *Interp) apply(fun Any, args []Any) Any {
	switch fn := fun.(type) {
	case *Builtin:
		if len(args) < fn.MinArgs || (fn.MaxArgs >= 0 && len(args) > fn.MaxArgs) {
			panic(newError(ArityError, "%s: wrong number of arguments: %d",
				fn.Name, len(args)))
		}
		return fn.Fn(args...)
	case *Closure:
		return it.eval(fn.Body, fn.Env.PrependDefs(fn.Params, fn.Rest, args))
	}
	panic(newError(TypeError, "%s is not a procedure", Stringify(fun, true)))
}

func (it *Interp) evalList(op string, exp Any, env *Environment) *Cell {
	v := it.eval(exp, env)
	j, ok := v.(*Cell)
	if !ok {
		panic(newError(TypeError, "%s: not a list: %s", op, Stringify(v, true)))
	}
	return j
}

func asSymbol(op string, x Any) *Symbol {
	sym, ok := x.(*Symbol)
	if !ok {
		panic(newError(TypeError, "%s: not a symbol: %s", op, Stringify(x, true)))
	}
	return sym
}

// makeClosure builds a closure from (lambda (p... [. rest]) body...).
func makeClosure(x *Cell, env *Environment) *Closure {
	parts := x.Tail().Slice()
	if len(parts) < 2 {
		panic(newError(ArityError, "lambda: expected parameters and a body: %s",
			Stringify(x, true)))
	}
	plist, ok := parts[0].(*Cell)
	if !ok {
		panic(newError(TypeError, "lambda: bad parameter list: %s",
			Stringify(parts[0], true)))
	}
	fn := &Closure{Env: env}
	ps := plist.Slice()
	for i, p := range ps {
		sym := asSymbol("lambda", p)
		if sym == DotSym {
			if i != len(ps)-2 {
				panic(newError(TypeError, "lambda: bad parameter list: %s",
					Stringify(plist, true)))
			}
			fn.Rest = asSymbol("lambda", ps[i+1])
			break
		}
		fn.Params = append(fn.Params, sym)
	}
	if len(parts) == 2 {
		fn.Body = parts[1]
	} else {
		fn.Body = &Cell{BeginSym, x.Tail().Tail()}
	}
	return fn
}

func (it *Interp) evalCond(x *Cell, env *Environment) Any {
	for j := x.Tail(); j != Nil; j = j.Tail() {
		clause, ok := j.Car.(*Cell)
		if !ok || clause == Nil {
			panic(newError(TypeError, "cond: bad clause: %s", Stringify(j.Car, true)))
		}
		var test Any = true
		if clause.Car != ElseSym {
			test = it.eval(clause.Car, env)
		}
		if !Truthy(test) {
			continue
		}
		result := test
		for e := clause.Tail(); e != Nil; e = e.Tail() {
			result = it.eval(e.Car, env)
		}
		return result
	}
	return Void
}

func (it *Interp) importModule(name Any, env *Environment) {
	var s string
	switch v := name.(type) {
	case *Symbol:
		s = string(*v)
	case string:
		s = v
	default:
		panic(newError(TypeError, "import: bad module name: %s", Stringify(name, true)))
	}
	if it.Modules == nil {
		panic(newError(UnsupportedOperation, "import: native modules are not available"))
	}
	bindings, err := it.Modules.Resolve(s)
	if err != nil {
		panic(asError(err))
	}
	for k, v := range bindings {
		env.Define(Intern(k), v)
	}
}

//----------------------------------------------------------------------

// Truthy reports whether x counts as true: #f, the empty list, numeric
// zero, the empty string and no value count as false.
func Truthy(x Any) bool {
	switch v := x.(type) {
	case bool:
		return v
	case *Cell:
		return v != Nil
	case string:
		return v != ""
	}
	if x == Void {
		return false
	}
	return !isZero(x)
}

// isEq is true iff neither a nor b is a list and they are equal.
func isEq(a, b Any) bool {
	if _, ok := a.(*Cell); ok {
		return false
	}
	if _, ok := b.(*Cell); ok {
		return false
	}
	if IsNumber(a) || IsNumber(b) {
		return numEqual(a, b)
	}
	return a == b
}
