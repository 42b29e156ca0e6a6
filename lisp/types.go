// Petit Lisp in Go, derived from a little Scheme in Go by SUZUKI Hisao
package lisp

import (
	"sync"
)

// Any is the type of every Lisp value. The dynamic types which may appear
// are *Symbol, goarith.Number, complex128, string, bool, *Cell (a list,
// the empty list being Nil), *Closure, *Builtin and the Void marker.
type Any = interface{}

//----------------------------------------------------------------------

// Cell represents a cons-cell. Lists built by the reader and by the list
// operations are always proper: Cdr holds a *Cell.
type Cell struct {
	Car Any
	Cdr Any
}

// Nil is the empty list.
var Nil *Cell = nil

func (j *Cell) String() string {
	return Stringify(j, true)
}

// Tail returns the cdr of j as a list.
func (j *Cell) Tail() *Cell {
	if kdr, ok := j.Cdr.(*Cell); ok {
		return kdr
	}
	panic(newError(TypeError, "improper list: %s", Stringify(j, true)))
}

// Slice copies the elements of j into a new slice.
func (j *Cell) Slice() []Any {
	result := make([]Any, 0, 8)
	for ; j != Nil; j = j.Tail() {
		result = append(result, j.Car)
	}
	return result
}

// List builds a fresh list of the given elements.
func List(elems ...Any) *Cell {
	result := Nil
	for i := len(elems) - 1; i >= 0; i-- {
		result = &Cell{elems[i], result}
	}
	return result
}

//----------------------------------------------------------------------

// Symbol represents a Lisp symbol.
type Symbol string

// The mapping from string to *Symbol
var symbols sync.Map

// Intern interns a name as a symbol.
func Intern(name string) *Symbol {
	newSym := Symbol(name)
	sym, _ := symbols.LoadOrStore(name, &newSym)
	return sym.(*Symbol)
}

func (s *Symbol) String() string {
	return string(*s)
}

var (
	QuoteSym  = Intern("quote")
	AtomPSym  = Intern("atom?")
	EqPSym    = Intern("eq?")
	CarSym    = Intern("car")
	CdrSym    = Intern("cdr")
	ConsSym   = Intern("cons")
	DefineSym = Intern("define")
	SetQSym   = Intern("set!")
	LambdaSym = Intern("lambda")
	CondSym   = Intern("cond")
	IfSym     = Intern("if")
	NullPSym  = Intern("null?")
	BeginSym  = Intern("begin")
	ImportSym = Intern("import")
	ElseSym   = Intern("else")
	DotSym    = Intern(".")
)

//----------------------------------------------------------------------

// Closure represents a lambda expression with its environment.
// Rest, if not nil, receives the surplus arguments as a list.
type Closure struct {
	Params []*Symbol
	Rest   *Symbol
	Body   Any
	Env    *Environment
	Doc    string
}

// Builtin represents a procedure provided by the host.
// MaxArgs < 0 means any number of arguments.
type Builtin struct {
	Name    string
	Doc     string
	MinArgs int
	MaxArgs int
	Fn      func(args ...Any) Any
}

// Void means the expression has no printable value.
var Void = &struct{}{}
