package lisp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nukata/goarith"
)

var one = goarith.AsNumber(big.NewInt(1))

// def binds a builtin procedure in the global environment.
func (it *Interp) def(name, doc string, min, max int, fn func(a ...Any) Any) {
	it.Global.Define(Intern(name), &Builtin{name, doc, min, max, fn})
}

func (it *Interp) installBuiltins() {
	g := it.Global
	g.Define(Intern("nil"), Nil)
	g.Define(ElseSym, true) // used in cond

	it.def("+", "Returns the sum of the supplied arguments", 0, -1, func(a ...Any) Any {
		var sum Any = zero
		for _, x := range a {
			sum = add(sum, x)
		}
		return sum
	})
	it.def("*", "Returns the product of the supplied arguments", 0, -1, func(a ...Any) Any {
		var product Any = one
		for _, x := range a {
			product = mul(product, x)
		}
		return product
	})
	it.def("-", "Subtraction or negation: (- a b) returns a-b; (- a) returns -a", 1, 2, func(a ...Any) Any {
		if len(a) == 1 {
			return negate(a[0])
		}
		return sub(a[0], a[1])
	})
	it.def("/", "True division: (/ 8 4) returns 2.0", 2, 2, func(a ...Any) Any {
		return div(a[0], a[1])
	})
	it.def("//", "Floor division: (// 9 4) returns 2", 2, 2, func(a ...Any) Any {
		return floorDiv(a[0], a[1])
	})
	it.def(">", "Greater than", 2, 2, func(a ...Any) Any {
		return compare(">", a[0], a[1]) > 0
	})
	it.def("<", "Less than", 2, 2, func(a ...Any) Any {
		return compare("<", a[0], a[1]) < 0
	})
	it.def(">=", "Greater than or equal", 2, 2, func(a ...Any) Any {
		return compare(">=", a[0], a[1]) >= 0
	})
	it.def("<=", "Less than or equal", 2, 2, func(a ...Any) Any {
		return compare("<=", a[0], a[1]) <= 0
	})
	it.def("=", "Numeric equality", 2, 2, func(a ...Any) Any {
		mustNumber("=", a[0])
		mustNumber("=", a[1])
		return numEqual(a[0], a[1])
	})
	it.def("not", "Logical negation", 1, 1, func(a ...Any) Any {
		return !Truthy(a[0])
	})
	it.def("list", "Returns a list of the supplied arguments", 0, -1, func(a ...Any) Any {
		return List(a...)
	})
	it.def("print", "Prints its arguments; strings are shown without quotes", 0, -1, func(a ...Any) Any {
		ss := make([]string, len(a))
		for i, x := range a {
			ss[i] = Stringify(x, false)
		}
		fmt.Fprintln(it.Out, strings.Join(ss, " "))
		return Void
	})
	it.def("newline", "Prints a new line", 0, 0, func(a ...Any) Any {
		fmt.Fprintln(it.Out)
		return Void
	})
	quit := func(a ...Any) Any {
		panic(ErrQuit)
	}
	it.def("quit", "Quits the repl.", 0, 0, quit)
	it.def("exit", "Quits the repl.", 0, 0, quit)
	it.def("load", "Loads and executes a program file: (load \"file.lisp\")", 1, 1, func(a ...Any) Any {
		if err := it.LoadFile(mustString("load", a[0])); err != nil {
			panic(err)
		}
		return Void
	})
	it.def("watch", "Loads a file and loads it again whenever it changes on disk", 1, 1, func(a ...Any) Any {
		if err := it.Watch(mustString("watch", a[0])); err != nil {
			panic(err)
		}
		return Void
	})
	it.def("dir", "Returns the names defined in the global environment", 0, 0, func(a ...Any) Any {
		names := it.Global.Names()
		syms := make([]Any, len(names))
		for i, name := range names {
			syms[i] = Intern(name)
		}
		return List(syms...)
	})
	it.def("help", "(help) lists the globals; (help 'user-defined) only those you defined; (help proc) describes proc", 0, 1, func(a ...Any) Any {
		if len(a) == 0 {
			it.showVariables(false)
		} else if a[0] == Intern("user-defined") {
			it.showVariables(true)
		} else {
			fmt.Fprintln(it.Out, "  "+describe(a[0]))
		}
		return Void
	})
	it.def("set-docstring", "Sets the doc string of a user-defined procedure", 2, 2, func(a ...Any) Any {
		fn, ok := a[0].(*Closure)
		if !ok {
			panic(newError(TypeError, "set-docstring: not a lambda: %s", Stringify(a[0], true)))
		}
		fn.Doc = mustString("set-docstring", a[1])
		return Void
	})
}

func mustString(op string, x Any) string {
	s, ok := x.(string)
	if !ok {
		panic(newError(TypeError, "%s: not a string: %s", op, Stringify(x, true)))
	}
	return s
}

// describe returns the doc string of a procedure, or a short rendering
// of any other value.
func describe(x Any) string {
	switch v := x.(type) {
	case *Builtin:
		return v.Doc
	case *Closure:
		if v.Doc != "" {
			return v.Doc
		}
	}
	s := Stringify(x, true)
	if len(s) > 75 {
		s = strings.TrimSpace(s[:75]) + "..."
	}
	return s
}

func (it *Interp) showVariables(userOnly bool) {
	for _, name := range it.Global.Names() {
		sym := Intern(name)
		if userOnly && it.builtins[sym] {
			continue
		}
		fmt.Fprintf(it.Out, "  %s: %s\n", name, describe(it.Global.Lookup(sym)))
	}
	fmt.Fprintln(it.Out)
}
