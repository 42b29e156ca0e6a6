package lisp

import (
	"fmt"
	"strings"
)

// Stringify returns the string representation of an expression.
// Strings in the expression will be quoted if quote is true.
func Stringify(exp Any, quote bool) string {
	return stringify(exp, quote, 0)
}

// stringify elides lists nested deeper than maxNesting as "(...)".
func stringify(exp Any, quote bool, depth int) string {
	switch exp {
	case true:
		return "#t"
	case false:
		return "#f"
	case Void:
		return "#<VOID>"
	}
	switch x := exp.(type) {
	case *Cell:
		if depth >= maxNesting && x != Nil {
			return "(...)"
		}
		ss := make([]string, 0, 16)
		for x != Nil {
			ss = append(ss, stringify(x.Car, quote, depth+1))
			if kdr, ok := x.Cdr.(*Cell); ok {
				x = kdr
			} else {
				ss = append(ss, ".", stringify(x.Cdr, quote, depth+1))
				break
			}
		}
		return "(" + strings.Join(ss, " ") + ")"
	case *Symbol:
		return string(*x)
	case string:
		if quote {
			return `"` + x + `"`
		}
		return x
	case *Closure:
		ps := make([]string, 0, len(x.Params)+2)
		for _, p := range x.Params {
			ps = append(ps, string(*p))
		}
		if x.Rest != nil {
			ps = append(ps, ".", string(*x.Rest))
		}
		return "#<lambda (" + strings.Join(ps, " ") + ")>"
	case *Builtin:
		return "#<builtin " + x.Name + ">"
	case *Environment:
		return fmt.Sprintf("#<environment %p>", x)
	}
	if IsNumber(exp) {
		return formatNumber(exp)
	}
	return fmt.Sprintf("%v", exp)
}
