package lisp

import (
	"math"
	"math/big"
	"math/cmplx"
	"strings"
	"unicode/utf8"

	"github.com/nukata/goarith"
)

// ModuleResolver maps a module name to extra native bindings which
// (import name) merges into the current frame.
type ModuleResolver interface {
	Resolve(name string) (map[string]Any, error)
}

// ModuleTable is a ModuleResolver backed by a fixed table.
type ModuleTable map[string]map[string]Any

func (t ModuleTable) Resolve(name string) (map[string]Any, error) {
	if m, ok := t[name]; ok {
		return m, nil
	}
	return nil, newError(UnsupportedOperation, "no native module named %s", name)
}

// StandardModules returns the modules shipped with the interpreter:
// "math" and "string".
func StandardModules() ModuleTable {
	return ModuleTable{
		"math":   mathModule(),
		"string": stringModule(),
	}
}

func native(name, doc string, min, max int, fn func(a ...Any) Any) *Builtin {
	return &Builtin{name, doc, min, max, fn}
}

func realArg(op string, x Any) float64 {
	n := asReal(x)
	if n == nil {
		panic(newError(TypeError, "%s: not a real number: %s", op, Stringify(x, true)))
	}
	return toFloat(n)
}

func float1(name, doc string, f func(float64) float64) *Builtin {
	return native(name, doc, 1, 1, func(a ...Any) Any {
		return goarith.AsNumber(f(realArg(name, a[0])))
	})
}

// integral converts a rounded float to an exact integer.
func integral(op string, f float64) Any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(newError(TypeError, "%s: cannot convert %s to an integer", op, formatFloat(f)))
	}
	z, _ := new(big.Float).SetFloat64(f).Int(nil)
	return goarith.AsNumber(z)
}

func mathModule() map[string]Any {
	return map[string]Any{
		"pi":  goarith.AsNumber(math.Pi),
		"e":   goarith.AsNumber(math.E),
		"tau": goarith.AsNumber(2 * math.Pi),
		"inf": goarith.AsNumber(math.Inf(1)),

		"sqrt": native("sqrt", "Square root", 1, 1, func(a ...Any) Any {
			if c, ok := a[0].(complex128); ok {
				return cmplx.Sqrt(c)
			}
			x := realArg("sqrt", a[0])
			if x < 0 {
				return cmplx.Sqrt(complex(x, 0))
			}
			return goarith.AsNumber(math.Sqrt(x))
		}),
		"sin": float1("sin", "Sine of x radians", math.Sin),
		"cos": float1("cos", "Cosine of x radians", math.Cos),
		"tan": float1("tan", "Tangent of x radians", math.Tan),
		"exp": float1("exp", "e raised to the power x", math.Exp),
		"log": native("log", "Natural logarithm; (log x base) uses the given base", 1, 2, func(a ...Any) Any {
			x := realArg("log", a[0])
			if x <= 0 {
				panic(newError(TypeError, "log: math domain error"))
			}
			if len(a) == 2 {
				return goarith.AsNumber(math.Log(x) / math.Log(realArg("log", a[1])))
			}
			return goarith.AsNumber(math.Log(x))
		}),
		"pow": native("pow", "x raised to the power y, as a float", 2, 2, func(a ...Any) Any {
			return goarith.AsNumber(math.Pow(realArg("pow", a[0]), realArg("pow", a[1])))
		}),
		"floor": native("floor", "Largest integer <= x", 1, 1, func(a ...Any) Any {
			return integral("floor", math.Floor(realArg("floor", a[0])))
		}),
		"ceil": native("ceil", "Smallest integer >= x", 1, 1, func(a ...Any) Any {
			return integral("ceil", math.Ceil(realArg("ceil", a[0])))
		}),
		"abs": native("abs", "Absolute value", 1, 1, func(a ...Any) Any {
			if c, ok := a[0].(complex128); ok {
				return goarith.AsNumber(cmplx.Abs(c))
			}
			if compare("abs", a[0], zero) < 0 {
				return negate(a[0])
			}
			return a[0]
		}),
	}
}

func stringModule() map[string]Any {
	return map[string]Any{
		"string-length": native("string-length", "Number of characters of a string", 1, 1, func(a ...Any) Any {
			n := utf8.RuneCountInString(mustString("string-length", a[0]))
			return goarith.AsNumber(big.NewInt(int64(n)))
		}),
		"string-append": native("string-append", "Concatenates strings", 0, -1, func(a ...Any) Any {
			var sb strings.Builder
			for _, x := range a {
				sb.WriteString(mustString("string-append", x))
			}
			return sb.String()
		}),
		"string-upcase": native("string-upcase", "Upper-cases a string", 1, 1, func(a ...Any) Any {
			return strings.ToUpper(mustString("string-upcase", a[0]))
		}),
		"string-downcase": native("string-downcase", "Lower-cases a string", 1, 1, func(a ...Any) Any {
			return strings.ToLower(mustString("string-downcase", a[0]))
		}),
		"symbol->string": native("symbol->string", "Name of a symbol", 1, 1, func(a ...Any) Any {
			return string(*asSymbol("symbol->string", a[0]))
		}),
		"string->symbol": native("string->symbol", "Interns a string as a symbol", 1, 1, func(a ...Any) Any {
			return Intern(mustString("string->symbol", a[0]))
		}),
	}
}
