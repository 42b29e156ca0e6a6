package lisp

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

// Real numbers are goarith.Number values (exact integers of any size or
// float64); complex numbers are complex128.

var zero = goarith.AsNumber(new(big.Int))

// tryToReadNumber converts a token to an integer, a float or a complex
// number, in this order.
func tryToReadNumber(s string) (Any, bool) {
	z := new(big.Int)
	if _, ok := z.SetString(s, 10); ok {
		return goarith.AsNumber(z), true
	}
	// Out of range literals read as inf, -inf or zero.
	if f, err := strconv.ParseFloat(s, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return goarith.AsNumber(f), true
	}
	if c, err := strconv.ParseComplex(s, 128); err == nil {
		return c, true
	}
	return nil, false
}

// asReal returns x as a goarith.Number, or nil if x is not a real number.
func asReal(x Any) goarith.Number {
	switch x.(type) {
	case bool, string, *Symbol, *Cell, complex128:
		return nil
	}
	return goarith.AsNumber(x)
}

// IsNumber reports whether x is a Lisp number.
func IsNumber(x Any) bool {
	if _, ok := x.(complex128); ok {
		return true
	}
	return asReal(x) != nil
}

func isFloat(n goarith.Number) bool {
	_, ok := n.(goarith.Float64)
	return ok
}

func toFloat(n goarith.Number) float64 {
	if f, ok := n.(goarith.Float64); ok {
		return float64(f)
	}
	f, _ := strconv.ParseFloat(n.String(), 64)
	return f
}

func toBigInt(n goarith.Number) *big.Int {
	z, _ := new(big.Int).SetString(n.String(), 10)
	return z
}

func mustNumber(op string, x Any) Any {
	if !IsNumber(x) {
		panic(newError(TypeError, "%s: not a number: %s", op, Stringify(x, true)))
	}
	return x
}

// toComplex widens a number to complex128.
func toComplex(x Any) complex128 {
	if c, ok := x.(complex128); ok {
		return c
	}
	return complex(toFloat(asReal(x)), 0)
}

func eitherComplex(a, b Any) bool {
	_, ok1 := a.(complex128)
	_, ok2 := b.(complex128)
	return ok1 || ok2
}

//----------------------------------------------------------------------

func add(a, b Any) Any {
	mustNumber("+", a)
	mustNumber("+", b)
	if eitherComplex(a, b) {
		return toComplex(a) + toComplex(b)
	}
	return asReal(a).Add(asReal(b))
}

func sub(a, b Any) Any {
	mustNumber("-", a)
	mustNumber("-", b)
	if eitherComplex(a, b) {
		return toComplex(a) - toComplex(b)
	}
	return asReal(a).Sub(asReal(b))
}

func mul(a, b Any) Any {
	mustNumber("*", a)
	mustNumber("*", b)
	if eitherComplex(a, b) {
		return toComplex(a) * toComplex(b)
	}
	return asReal(a).Mul(asReal(b))
}

func negate(a Any) Any {
	mustNumber("-", a)
	if c, ok := a.(complex128); ok {
		return -c
	}
	n := asReal(a)
	if isFloat(n) {
		return goarith.AsNumber(-toFloat(n))
	}
	return zero.Sub(n)
}

// div is true division: the result is never an integer.
func div(a, b Any) Any {
	mustNumber("/", a)
	mustNumber("/", b)
	if eitherComplex(a, b) {
		d := toComplex(b)
		if d == 0 {
			panic(newError(ZeroDivision, "complex division by zero"))
		}
		return toComplex(a) / d
	}
	d := toFloat(asReal(b))
	if d == 0 {
		panic(newError(ZeroDivision, "division by zero"))
	}
	return goarith.AsNumber(toFloat(asReal(a)) / d)
}

// floorDiv rounds the quotient toward negative infinity.
// It stays exact when both operands are integers.
func floorDiv(a, b Any) Any {
	mustNumber("//", a)
	mustNumber("//", b)
	if eitherComplex(a, b) {
		panic(newError(TypeError, "can't take floor of complex number"))
	}
	x, y := asReal(a), asReal(b)
	if isFloat(x) || isFloat(y) {
		d := toFloat(y)
		if d == 0 {
			panic(newError(ZeroDivision, "float floor division by zero"))
		}
		return goarith.AsNumber(math.Floor(toFloat(x) / d))
	}
	n, d := toBigInt(x), toBigInt(y)
	if d.Sign() == 0 {
		panic(newError(ZeroDivision, "integer division by zero"))
	}
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (d.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return goarith.AsNumber(q)
}

// compare returns -1, 0 or +1. Complex numbers are not ordered.
func compare(op string, a, b Any) int {
	mustNumber(op, a)
	mustNumber(op, b)
	if eitherComplex(a, b) {
		panic(newError(TypeError, "%s: complex numbers are not ordered", op))
	}
	return asReal(a).Cmp(asReal(b))
}

// numEqual reports whether a and b are numbers of equal value.
func numEqual(a, b Any) bool {
	if !IsNumber(a) || !IsNumber(b) {
		return false
	}
	if eitherComplex(a, b) {
		return toComplex(a) == toComplex(b)
	}
	return asReal(a).Cmp(asReal(b)) == 0
}

// isZero reports whether x is a number equal to zero.
func isZero(x Any) bool {
	if c, ok := x.(complex128); ok {
		return c == 0
	}
	if n := asReal(x); n != nil {
		return n.Cmp(zero) == 0
	}
	return false
}

//----------------------------------------------------------------------

func formatNumber(x Any) string {
	if c, ok := x.(complex128); ok {
		return formatComplex(c)
	}
	n := asReal(x)
	if isFloat(n) {
		return formatFloat(toFloat(n))
	}
	return n.String()
}

// formatFloat always shows a float as a float: 2.0, not 2.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	ims := strconv.FormatFloat(im, 'g', -1, 64) + "i"
	if re == 0 && !math.Signbit(re) {
		return ims
	}
	if im >= 0 || math.IsNaN(im) {
		ims = "+" + ims
	}
	return strconv.FormatFloat(re, 'g', -1, 64) + ims
}
