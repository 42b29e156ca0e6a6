package lisp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---------------------------------------------------------------

func newTestInterp(out io.Writer) *Interp {
	if out == nil {
		out = io.Discard
	}
	cfg := DefaultConfig()
	cfg.HistoryFile = ""
	cfg.Out = out
	cfg.Modules = StandardModules()
	return New(cfg)
}

func evalShow(t *testing.T, it *Interp, src string) string {
	t.Helper()
	v, err := it.EvalString(src)
	require.NoError(t, err, src)
	return Stringify(v, true)
}

func evalErr(t *testing.T, it *Interp, src string, kind ErrorKind) {
	t.Helper()
	_, err := it.EvalString(src)
	require.Error(t, err, src)
	assert.True(t, IsKind(err, kind), "%s: want %v, got %v", src, kind, err)
}

// --- arithmetic ------------------------------------------------------------

func TestArithmetic(t *testing.T) {
	it := newTestInterp(nil)
	for src, want := range map[string]string{
		"(+ 3 4)":                    "7",
		"(+ 3 4 5)":                  "12",
		"(+)":                        "0",
		"(+ 3.25 4.5)":               "7.75",
		"(- 4 3)":                    "1",
		"(- 3 4)":                    "-1",
		"(- 3)":                      "-3",
		"(* 3 4)":                    "12",
		"(* 3 4 5)":                  "60",
		"(* 0.6 4)":                  "2.4",
		"(/ 8 4)":                    "2.0",
		"(// 8 4)":                   "2",
		" (+ (* 3 4) (- 2 1))":       "13",
		"(// (+ (* 3 4) (- 2 1)) 2)": "6",
		"(> 2 1)":                    "#t",
		"(< 2 1)":                    "#f",
		"(>= 2 2)":                   "#t",
		"(<= 3 2)":                   "#f",
		"(= 2 2.0)":                  "#t",
		"(not #f)":                   "#t",
		"(not 0)":                    "#t",
	} {
		assert.Equal(t, want, evalShow(t, it, src), src)
	}
}

func TestArithmeticErrors(t *testing.T) {
	it := newTestInterp(nil)
	evalErr(t, it, "(/ 1 0)", ZeroDivision)
	evalErr(t, it, "(// 1 0)", ZeroDivision)
	evalErr(t, it, "(/ 1)", ArityError)
	evalErr(t, it, "(+ 1 'a)", TypeError)
	evalErr(t, it, "(< 1 \"2\")", TypeError)
}

// --- define, set!, lambda ---------------------------------------------------

func TestDefineAndSet(t *testing.T) {
	it := newTestInterp(nil)
	v, err := it.EvalString("(define x 3)")
	require.NoError(t, err)
	assert.Equal(t, Void, v)
	assert.Equal(t, "7", evalShow(t, it, "(+ x 4)"))
	assert.Equal(t, "3", evalShow(t, it, "x"))

	v, err = it.EvalString("(set! x 4)")
	require.NoError(t, err)
	assert.Equal(t, Void, v)
	assert.Equal(t, "8", evalShow(t, it, "(+ x 4)"))
}

func TestUnboundVariable(t *testing.T) {
	it := newTestInterp(nil)
	evalErr(t, it, "undefined-name", UnboundVariable)
	evalErr(t, it, "(set! undefined-name 1)", UnboundVariable)
	evalErr(t, it, "undefined-name", UnboundVariable)
	evalErr(t, it, "(define 1 2)", TypeError)
	evalErr(t, it, "(define x)", ArityError)
}

func TestLambda(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define square (lambda (x) (* x x)))")
	assert.Equal(t, "9", evalShow(t, it, "(square 3)"))
	assert.Equal(t, "#<lambda (x)>", evalShow(t, it, "square"))
	assert.Equal(t, "25", evalShow(t, it, "((lambda (a b) (+ (* a a) (* b b))) 3 4)"))

	evalErr(t, it, "(square)", ArityError)
	evalErr(t, it, "(square 1 2)", ArityError)
	evalErr(t, it, "(lambda (x))", ArityError)
	evalErr(t, it, "(lambda (1) 1)", TypeError)
}

func TestLambdaRecursion(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))")
	assert.Equal(t, "120", evalShow(t, it, "(fact 5)"))
	assert.Equal(t, "15511210043330985984000000", evalShow(t, it, "(fact 25)"))
}

func TestVariadicTail(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define f (lambda (a . rest) rest))")
	assert.Equal(t, "(2 3)", evalShow(t, it, "(f 1 2 3)"))
	assert.Equal(t, "()", evalShow(t, it, "(f 1)"))
	assert.Equal(t, "((2 3))", evalShow(t, it, "(f 1 '(2 3))"))
	assert.Equal(t, "#<lambda (a . rest)>", evalShow(t, it, "f"))
	evalErr(t, it, "(f)", ArityError)

	evalShow(t, it, "(define g (lambda (. all) all))")
	assert.Equal(t, "(1 2)", evalShow(t, it, "(g 1 2)"))
	evalErr(t, it, "(lambda (a . b c) a)", TypeError)
}

func TestLambdaWithSeveralBodyForms(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define h (lambda (x) (define z 1) (+ x z)))")
	assert.Equal(t, "2", evalShow(t, it, "(h 1)"))
	evalErr(t, it, "z", UnboundVariable)
}

func TestClosuresShareTheirEnvironment(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, `
(define make-cell (lambda (n)
    (list (lambda () n)
          (lambda (v) (set! n v)))))`)
	evalShow(t, it, "(define p (make-cell 1))")
	evalShow(t, it, "((car (cdr p)) 5)")
	assert.Equal(t, "5", evalShow(t, it, "((car p))"))

	evalShow(t, it, `
(define make-counter (lambda ()
    (begin (define n 0)
           (lambda () (begin (set! n (+ n 1)) n)))))`)
	evalShow(t, it, "(define c (make-counter))")
	evalShow(t, it, "(c)")
	assert.Equal(t, "2", evalShow(t, it, "(c)"))
}

func TestLocalDefineShadows(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define y 1)")
	evalShow(t, it, "(define g (lambda () (begin (define y 2) y)))")
	assert.Equal(t, "2", evalShow(t, it, "(g)"))
	assert.Equal(t, "1", evalShow(t, it, "y"))
}

// --- control -----------------------------------------------------------------

func TestIf(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(if #t (define x 1) (define x 2))")
	assert.Equal(t, "1", evalShow(t, it, "x"))
	evalShow(t, it, "(if #f (define x 3) (define x 4))")
	assert.Equal(t, "4", evalShow(t, it, "x"))
	evalShow(t, it, "(if (not #t) (define x 1) (define x 2))")
	assert.Equal(t, "2", evalShow(t, it, "x"))

	assert.Equal(t, "b", evalShow(t, it, "(if 0 'a 'b)"))
	assert.Equal(t, "b", evalShow(t, it, "(if '() 'a 'b)"))
	assert.Equal(t, "a", evalShow(t, it, "(if \"s\" 'a 'b)"))

	evalErr(t, it, "(if #t 1)", ArityError)
	evalErr(t, it, "(if #t 1 2 3)", ArityError)
}

func TestIfEvaluatesOnlyOneBranch(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(if #t (define x 1) (error-trigger))")
	assert.Equal(t, "1", evalShow(t, it, "x"))
	evalShow(t, it, "(if #f (error-trigger) (define x 2))")
	assert.Equal(t, "2", evalShow(t, it, "x"))
}

func TestCond(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, `
(define abs (lambda (x)
    (cond ((> x 0) x)
          ((= x 0) 0)
          ((< x 0) (- x)))))`)
	assert.Equal(t, "2", evalShow(t, it, "(abs 2)"))
	assert.Equal(t, "3", evalShow(t, it, "(abs -3)"))
	assert.Equal(t, "0", evalShow(t, it, "(abs 0)"))

	evalShow(t, it, `
(define abs2 (lambda (x)
    (cond ((<= x 0) (- x))
          (else x)
          )))`)
	assert.Equal(t, "2", evalShow(t, it, "(abs2 2)"))
	assert.Equal(t, "3", evalShow(t, it, "(abs2 -3)"))
	assert.Equal(t, "0", evalShow(t, it, "(abs2 0)"))

	assert.Equal(t, "first", evalShow(t, it, "(cond (#t 'first) (#t 'second))"))
	assert.Equal(t, "#<VOID>", evalShow(t, it, "(cond (#f 1))"))
	assert.Equal(t, "3", evalShow(t, it, "(cond (#t 1 2 3))"))
	evalErr(t, it, "(cond 1)", TypeError)
}

func TestCondElseIsAKeyword(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define else #f)")
	assert.Equal(t, "fallback", evalShow(t, it, "(cond (#f 'no) (else 'fallback))"))
	assert.Equal(t, "#f", evalShow(t, it, "else"))
}

func TestBegin(t *testing.T) {
	it := newTestInterp(nil)
	assert.Equal(t, "3", evalShow(t, it, "(begin 1 2 3)"))
	assert.Equal(t, "#<VOID>", evalShow(t, it, "(begin)"))
}

// --- lists ---------------------------------------------------------------------

func TestListOperations(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define a (cons 1 (cons 2 (cons 3 (cons 4 '())))))")
	assert.Equal(t, evalShow(t, it, "'(1 2 3 4)"), evalShow(t, it, "a"))
	assert.Equal(t, "1", evalShow(t, it, "(car a)"))
	assert.Equal(t, evalShow(t, it, "'(2 3 4)"), evalShow(t, it, "(cdr a)"))
	assert.Equal(t, "()", evalShow(t, it, "(cdr '(1))"))
	assert.Equal(t, "()", evalShow(t, it, "(cdr '())"))
	assert.Equal(t, "(1 2)", evalShow(t, it, "(cons 1 2)"))
	assert.Equal(t, "(1 2 3)", evalShow(t, it, "(list 1 2 3)"))
	assert.Equal(t, "()", evalShow(t, it, "()"))

	evalErr(t, it, "(car 1)", TypeError)
	evalErr(t, it, "(cdr 'x)", TypeError)
	evalErr(t, it, "(car '())", IndexError)
}

func TestPredicates(t *testing.T) {
	it := newTestInterp(nil)
	for src, want := range map[string]string{
		"(atom? 1)":         "#t",
		"(atom? 'a)":        "#t",
		"(atom? '(1))":      "#f",
		"(atom? '())":       "#f",
		"(eq? 1 1)":         "#t",
		"(eq? 1 1.0)":       "#t",
		"(eq? 'a 'a)":       "#t",
		"(eq? 'a 'b)":       "#f",
		"(eq? \"s\" \"s\")": "#t",
		"(eq? '(1) '(1))":   "#f",
		"(eq? #t 1)":        "#f",
		"(null? '())":       "#t",
		"(null? nil)":       "#t",
		"(null? '(1))":      "#f",
		"(null? 0)":         "#f",
	} {
		assert.Equal(t, want, evalShow(t, it, src), src)
	}
}

func TestQuoteReturnsStructure(t *testing.T) {
	it := newTestInterp(nil)
	assert.Equal(t, "(+ 1 2)", evalShow(t, it, "'(+ 1 2)"))
	assert.Equal(t, "(quote a)", evalShow(t, it, "''a"))
	assert.Equal(t, "\"a (b)\"", evalShow(t, it, `"a (b)"`))
}

func TestNotAProcedure(t *testing.T) {
	it := newTestInterp(nil)
	evalErr(t, it, "(1 2)", TypeError)
	evalErr(t, it, "(\"f\")", TypeError)
}

// --- depth limit -----------------------------------------------------------------

func TestStackOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Out = io.Discard
	cfg.MaxDepth = 300
	it := New(cfg)
	evalShow(t, it, "(define f (lambda (n) (f n)))")
	evalErr(t, it, "(f 1)", StackOverflow)
	assert.Equal(t, "3", evalShow(t, it, "(+ 1 2)"))

	evalShow(t, it, "(define down (lambda (n) (if (= n 0) 'done (down (- n 1)))))")
	assert.Equal(t, "done", evalShow(t, it, "(down 20)"))
}

// --- builtins from the prelude ----------------------------------------------------

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	it := newTestInterp(&out)
	v, err := it.EvalString(`(print "hello; (world)" 'x 1.5)`)
	require.NoError(t, err)
	assert.Equal(t, Void, v)
	assert.Equal(t, "hello; (world) x 1.5\n", out.String())
}

func TestQuit(t *testing.T) {
	it := newTestInterp(nil)
	_, err := it.EvalString("(quit)")
	assert.ErrorIs(t, err, ErrQuit)
	_, err = it.EvalString("(begin (exit) 1)")
	assert.ErrorIs(t, err, ErrQuit)
}

func TestHelpAndDir(t *testing.T) {
	var out bytes.Buffer
	it := newTestInterp(&out)

	evalShow(t, it, "(help +)")
	assert.Contains(t, out.String(), "Returns the sum")

	evalShow(t, it, "(define twice (lambda (x) (* 2 x)))")
	evalShow(t, it, `(set-docstring twice "Doubles x")`)
	out.Reset()
	evalShow(t, it, "(help 'user-defined)")
	assert.Equal(t, "  twice: Doubles x\n\n", out.String())

	out.Reset()
	evalShow(t, it, "(help)")
	assert.Contains(t, out.String(), "  +: Returns the sum")
	assert.Contains(t, out.String(), "  twice: Doubles x")

	dir := evalShow(t, it, "(dir)")
	assert.Contains(t, dir, "twice")
	assert.Contains(t, dir, "set-docstring")

	evalErr(t, it, `(set-docstring + "x")`, TypeError)
}

func TestEvaluateWithExplicitEnvironment(t *testing.T) {
	it := newTestInterp(nil)
	env := NewEnvironment(it.Global)
	env.Define(Intern("k"), mustParse(t, "10"))
	v, err := it.Evaluate(mustParse(t, "(+ k 1)"), env)
	require.NoError(t, err)
	assert.Equal(t, "11", Stringify(v, true))
	evalErr(t, it, "k", UnboundVariable)
}
