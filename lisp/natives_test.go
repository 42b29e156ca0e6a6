package lisp

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportMath(t *testing.T) {
	it := newTestInterp(nil)
	evalErr(t, it, "(sqrt 16)", UnboundVariable)
	evalShow(t, it, "(import 'math)")
	assert.Equal(t, "4.0", evalShow(t, it, "(sqrt 16)"))
	assert.Equal(t, "2i", evalShow(t, it, "(sqrt -4)"))
	assert.Equal(t, "2", evalShow(t, it, "(floor 2.7)"))
	assert.Equal(t, "-3", evalShow(t, it, "(ceil -3.5)"))
	assert.Equal(t, "5", evalShow(t, it, "(abs -5)"))
	assert.Equal(t, "8.0", evalShow(t, it, "(pow 2 3)"))
	assert.Equal(t, "#t", evalShow(t, it, "(> pi 3.14)"))
	evalErr(t, it, "(log 0)", TypeError)
	evalErr(t, it, "(floor inf)", TypeError)
}

func TestImportIntoLocalFrame(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(define mul-pi (lambda (x) (begin (import \"math\") (* x pi))))")
	assert.Equal(t, "#t", evalShow(t, it, "(> (mul-pi 1) 3.14)"))
	evalErr(t, it, "pi", UnboundVariable)
}

func TestImportString(t *testing.T) {
	it := newTestInterp(nil)
	evalShow(t, it, "(import 'string)")
	assert.Equal(t, "5", evalShow(t, it, `(string-length "héllo")`))
	assert.Equal(t, `"ab cd"`, evalShow(t, it, `(string-append "ab" " " "cd")`))
	assert.Equal(t, `"ABC"`, evalShow(t, it, `(string-upcase "abc")`))
	assert.Equal(t, `"abc"`, evalShow(t, it, `(string-downcase "ABC")`))
	assert.Equal(t, `"car"`, evalShow(t, it, "(symbol->string 'car)"))
	assert.Equal(t, "#t", evalShow(t, it, `(eq? (string->symbol "x") 'x)`))
	evalErr(t, it, "(string-length 1)", TypeError)
}

func TestImportUnknownModule(t *testing.T) {
	it := newTestInterp(nil)
	evalErr(t, it, "(import 'os)", UnsupportedOperation)
	evalErr(t, it, "(import 1)", TypeError)
}

func TestImportWithoutResolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Out = io.Discard
	it := New(cfg)
	evalErr(t, it, "(import 'math)", UnsupportedOperation)
	assert.Equal(t, "3", evalShow(t, it, "(+ 1 2)"))
}

type fakeResolver map[string]Any

func (f fakeResolver) Resolve(name string) (map[string]Any, error) {
	return f, nil
}

func TestCustomResolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Out = io.Discard
	cfg.Modules = fakeResolver{"answer": mustParse(t, "42")}
	it := New(cfg)
	evalShow(t, it, "(import 'anything)")
	assert.Equal(t, "42", evalShow(t, it, "answer"))
}
