package lisp

import (
	"strings"
)

// tokenStream is consumed from the front as the reader goes.
type tokenStream struct {
	tokens   []string
	literals map[string]string
	depth    int
}

// maxNesting bounds the nesting of lists and quotes the reader accepts.
const maxNesting = DefaultMaxDepth

func (ts *tokenStream) peek() string {
	if len(ts.tokens) == 0 {
		panic(newParseError(ErrUnexpectedEOF, "unexpected EOF while reading"))
	}
	return ts.tokens[0]
}

func (ts *tokenStream) pop() string {
	result := ts.peek()
	ts.tokens = ts.tokens[1:]
	return result
}

// readFromTokens reads an expression from the front of ts.
func (ts *tokenStream) readFromTokens() Any {
	ts.depth++
	if ts.depth > maxNesting {
		panic(newError(StackOverflow,
			"maximum nesting depth (%d) exceeded while reading", maxNesting))
	}
	defer func() { ts.depth-- }()
	token := ts.pop()
	switch token {
	case "(":
		elems := make([]Any, 0, 8)
		for ts.peek() != ")" {
			elems = append(elems, ts.readFromTokens())
		}
		ts.pop()
		return List(elems...)
	case ")":
		panic(newParseError(ErrUnexpectedCloseParen, "unexpected )"))
	case "'":
		e := ts.readFromTokens()
		return List(QuoteSym, e) // 'e => (quote e)
	}
	return ts.atomize(token)
}

// atomize converts a token to a string, a boolean, a number or a symbol.
func (ts *tokenStream) atomize(token string) Any {
	if strings.HasPrefix(token, placeholderPrefix) {
		if s, ok := ts.literals[token]; ok {
			return s
		}
	}
	switch token {
	case "#t":
		return true
	case "#f":
		return false
	}
	if n, ok := tryToReadNumber(token); ok {
		return n
	}
	return Intern(token)
}

func catchParseError(err *error) {
	if r := recover(); r != nil {
		e, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*err = e
	}
}

// ParseAll reads every expression of src.
func ParseAll(src string) (result []Any, err error) {
	tokens, literals, err := SplitIntoTokens(src)
	if err != nil {
		return nil, err
	}
	defer catchParseError(&err)
	ts := &tokenStream{tokens: tokens, literals: literals}
	for len(ts.tokens) != 0 {
		result = append(result, ts.readFromTokens())
	}
	return result, nil
}

// Parse reads the first expression of src.
func Parse(src string) (result Any, err error) {
	tokens, literals, err := SplitIntoTokens(src)
	if err != nil {
		return nil, err
	}
	defer catchParseError(&err)
	ts := &tokenStream{tokens: tokens, literals: literals}
	return ts.readFromTokens(), nil
}
