package lisp

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// stringPat matches a double-quoted literal. There are no escape sequences;
// a literal ends at the next double quote.
var stringPat = regexp.MustCompile(`"[^"]*"`)

var padder = strings.NewReplacer("(", " ( ", ")", " ) ", "'", " ' ")

// placeholderPrefix starts every token which stands for a string literal.
const placeholderPrefix = "#str:"

// SplitIntoTokens splits a source text into tokens.
// Each string literal is first replaced by a unique placeholder token so
// that parentheses, quotes and spaces inside it survive the splitting;
// literals maps every placeholder to the literal text without its quotes.
func SplitIntoTokens(src string) (tokens []string, literals map[string]string, err error) {
	if strings.Contains(src, `"`) {
		literals = make(map[string]string)
		src = stringPat.ReplaceAllStringFunc(src, func(s string) string {
			key := placeholderPrefix + uuid.NewString()
			literals[key] = s[1 : len(s)-1]
			return " " + key + " "
		})
		if i := strings.IndexByte(src, '"'); i >= 0 {
			return nil, nil, newParseError(ErrUnterminatedString,
				"unterminated string: %s", strings.TrimSpace(src[i:]))
		}
	}
	return strings.Fields(padder.Replace(src)), literals, nil
}

// StripComment removes a ;-comment which is not inside a string literal.
func StripComment(line string) string {
	inString := false
	for i, ch := range line {
		switch ch {
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// ParenBalance returns the number of '(' minus the number of ')' in line,
// not counting those inside string literals or a trailing comment.
func ParenBalance(line string) int {
	n := 0
	inString := false
	for _, ch := range line {
		switch ch {
		case '"':
			inString = !inString
		case '(':
			if !inString {
				n++
			}
		case ')':
			if !inString {
				n--
			}
		case ';':
			if !inString {
				return n
			}
		}
	}
	return n
}
