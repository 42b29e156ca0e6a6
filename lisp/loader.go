package lisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineLength bounds a single source line read by Load.
const maxLineLength = 16 << 20

// LoadFile loads a source code from a file.
func (it *Interp) LoadFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return it.Load(fileName, file)
}

// Load evaluates the program read from src. Lines are gathered until
// their parentheses balance; each such group is evaluated and its values
// are printed. The first failing group stops the loading.
func (it *Interp) Load(name string, src io.Reader) error {
	lines := bufio.NewScanner(src)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var buf strings.Builder
	balance, lineNo := 0, 0
	for lines.Scan() {
		lineNo++
		line := strings.TrimSpace(StripComment(lines.Text()))
		if line == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte(' ')
		balance += ParenBalance(line)
		if balance > 0 {
			continue
		}
		form := strings.TrimSpace(buf.String())
		buf.Reset()
		balance = 0
		if err := it.evalPrint(form); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			return &LoadError{name, lineNo, form, err}
		}
	}
	if err := lines.Err(); err != nil {
		return &LoadError{name, lineNo + 1, "", err}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		_, err := ParseAll(rest)
		if err == nil {
			err = newParseError(ErrUnexpectedEOF, "unexpected EOF while reading")
		}
		return &LoadError{name, lineNo, rest, err}
	}
	return nil
}

// PrintError writes a diagnostic for err, with the file context when
// err comes from loading a file.
func PrintError(w io.Writer, err error) {
	var le *LoadError
	if errors.As(err, &le) {
		fmt.Fprintf(w, "\n    An error occurred in loading %s:\n", le.File)
		fmt.Fprintf(w, "line %d:\n%s\n", le.Line, le.Source)
		fmt.Fprintf(w, "      %v\n", le.Err)
		return
	}
	fmt.Fprintf(w, "      %v\n", err)
}
