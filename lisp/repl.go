package lisp

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
)

// Farewell is printed when the REPL ends.
const Farewell = "\n   Goodbye!"

// LineReader is where the REPL reads its input from.
// *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewConsole makes a line editor with history and completion of the
// names bound in env.
func NewConsole(cfg Config, env *Environment) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:            cfg.Prompt,
		HistoryFile:       cfg.HistoryFile,
		AutoComplete:      &symbolCompleter{env},
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
}

// symbolCompleter completes the word before the cursor with the names
// visible from env.
type symbolCompleter struct {
	env *Environment
}

func isDelimiter(ch rune) bool {
	return unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '\''
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isDelimiter(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	seen := make(map[string]bool)
	var candidates [][]rune
	for env := c.env; env != nil; env = env.Outer {
		for _, name := range env.Names() {
			if !seen[name] && strings.HasPrefix(name, prefix) {
				seen[name] = true
				candidates = append(candidates, []rune(name[len(prefix):]))
			}
		}
	}
	return candidates, pos - start
}

//----------------------------------------------------------------------

// REPL is a read-eval-print loop over an interpreter.
type REPL struct {
	Interp       *Interp
	Lines        LineReader
	Prompt       string
	Continuation string
}

// NewREPL builds a REPL reading from lines with the prompts of cfg.
func NewREPL(it *Interp, lines LineReader, cfg Config) *REPL {
	return &REPL{it, lines, cfg.Prompt, cfg.Continuation}
}

// ReadExpression reads a line, and more lines at the continuation prompt
// while parentheses remain open.
func (r *REPL) ReadExpression() (string, error) {
	r.Lines.SetPrompt(r.Prompt)
	line, err := r.Lines.Readline()
	if err != nil {
		return "", err
	}
	inp := StripComment(line)
	balance := ParenBalance(inp)
	for balance > 0 {
		r.Lines.SetPrompt(r.Continuation)
		if line, err = r.Lines.Readline(); err != nil {
			return "", err
		}
		line = StripComment(line)
		inp += " " + line
		balance += ParenBalance(line)
	}
	return strings.TrimSpace(inp), nil
}

// Run repeats read-eval-print until end of input, an interrupt or (quit).
// An error in one expression is reported and the loop goes on.
func (r *REPL) Run() error {
	out := r.Interp.Out
	fmt.Fprintln(out, "\n  ====  Enter (quit) to end.  ====")
	for {
		inp, err := r.ReadExpression()
		if err != nil {
			fmt.Fprintln(out, Farewell)
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if inp == "" {
			continue
		}
		r.Interp.ReloadWatched()
		if strings.HasPrefix(inp, "parse ") {
			r.showParse(inp[len("parse "):])
			continue
		}
		if err := r.Interp.evalPrint(inp); err != nil {
			if errors.Is(err, ErrQuit) {
				fmt.Fprintln(out, Farewell)
				return nil
			}
			PrintError(out, err)
		}
	}
}

// showParse prints the structure read from src without evaluating it.
func (r *REPL) showParse(src string) {
	exps, err := ParseAll(src)
	if err != nil {
		PrintError(r.Interp.Out, err)
		return
	}
	for _, exp := range exps {
		fmt.Fprintf(r.Interp.Out, "     %s\n", Stringify(exp, true))
	}
}
