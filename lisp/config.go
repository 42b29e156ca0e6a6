package lisp

import (
	"io"
	"os"
	"path/filepath"
)

// Config holds the settings of an interpreter and its REPL.
type Config struct {
	Prompt       string // primary prompt
	Continuation string // prompt while parentheses are still open
	HistoryFile  string // "" keeps no history
	MaxDepth     int    // nesting limit of evaluation; <= 0 means no limit
	Out          io.Writer
	Modules      ModuleResolver // nil disables (import ...)
}

// DefaultMaxDepth keeps deep recursion well inside the Go stack.
const DefaultMaxDepth = 10000

// DefaultConfig returns the settings used by the command.
func DefaultConfig() Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".petit_lisp_history")
	}
	return Config{
		Prompt:       "repl> ",
		Continuation: " ... ",
		HistoryFile:  history,
		MaxDepth:     DefaultMaxDepth,
		Out:          os.Stdout,
	}
}
