// Petit Lisp in Go, derived from a little Scheme in Go by SUZUKI Hisao
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dc0d/onexit"

	"github.com/nukata/petit-lisp-in-go/lisp"
)

// onSignal returns the handler run when the process is told to stop.
// The farewell is left to the REPL once it has finished by itself.
func onSignal(out io.Writer, finished *atomic.Bool, shutdown func(), exit func(int)) func() {
	return func() {
		if !finished.Load() {
			fmt.Fprintln(out, lisp.Farewell)
		}
		shutdown()
		exit(0)
	}
}

func main() {
	cfg := lisp.DefaultConfig()
	cfg.Modules = lisp.StandardModules()
	interp := lisp.New(cfg)

	console, err := lisp.NewConsole(cfg, interp.Global)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var once sync.Once
	shutdown := func() {
		once.Do(func() {
			console.Close()
			interp.Close()
		})
	}
	var finished atomic.Bool
	onexit.Register(onSignal(os.Stdout, &finished, shutdown, os.Exit))
	defer shutdown()

	if len(os.Args) >= 2 {
		fmt.Printf("\n ==> Loading and executing %s\n\n", os.Args[1])
		if err := interp.LoadFile(os.Args[1]); err != nil {
			if errors.Is(err, lisp.ErrQuit) {
				finished.Store(true)
				fmt.Println(lisp.Farewell)
				return
			}
			lisp.PrintError(os.Stdout, err)
		}
	}
	err = lisp.NewREPL(interp, console, cfg).Run()
	finished.Store(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
