package lisp

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher tracks source files which should be loaded again when they
// change on disk. Events are only collected here; the REPL drains them
// between forms so that evaluation stays on one goroutine.
type Watcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool
}

// NewWatcher starts an fsnotify watcher with no files.
func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fs, make(map[string]bool)}, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	if err := w.fs.Add(path); err != nil {
		return err
	}
	w.files[path] = true
	return nil
}

// Changed returns the watched files written, created or replaced since
// the last call, along with any errors the watcher met. It never blocks.
func (w *Watcher) Changed() (changed []string, errs []error) {
	seen := make(map[string]bool)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return changed, errs
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] || seen[name] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				seen[name] = true
				changed = append(changed, name)
			}
		case err, ok := <-w.fs.Errors:
			if ok && err != nil {
				errs = append(errs, err)
			}
		default:
			// Editors replace files by renaming, which drops the watch.
			for _, name := range changed {
				if err := w.fs.Add(name); err != nil {
					errs = append(errs, fmt.Errorf("cannot watch %s: %w", name, err))
				}
			}
			return changed, errs
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Watch loads a file once and arranges for it to be loaded again
// whenever it changes.
func (it *Interp) Watch(fileName string) error {
	if it.watcher == nil {
		w, err := NewWatcher()
		if err != nil {
			return err
		}
		it.watcher = w
	}
	if err := it.LoadFile(fileName); err != nil {
		return err
	}
	return it.watcher.Add(fileName)
}

// ReloadWatched loads again every watched file which has changed.
// Errors are reported, not returned.
func (it *Interp) ReloadWatched() {
	if it.watcher == nil {
		return
	}
	changed, errs := it.watcher.Changed()
	for _, err := range errs {
		fmt.Fprintf(it.Out, "    --> Watch error: %v\n", err)
	}
	for _, name := range changed {
		fmt.Fprintf(it.Out, "    --> Reloading %s\n", name)
		if err := it.LoadFile(name); err != nil {
			PrintError(it.Out, err)
		}
	}
}

// Close releases the resources held by the interpreter.
func (it *Interp) Close() error {
	if it.watcher == nil {
		return nil
	}
	err := it.watcher.Close()
	it.watcher = nil
	return err
}
