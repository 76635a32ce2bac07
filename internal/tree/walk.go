package tree

import "errors"

// SkipChildren returned from a WalkFunc skips the children of the current
// folder.
var SkipChildren = errors.New("skip children")

// WalkFunc is called once per entry, parents before children.
type WalkFunc func(e *Entry, depth int) error

// Walk visits entries depth-first in listing order. Returning an error other
// than SkipChildren stops the walk and returns it.
func Walk(entries []*Entry, fn WalkFunc) error {
	type item struct {
		entry *Entry
		depth int
	}

	stack := make([]item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, item{entries[i], 0})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := fn(it.entry, it.depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}

		children := it.entry.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{children[i], it.depth + 1})
		}
	}
	return nil
}

// Count returns the number of files and folders in entries.
func Count(entries []*Entry) (files, folders int) {
	_ = Walk(entries, func(e *Entry, _ int) error {
		if e.IsFolder() {
			folders++
		} else {
			files++
		}
		return nil
	})
	return files, folders
}

// Find returns the entry with the given relative path, or nil.
func Find(entries []*Entry, path string) *Entry {
	var found *Entry
	_ = Walk(entries, func(e *Entry, _ int) error {
		if e.Path == path {
			found = e
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")
