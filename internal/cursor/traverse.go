package cursor

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// TopLevel yields the direct children of root.
func TopLevel(root Cursor) iter.Seq[Cursor] {
	return root.Children()
}

// Descendants yields every node below root in pre-order. root itself is
// not yielded.
func Descendants(root Cursor) iter.Seq[Cursor] {
	return func(yield func(Cursor) bool) {
		descend(root, yield)
	}
}

func descend(c Cursor, yield func(Cursor) bool) bool {
	for child := range c.Children() {
		if !yield(child) || !descend(child, yield) {
			return false
		}
	}
	return true
}

// Walk visits root and its descendants in pre-order. If fn returns false
// the children of that node are skipped.
func Walk(root Cursor, fn func(c Cursor, depth int) bool) {
	walk(root, 0, fn)
}

func walk(c Cursor, depth int, fn func(Cursor, int) bool) {
	if !fn(c, depth) {
		return
	}
	for child := range c.Children() {
		walk(child, depth+1, fn)
	}
}

// Dump writes an indented outline of the tree rooted at root.
func Dump(w io.Writer, root Cursor) error {
	var err error
	Walk(root, func(c Cursor, depth int) bool {
		if err != nil {
			return false
		}
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&sb, "%s %q", c.Kind(), c.Spelling())
		if t := c.Type(); t != "" {
			fmt.Fprintf(&sb, " type=%q", t)
		}
		if t := c.ResultType(); t != "" {
			fmt.Fprintf(&sb, " result=%q", t)
		}
		e := c.Extent()
		fmt.Fprintf(&sb, " [%d:%d-%d:%d]\n", e.Start.Line, e.Start.Column, e.End.Line, e.End.Column)
		_, err = io.WriteString(w, sb.String())
		return err == nil
	})
	return err
}
