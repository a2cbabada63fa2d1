package patch

import (
	"fmt"
	"io"
)

// Printer receives the per-file outcome of Apply.
type Printer interface {
	// Bumped is called after a changed file has been written.
	Bumped(name string)
	// Unchanged is called for a file none of whose searches matched.
	Unchanged(name string)
	// Diff is called in dry-run mode with the diff lines of a file, which
	// may be empty.
	Diff(name string, lines []string)
}

// NewPrinter returns a Printer writing plain text to w.
func NewPrinter(w io.Writer) Printer {
	return textPrinter{w: w}
}

type textPrinter struct {
	w io.Writer
}

func (p textPrinter) Bumped(name string) {
	fmt.Fprintf(p.w, "Bumped %s\n", name)
}

func (p textPrinter) Unchanged(name string) {
	fmt.Fprintf(p.w, "%s - No changes\n", name)
}

func (p textPrinter) Diff(_ string, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(p.w, line)
	}
}
