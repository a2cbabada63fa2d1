package cli

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jimdowning-cyclops/bumper/internal/patch"
)

// colorPrinter is a patch.Printer that colours status lines and diffs. Colour
// follows fatih/color's terminal detection unless disabled.
type colorPrinter struct {
	w       io.Writer
	bumped  *color.Color
	skipped *color.Color
	header  *color.Color
	hunk    *color.Color
	added   *color.Color
	removed *color.Color
}

var _ patch.Printer = (*colorPrinter)(nil)

func newColorPrinter(w io.Writer, enabled bool) *colorPrinter {
	p := &colorPrinter{
		w:       w,
		bumped:  color.New(color.FgGreen),
		skipped: color.New(color.Faint),
		header:  color.New(color.Bold),
		hunk:    color.New(color.FgCyan),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	if !enabled {
		for _, c := range []*color.Color{p.bumped, p.skipped, p.header, p.hunk, p.added, p.removed} {
			c.DisableColor()
		}
	}
	return p
}

func (p *colorPrinter) Bumped(name string) {
	p.bumped.Fprintln(p.w, "Bumped "+name)
}

func (p *colorPrinter) Unchanged(name string) {
	p.skipped.Fprintln(p.w, name+" - No changes")
}

func (p *colorPrinter) Diff(_ string, lines []string) {
	for _, line := range lines {
		p.styleFor(line).Fprintln(p.w, line)
	}
}

func (p *colorPrinter) styleFor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return p.header
	case strings.HasPrefix(line, "@@"):
		return p.hunk
	case strings.HasPrefix(line, "+"):
		return p.added
	case strings.HasPrefix(line, "-"):
		return p.removed
	default:
		return p.skipped
	}
}
