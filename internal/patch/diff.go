package patch

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff returns a zero-context unified diff between before and after
// with name as the "from" header and an empty "to" header. Trailing
// whitespace is stripped from every line. Identical inputs yield no lines.
func UnifiedDiff(name, before, after string) ([]string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: name,
		Context:  0,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return lines, nil
}

// splitLines splits s into newline-terminated lines. A final line without a
// newline gets one so the diff writer keeps one line per row.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}
