// Package rules groups file search rules by target file.
package rules

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Placeholder is replaced by a version string in search templates.
const Placeholder = "{current_version}"

// FileRule says where a version string appears: the file and a search
// template containing Placeholder.
type FileRule struct {
	File   string
	Search string
}

// Target is a file together with every search template that applies to it,
// in declaration order.
type Target struct {
	File     string
	Searches []string
}

// Merge groups search templates by target file so each file is handled once.
// Targets are ordered by first appearance and each target keeps its templates
// in the order the rules were declared, since later templates run on the
// output of earlier ones.
func Merge(rules []FileRule) []Target {
	var targets []Target
	index := make(map[string]int)

	for _, r := range rules {
		key := normalize(r.File)
		i, ok := index[key]
		if !ok {
			i = len(targets)
			index[key] = i
			targets = append(targets, Target{File: key})
		}
		targets[i].Searches = append(targets[i].Searches, r.Search)
	}

	return targets
}

// normalize cleans a path so "./a" and "a" share a key. The empty path is a
// key of its own.
func normalize(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// Render substitutes v for Placeholder in template.
func Render(template string, v fmt.Stringer) string {
	return strings.ReplaceAll(template, Placeholder, v.String())
}

// HasPlaceholder reports whether template contains Placeholder.
func HasPlaceholder(template string) bool {
	return strings.Contains(template, Placeholder)
}
