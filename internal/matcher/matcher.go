package matcher

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"

	"github.com/jimdowning-cyclops/bumper/internal/rules"
)

// ErrNoMatch is returned when a glob rule matches no file.
var ErrNoMatch = errors.New("pattern matched no files")

// Matcher expands glob patterns in rule paths into concrete files below a root
// directory.
type Matcher struct {
	root  string
	globs map[string]glob.Glob // Compiled once per pattern
	files []string             // Slash-separated paths relative to root, listed on first use
}

// NewMatcher creates a Matcher for files below root.
func NewMatcher(root string) *Matcher {
	return &Matcher{
		root:  root,
		globs: make(map[string]glob.Glob),
	}
}

// IsPattern reports whether path contains glob meta characters.
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Expand replaces every rule whose file is a glob pattern with one rule per
// matching file, in lexical order, keeping the rule's search template. Rules
// with literal paths are returned unchanged. Patterns are relative to the
// root and use "/" as separator; "**" spans directories.
func (m *Matcher) Expand(rs []rules.FileRule) ([]rules.FileRule, error) {
	var result []rules.FileRule

	for _, r := range rs {
		if !IsPattern(r.File) {
			result = append(result, r)
			continue
		}

		matches, err := m.MatchFiles(r.File)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.Mark(errors.Newf("pattern %q matched no files", r.File), ErrNoMatch)
		}
		for _, file := range matches {
			result = append(result, rules.FileRule{File: file, Search: r.Search})
		}
	}

	return result, nil
}

// MatchFiles returns the files below the root matching pattern, as paths
// relative to the root using the OS separator.
func (m *Matcher) MatchFiles(pattern string) ([]string, error) {
	g, err := m.compile(pattern)
	if err != nil {
		return nil, err
	}
	if err := m.list(); err != nil {
		return nil, err
	}

	var matches []string
	for _, file := range m.files {
		if g.Match(file) {
			matches = append(matches, filepath.FromSlash(file))
		}
	}
	return matches, nil
}

func (m *Matcher) compile(pattern string) (glob.Glob, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	if g, ok := m.globs[pattern]; ok {
		return g, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.Wrapf(err, "invalid glob pattern %q", pattern)
	}
	m.globs[pattern] = g
	return g, nil
}

// list walks the root once, skipping .git directories.
func (m *Matcher) list() error {
	if m.files != nil {
		return nil
	}

	files := []string{}
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to list files in %s", m.root)
	}

	sort.Strings(files)
	m.files = files
	return nil
}
