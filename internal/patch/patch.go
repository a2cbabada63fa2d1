// Package patch rewrites version strings in files, or previews the rewrite as
// a unified diff.
package patch

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jimdowning-cyclops/bumper/internal/rules"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

// Result describes what happened, or would happen, to one target file.
type Result struct {
	File         string
	Changed      bool
	Replacements int
	Diff         []string // populated in dry-run mode only

	before string
	after  string
}

// Patcher applies merged rules to files.
type Patcher struct {
	printer Printer
	logger  *zap.Logger
}

// New creates a Patcher that reports through printer.
func New(printer Printer, logger *zap.Logger) *Patcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Patcher{printer: printer, logger: logger}
}

// Apply replaces current with next in every target file.
//
// All targets are read and substituted before anything is written, so a
// read failure leaves every file untouched. A write failure aborts the run at
// the failing file.
//
// In dry-run mode no file is written; a zero-context diff is printed for each
// target instead of the Bumped/No changes status lines.
func (p *Patcher) Apply(current, next version.Version, targets []rules.Target, dryRun bool) ([]Result, error) {
	targets = p.coalesce(targets)
	results := make([]Result, 0, len(targets))

	for _, target := range targets {
		data, err := os.ReadFile(target.File)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", target.File)
		}

		before := string(data)
		after, n := Substitute(before, current, next, target.Searches)
		p.logger.Debug("substituted",
			zap.String("file", target.File),
			zap.Int("rules", len(target.Searches)),
			zap.Int("replacements", n))

		results = append(results, Result{
			File:         target.File,
			Changed:      after != before,
			Replacements: n,
			before:       before,
			after:        after,
		})
	}

	for i := range results {
		r := &results[i]
		name := filepath.Base(r.File)

		if dryRun {
			diff, err := UnifiedDiff(name, r.before, r.after)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to diff %s", r.File)
			}
			r.Diff = diff
			p.printer.Diff(name, diff)
			continue
		}

		if !r.Changed {
			p.printer.Unchanged(name)
			continue
		}
		if err := WriteFileAtomic(r.File, []byte(r.after)); err != nil {
			return results[:i], err
		}
		p.printer.Bumped(name)
	}

	return results, nil
}

// coalesce merges targets whose paths resolve to the same file, through
// symlinks or relative and absolute spellings, so every file is read and
// written once. Searches keep their order and the first spelling names the
// result.
func (p *Patcher) coalesce(targets []rules.Target) []rules.Target {
	out := make([]rules.Target, 0, len(targets))
	index := make(map[string]int, len(targets))

	for _, t := range targets {
		key := resolve(t.File)
		if i, ok := index[key]; ok {
			p.logger.Debug("merging targets for the same file",
				zap.String("file", out[i].File),
				zap.String("alias", t.File))
			out[i].Searches = append(out[i].Searches, t.Searches...)
			continue
		}
		index[key] = len(out)
		out = append(out, rules.Target{File: t.File, Searches: slices.Clone(t.Searches)})
	}
	return out
}

// resolve returns the absolute path of file with symlinks evaluated, falling
// back to less resolved forms when the file cannot be inspected.
func resolve(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return file
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Substitute runs each search template over text in order. Each template
// operates on the output of the previous one. It returns the new text and the
// number of replacements made.
func Substitute(text string, current, next version.Version, searches []string) (string, int) {
	total := 0
	for _, search := range searches {
		from := rules.Render(search, current)
		if from == "" {
			continue
		}
		to := rules.Render(search, next)

		total += strings.Count(text, from)
		text = strings.ReplaceAll(text, from, to)
	}
	return text, total
}

// Count returns the number of occurrences of template rendered with v in the
// file at path.
func Count(path, template string, v version.Version) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", path)
	}
	search := rules.Render(template, v)
	if search == "" {
		return 0, nil
	}
	return strings.Count(string(data), search), nil
}
