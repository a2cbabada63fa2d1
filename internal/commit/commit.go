// Package commit reads conventional commit messages and turns them into a
// SemVer bump kind.
package commit

import (
	"regexp"
	"strings"

	"github.com/jimdowning-cyclops/bumper/internal/version"
)

// Commit is a conventional commit message split into its parts.
type Commit struct {
	Hash     string
	Type     string
	Scope    string
	Summary  string
	Breaking bool

	// BreakingNote is the text of a BREAKING CHANGE footer, if any.
	BreakingNote string
}

// header matches "type(scope)!: summary" with the scope and "!" optional.
var header = regexp.MustCompile(`^(?P<type>\w+)(?:\((?P<scope>[^)]+)\))?(?P<bang>!)?\s*:\s*(?P<summary>.*)$`)

var (
	typeIdx    = header.SubexpIndex("type")
	scopeIdx   = header.SubexpIndex("scope")
	bangIdx    = header.SubexpIndex("bang")
	summaryIdx = header.SubexpIndex("summary")
)

// breakingTokens are the footer tokens that mark a breaking change. They are
// matched case-insensitively at the start of a body line.
var breakingTokens = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// Parse splits a commit subject and body. A subject that is not a
// conventional header yields a Commit with only Summary set.
func Parse(subject, body string) Commit {
	m := header.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return Commit{Summary: subject}
	}

	c := Commit{
		Type:     m[typeIdx],
		Scope:    m[scopeIdx],
		Summary:  m[summaryIdx],
		Breaking: m[bangIdx] != "",
	}
	if note, ok := breakingFooter(body); ok {
		c.Breaking = true
		c.BreakingNote = note
	}
	return c
}

// breakingFooter returns the note of the first breaking-change footer in body.
func breakingFooter(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		for _, token := range breakingTokens {
			if strings.HasPrefix(upper, token) {
				return strings.TrimSpace(line[len(token):]), true
			}
		}
	}
	return "", false
}

// DetermineBump returns the highest SemVer bump the commits call for.
// A breaking feat or fix means Major, feat means Minor and fix means Patch.
// ok is false when no commit warrants a release.
func DetermineBump(commits []Commit) (kind version.Kind, ok bool) {
	for _, c := range commits {
		if c.Type != "feat" && c.Type != "fix" {
			continue
		}
		if c.Breaking {
			return version.Major, true
		}

		switch {
		case c.Type == "feat":
			kind, ok = version.Minor, true
		case !ok:
			kind, ok = version.Patch, true
		}
	}

	return kind, ok
}
