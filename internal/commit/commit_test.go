package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jimdowning-cyclops/bumper/internal/version"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    Commit
	}{
		{
			name:    "feat with scope",
			subject: "feat(config): read pyproject.toml",
			want:    Commit{Type: "feat", Scope: "config", Summary: "read pyproject.toml"},
		},
		{
			name:    "fix without scope",
			subject: "fix: keep file mode on rewrite",
			want:    Commit{Type: "fix", Summary: "keep file mode on rewrite"},
		},
		{
			name:    "breaking change with bang",
			subject: "feat(cli)!: rename --dry to --dry-run",
			want:    Commit{Type: "feat", Scope: "cli", Summary: "rename --dry to --dry-run", Breaking: true},
		},
		{
			name:    "breaking change in body",
			subject: "fix(patch): stop normalising line endings",
			body:    "Files are now compared byte for byte.\n\nBREAKING CHANGE: CRLF files are no longer rewritten",
			want: Commit{Type: "fix", Scope: "patch", Summary: "stop normalising line endings",
				Breaking: true, BreakingNote: "CRLF files are no longer rewritten"},
		},
		{
			name:    "breaking change footer with hyphen, lower case",
			subject: "feat: calver support",
			body:    "breaking-change: config key renamed",
			want:    Commit{Type: "feat", Summary: "calver support", Breaking: true, BreakingNote: "config key renamed"},
		},
		{
			name:    "breaking token inside a sentence is not a footer",
			subject: "docs: explain footers",
			body:    "Write BREAKING CHANGE: at the start of a footer line.",
			want:    Commit{Type: "docs", Summary: "explain footers"},
		},
		{
			name:    "non-conventional commit",
			subject: "Merge branch 'release' into main",
			want:    Commit{Summary: "Merge branch 'release' into main"},
		},
		{
			name:    "other type keeps its case",
			subject: "WIP: half a feature",
			want:    Commit{Type: "WIP", Summary: "half a feature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.subject, tt.body))
		})
	}
}

func TestDetermineBump(t *testing.T) {
	tests := []struct {
		name     string
		commits  []Commit
		want     version.Kind
		wantBump bool
	}{
		{
			name:    "no commits",
			commits: nil,
		},
		{
			name:    "only chores",
			commits: []Commit{{Type: "chore"}, {Type: "docs"}, {Type: "refactor", Breaking: true}},
		},
		{
			name:     "single fix",
			commits:  []Commit{{Type: "fix"}},
			want:     version.Patch,
			wantBump: true,
		},
		{
			name:     "fix then feat",
			commits:  []Commit{{Type: "fix"}, {Type: "feat"}},
			want:     version.Minor,
			wantBump: true,
		},
		{
			name:     "feat then fix",
			commits:  []Commit{{Type: "feat"}, {Type: "fix"}},
			want:     version.Minor,
			wantBump: true,
		},
		{
			name:     "breaking fix",
			commits:  []Commit{{Type: "feat"}, {Type: "fix", Breaking: true}},
			want:     version.Major,
			wantBump: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := DetermineBump(tt.commits)
			assert.Equal(t, tt.wantBump, ok)
			if tt.wantBump {
				assert.Equal(t, tt.want, kind)
			}
		})
	}
}
