package patch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jimdowning-cyclops/bumper/internal/rules"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

const sampleReadme = `# bumper
[![PyPI - Python Version](https://some.url/sco1-bumper/0.1.0?logo=python)]

Automatically increment the project's version number.

` + "```yaml" + `
repos:
-   repo: https://github.com/sco1/brie-commit
    rev: v0.1.0
    hooks:
    -   id: brie-commit
` + "```" + `
`

const bumpedReadme = `# bumper
[![PyPI - Python Version](https://some.url/sco1-bumper/0.2.0?logo=python)]

Automatically increment the project's version number.

` + "```yaml" + `
repos:
-   repo: https://github.com/sco1/brie-commit
    rev: v0.2.0
    hooks:
    -   id: brie-commit
` + "```" + `
`

const samplePyproject = `[project]
name = "sco1-bumper"
version = "0.1.0"
description = "Automatically increment the project's version number."

[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"
`

const bumpedPyproject = `[project]
name = "sco1-bumper"
version = "0.2.0"
description = "Automatically increment the project's version number."

[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"
`

// dummyRepo writes a README.md and pyproject.toml into a temporary directory.
func dummyRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(sampleReadme), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(samplePyproject), 0644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func semver(s string) version.Version {
	return version.MustParse(s, version.SemVer)
}

func TestApplySingleReplace(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
	})
	results, err := New(NewPrinter(&out), zaptest.NewLogger(t)).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, false)
	require.NoError(t, err)

	assert.Equal(t, bumpedPyproject, readFile(t, pyproject))
	assert.Equal(t, "Bumped pyproject.toml\n", out.String())
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Equal(t, 1, results[0].Replacements)
}

func TestApplyMultiReplace(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	readme := filepath.Join(dir, "README.md")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
		{File: readme, Search: "sco1-bumper/{current_version}"},
		{File: readme, Search: "rev: v{current_version}"},
	})
	_, err := New(NewPrinter(&out), zaptest.NewLogger(t)).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, false)
	require.NoError(t, err)

	assert.Equal(t, bumpedPyproject, readFile(t, pyproject))
	assert.Equal(t, bumpedReadme, readFile(t, readme))
	assert.Equal(t, "Bumped pyproject.toml\nBumped README.md\n", out.String())
}

func TestApplyNoChanges(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	readme := filepath.Join(dir, "README.md")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
		{File: readme, Search: "sco1-bumper/{current_version}"},
	})
	results, err := New(NewPrinter(&out), nil).
		Apply(semver("100.200.300"), semver("101.0.0"), targets, false)
	require.NoError(t, err)

	assert.Equal(t, samplePyproject, readFile(t, pyproject))
	assert.Equal(t, sampleReadme, readFile(t, readme))
	assert.Equal(t, "pyproject.toml - No changes\nREADME.md - No changes\n", out.String())
	for _, r := range results {
		assert.False(t, r.Changed)
		assert.Zero(t, r.Replacements)
	}
}

func TestApplyDryRunSingle(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
	})
	_, err := New(NewPrinter(&out), nil).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, true)
	require.NoError(t, err)

	want := `--- pyproject.toml
+++
@@ -3 +3 @@
-version = "0.1.0"
+version = "0.2.0"
`
	assert.Equal(t, want, out.String())
	assert.Equal(t, samplePyproject, readFile(t, pyproject))
}

func TestApplyDryRunMulti(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	readme := filepath.Join(dir, "README.md")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
		{File: readme, Search: "sco1-bumper/{current_version}"},
		{File: readme, Search: "rev: v{current_version}"},
	})
	results, err := New(NewPrinter(&out), nil).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, true)
	require.NoError(t, err)

	want := `--- pyproject.toml
+++
@@ -3 +3 @@
-version = "0.1.0"
+version = "0.2.0"
--- README.md
+++
@@ -2 +2 @@
-[![PyPI - Python Version](https://some.url/sco1-bumper/0.1.0?logo=python)]
+[![PyPI - Python Version](https://some.url/sco1-bumper/0.2.0?logo=python)]
@@ -9 +9 @@
-    rev: v0.1.0
+    rev: v0.2.0
`
	assert.Equal(t, want, out.String())
	assert.Equal(t, samplePyproject, readFile(t, pyproject))
	assert.Equal(t, sampleReadme, readFile(t, readme))
	require.Len(t, results, 2)
	assert.Len(t, results[1].Diff, 7)
}

func TestApplyDryRunUnchangedPrintsNothing(t *testing.T) {
	dir := dummyRepo(t)
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: filepath.Join(dir, "pyproject.toml"), Search: "nothing-{current_version}"},
	})
	_, err := New(NewPrinter(&out), nil).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, true)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestApplyMissingFileLeavesOthersUntouched(t *testing.T) {
	dir := dummyRepo(t)
	pyproject := filepath.Join(dir, "pyproject.toml")
	var out bytes.Buffer

	targets := rules.Merge([]rules.FileRule{
		{File: pyproject, Search: `version = "{current_version}"`},
		{File: filepath.Join(dir, "missing.txt"), Search: "{current_version}"},
	})
	_, err := New(NewPrinter(&out), nil).
		Apply(semver("0.1.0"), semver("0.2.0"), targets, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")

	assert.Equal(t, samplePyproject, readFile(t, pyproject))
	assert.Empty(t, out.String())
}

func TestApplyPreservesMode(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "release.sh")
	require.NoError(t, os.WriteFile(script, []byte("VERSION=1.2.3\n"), 0755))

	targets := rules.Merge([]rules.FileRule{{File: script, Search: "VERSION={current_version}"}})
	_, err := New(NewPrinter(&bytes.Buffer{}), nil).
		Apply(semver("1.2.3"), semver("1.2.4"), targets, false)
	require.NoError(t, err)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, "VERSION=1.2.4\n", readFile(t, script))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestApplySymlinkedTargetsShareOneWrite(t *testing.T) {
	dir := t.TempDir()
	versionFile := filepath.Join(dir, "VERSION")
	link := filepath.Join(dir, "VERSION.link")
	require.NoError(t, os.WriteFile(versionFile, []byte("app=1.2.3\nlib=1.2.3\n"), 0644))
	if err := os.Symlink(versionFile, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var out bytes.Buffer
	targets := rules.Merge([]rules.FileRule{
		{File: versionFile, Search: "app={current_version}"},
		{File: link, Search: "lib={current_version}"},
	})
	require.Len(t, targets, 2)

	results, err := New(NewPrinter(&out), zaptest.NewLogger(t)).
		Apply(semver("1.2.3"), semver("1.2.4"), targets, false)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Replacements)
	assert.Equal(t, "app=1.2.4\nlib=1.2.4\n", readFile(t, versionFile))
	assert.Equal(t, "Bumped VERSION\n", out.String())
}

func TestSubstituteRuleOrder(t *testing.T) {
	current, next := semver("1.0.0"), semver("2.0.0")

	tests := []struct {
		name     string
		text     string
		searches []string
		want     string
		count    int
	}{
		{
			name:     "all occurrences replaced",
			text:     "a 1.0.0 b 1.0.0",
			searches: []string{"{current_version}"},
			want:     "a 2.0.0 b 2.0.0",
			count:    2,
		},
		{
			name:     "later rule sees earlier output",
			text:     `v = "1.0.0"`,
			searches: []string{`"{current_version}"`, "{current_version}"},
			want:     `v = "2.0.0"`,
			count:    1,
		},
		{
			name:     "broad rule first consumes narrower match",
			text:     "pkg@1.0.0",
			searches: []string{"{current_version}", "pkg@{current_version}"},
			want:     "pkg@2.0.0",
			count:    1,
		},
		{
			name:     "template without placeholder is a no-op",
			text:     "static",
			searches: []string{"static"},
			want:     "static",
			count:    1,
		},
		{
			name:     "empty template skipped",
			text:     "abc",
			searches: []string{""},
			want:     "abc",
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Substitute(tt.text, current, next, tt.searches)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestUnifiedDiff(t *testing.T) {
	lines, err := UnifiedDiff("f.txt", "a\nb\nc", "a\nB\nc")
	require.NoError(t, err)
	assert.Equal(t, []string{"--- f.txt", "+++", "@@ -2 +2 @@", "-b", "+B"}, lines)

	lines, err = UnifiedDiff("f.txt", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = UnifiedDiff("f.txt", "x  \n", "y  \n")
	require.NoError(t, err)
	assert.Equal(t, []string{"--- f.txt", "+++", "@@ -1 +1 @@", "-x", "+y"}, lines)
}

func TestCount(t *testing.T) {
	dir := dummyRepo(t)
	n, err := Count(filepath.Join(dir, "README.md"), "{current_version}", semver("0.1.0"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = Count(filepath.Join(dir, "nope"), "{current_version}", semver("0.1.0"))
	assert.Error(t, err)
}
