package git

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jimdowning-cyclops/bumper/internal/version"
)

// ErrNotRepository is returned by Open outside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// CommitInfo holds the raw commit data from git log.
type CommitInfo struct {
	Hash    string
	Subject string
	Body    string
}

// Repo runs git commands in a working directory.
type Repo struct {
	Dir string
}

// Open returns a Repo for dir, which must be inside a git work tree.
func Open(dir string) (*Repo, error) {
	r := &Repo{Dir: dir}
	if _, err := r.run("rev-parse", "--git-dir"); err != nil {
		return nil, errors.Mark(errors.Newf("%s is not inside a git repository", dir), ErrNotRepository)
	}
	return r, nil
}

// run executes git with args and returns its standard output. Standard error
// is folded into the returned error.
func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", errors.Wrapf(err, "git %s", args[0])
		}
		return "", errors.Wrapf(err, "git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// Add stages the given paths.
func (r *Repo) Add(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := r.run(append([]string{"add", "--"}, paths...)...)
	return err
}

// Commit records the staged changes with message.
func (r *Repo) Commit(message string) error {
	_, err := r.run("commit", "-m", message)
	return err
}

// Tag creates an annotated tag on HEAD. It fails if the tag already exists.
func (r *Repo) Tag(name, message string) error {
	exists, err := r.TagExists(name)
	if err != nil {
		return err
	}
	if exists {
		return errors.Newf("tag %s already exists", name)
	}
	_, err = r.run("tag", "-a", name, "-m", message)
	return err
}

// TagExists reports whether a tag with the given name exists.
func (r *Repo) TagExists(name string) (bool, error) {
	out, err := r.run("tag", "-l", name)
	if err != nil {
		return false, errors.Wrap(err, "failed to list tags")
	}
	return strings.TrimSpace(out) == name, nil
}

// FindLastTag finds the highest version tag of the form {prefix}{version}.
// Tags whose remainder does not parse under scheme are ignored.
// If no tag is found, returns an empty name and the zero version.
func (r *Repo) FindLastTag(prefix string, scheme version.Scheme) (string, version.Version, error) {
	out, err := r.run("tag", "-l", prefix+"*")
	if err != nil {
		return "", version.Version{}, errors.Wrap(err, "failed to list tags")
	}

	var bestTag string
	var best version.Version
	for _, tag := range strings.Split(strings.TrimSpace(out), "\n") {
		if tag == "" {
			continue
		}
		v, err := version.Parse(strings.TrimPrefix(tag, prefix), scheme)
		if err != nil {
			continue // Skip tags with suffixes or foreign formats
		}
		if bestTag == "" || v.Compare(best) > 0 {
			bestTag, best = tag, v
		}
	}

	return bestTag, best, nil
}

// CommitsSince returns all commits since the given tag (or all commits if tag
// is empty), newest first.
func (r *Repo) CommitsSince(tag string) ([]CommitInfo, error) {
	if !r.hasCommits() {
		return nil, nil
	}

	// Separators that won't appear in commit messages
	const sep = "---COMMIT-SEP---"
	const fieldSep = "---FIELD-SEP---"
	format := "--format=%H" + fieldSep + "%s" + fieldSep + "%b" + sep

	args := []string{"log", format}
	if tag != "" {
		args = []string{"log", tag + "..HEAD", format}
	}

	out, err := r.run(args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get git log")
	}
	return parseCommits(out, sep, fieldSep), nil
}

func (r *Repo) hasCommits() bool {
	_, err := r.run("rev-parse", "HEAD")
	return err == nil
}

// parseCommits parses git log output written with custom separators.
func parseCommits(output, commitSep, fieldSep string) []CommitInfo {
	var commits []CommitInfo
	for _, raw := range strings.Split(output, commitSep) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.SplitN(raw, fieldSep, 3)
		if len(parts) < 2 {
			continue
		}

		c := CommitInfo{
			Hash:    strings.TrimSpace(parts[0]),
			Subject: strings.TrimSpace(parts[1]),
		}
		if len(parts) > 2 {
			c.Body = strings.TrimSpace(parts[2])
		}
		commits = append(commits, c)
	}
	return commits
}
