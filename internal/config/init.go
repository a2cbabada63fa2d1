package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jimdowning-cyclops/bumper/internal/version"
)

const starterTOML = `[tool.bumper]
current_version = "%s"
versioning_type = "%s"

[[tool.bumper.files]]
file = "./pyproject.toml"
search = 'version = "{current_version}"'
`

const starterYAML = `tool:
  bumper:
    current_version: "%s"
    versioning_type: %s
    files:
      - file: ./pyproject.toml
        search: 'version = "{current_version}"'
`

// Starter returns the content of a starter configuration file. CalVer
// projects start at micro 0 of today's month.
func Starter(scheme version.Scheme, format Format, today time.Time) string {
	initial := version.New(version.SemVer, 0, 1, 0)
	if scheme == version.CalVer {
		initial = version.New(version.CalVer, today.Year(), int(today.Month()), 0)
	}

	tmpl := starterTOML
	if format == YAML {
		tmpl = starterYAML
	}
	return fmt.Sprintf(tmpl, initial, scheme)
}

// WriteDefault writes a starter configuration into dir and returns its path.
// An existing file is only replaced when overwrite is set.
func WriteDefault(dir string, scheme version.Scheme, format Format, overwrite bool, today time.Time) (string, error) {
	path := filepath.Join(dir, format.FileName())

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", errors.Mark(
				errors.Newf("configuration file already exists: '%s'", format.FileName()), ErrExists)
		}
	}

	if err := os.WriteFile(path, []byte(Starter(scheme, format, today)), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}
