package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format is the syntax of a configuration file.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value.
func (f *Format) Set(value string) error {
	parsed, err := ParseFormat(value)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "toml|yaml"
}

// ParseFormat parses "toml", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return 0, errors.Newf("unknown config format %q (expected toml or yaml)", s)
	}
}

// FormatFor picks the format from a file name extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yml", ".yaml":
		return YAML, nil
	default:
		return 0, errors.Mark(errors.Newf("unsupported config file type: '%s'", filepath.Base(path)), ErrInvalid)
	}
}

// FileName returns the default configuration file name for the format.
func (f Format) FileName() string {
	if f == YAML {
		return ".bumper.yml"
	}
	return ".bumper.toml"
}
