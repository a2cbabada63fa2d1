package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/jimdowning-cyclops/bumper/internal/matcher"
	"github.com/jimdowning-cyclops/bumper/internal/rules"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

var (
	// ErrNotFound is returned when no configuration file exists.
	ErrNotFound = errors.New("configuration file not found")

	// ErrInvalid is returned when a configuration file is malformed or
	// misses required fields.
	ErrInvalid = errors.New("invalid configuration")

	// ErrExists is returned by WriteDefault when it would overwrite a file.
	ErrExists = errors.New("configuration file already exists")
)

// SearchOrder lists the file names Locate looks for, highest priority first.
var SearchOrder = []string{".bumper.toml", ".bumper.yml", ".bumper.yaml", "pyproject.toml"}

// Config is a validated bumper configuration.
type Config struct {
	Path           string // Empty when parsed from a string
	Format         Format
	CurrentVersion version.Version
	Scheme         version.Scheme
	Rules          []rules.FileRule

	raw string
}

// document mirrors the on-disk layout, which nests everything under
// [tool.bumper] so it can live inside pyproject.toml.
type document struct {
	Tool *toolTable `toml:"tool" yaml:"tool"`
}

type toolTable struct {
	Bumper *settings `toml:"bumper" yaml:"bumper"`
}

type settings struct {
	CurrentVersion *string      `toml:"current_version" yaml:"current_version"`
	VersioningType *string      `toml:"versioning_type" yaml:"versioning_type"`
	Files          *[]fileEntry `toml:"files" yaml:"files"`
}

type fileEntry struct {
	File   *string `toml:"file" yaml:"file"`
	Search *string `toml:"search" yaml:"search"`
}

// Locate returns the path of the highest-priority configuration file in dir.
func Locate(dir string) (string, error) {
	for _, name := range SearchOrder {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.Mark(errors.New("configuration file could not be located"), ErrNotFound)
}

// LoadFromDir locates and loads the configuration file in dir.
func LoadFromDir(dir string) (*Config, error) {
	path, err := Locate(dir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads, parses and validates the configuration file at path. Glob
// patterns in rule paths are expanded and relative paths are resolved
// against the directory holding the configuration file.
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Newf("configuration file does not exist: '%s'", path), ErrNotFound)
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg, err := Parse(string(data), format)
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	dir := filepath.Dir(path)
	expanded, err := matcher.NewMatcher(dir).Expand(cfg.Rules)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalid)
	}
	cfg.Rules = lo.Map(expanded, func(r rules.FileRule, _ int) rules.FileRule {
		if !filepath.IsAbs(r.File) {
			r.File = filepath.Join(dir, r.File)
		}
		return r
	})

	return cfg, nil
}

// Parse parses configuration content in the given format. Rule paths are
// returned as written.
func Parse(content string, format Format) (*Config, error) {
	var doc document
	var err error
	switch format {
	case TOML:
		err = toml.Unmarshal([]byte(content), &doc)
	case YAML:
		err = yaml.Unmarshal([]byte(content), &doc)
	default:
		err = errors.Newf("unsupported format %s", format)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse config"), ErrInvalid)
	}

	if err := doc.validate(); err != nil {
		return nil, errors.Mark(err, ErrInvalid)
	}
	s := doc.Tool.Bumper

	scheme, err := version.ParseScheme(*s.VersioningType)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalid)
	}
	current, err := version.Parse(*s.CurrentVersion, scheme)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid current_version"), ErrInvalid)
	}

	return &Config{
		Format:         format,
		CurrentVersion: current,
		Scheme:         scheme,
		Rules: lo.Map(*s.Files, func(f fileEntry, _ int) rules.FileRule {
			return rules.FileRule{File: *f.File, Search: *f.Search}
		}),
		raw: content,
	}, nil
}

// validate checks that every required field is present.
func (d *document) validate() error {
	if d.Tool == nil {
		return errors.New("configuration file does not declare any tools")
	}
	s := d.Tool.Bumper
	if s == nil {
		return errors.New("configuration does not declare any bumper configuration")
	}
	if s.CurrentVersion == nil {
		return errors.New("bumper tool declaration missing required field: 'current_version'")
	}
	if s.VersioningType == nil {
		return errors.New("bumper tool declaration missing required field: 'versioning_type'")
	}
	if s.Files == nil {
		return errors.New("configuration does not declare any file replacements")
	}

	for i, f := range *s.Files {
		if f.File == nil {
			return errors.Newf("file replacement declaration missing required field: 'file' (entry %d)", i+1)
		}
		if f.Search == nil {
			return errors.Newf("file replacement declaration missing required field: 'search' (entry %d)", i+1)
		}
		if strings.TrimSpace(*f.File) == "" {
			return errors.Newf("file replacement declaration has an empty 'file' (entry %d)", i+1)
		}
		if *f.Search == "" {
			return errors.Newf("file replacement declaration has an empty 'search' (entry %d)", i+1)
		}
	}

	return nil
}

// selfTemplates are the spellings of the current_version field a config file
// may use, most common first.
var selfTemplates = map[Format][]string{
	TOML: {
		`current_version = "{current_version}"`,
		`current_version = '{current_version}'`,
		`current_version="{current_version}"`,
		`current_version='{current_version}'`,
	},
	YAML: {
		`current_version: "{current_version}"`,
		`current_version: '{current_version}'`,
		`current_version: {current_version}`,
	},
}

// AllRules returns the configured rules followed by SelfRule in a new slice.
func (c *Config) AllRules() []rules.FileRule {
	return slices.Concat(c.Rules, []rules.FileRule{c.SelfRule()})
}

// SelfRule returns the rule that keeps current_version in the configuration
// file itself in sync with the bump. The template follows the quoting used
// in the file.
func (c *Config) SelfRule() rules.FileRule {
	candidates := selfTemplates[c.Format]
	for _, tmpl := range candidates {
		if strings.Contains(c.raw, rules.Render(tmpl, c.CurrentVersion)) {
			return rules.FileRule{File: c.Path, Search: tmpl}
		}
	}
	return rules.FileRule{File: c.Path, Search: candidates[0]}
}

// Lint returns warnings about rules that are valid but probably mistaken.
func (c *Config) Lint() []string {
	var warnings []string
	for _, r := range c.Rules {
		if !rules.HasPlaceholder(r.Search) {
			warnings = append(warnings,
				"search template for "+r.File+" does not contain "+rules.Placeholder+" and will never change: "+r.Search)
		}
	}
	return warnings
}
