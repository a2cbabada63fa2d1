package version

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Scheme is the versioning type declared by a project.
type Scheme int

const (
	SemVer Scheme = iota
	CalVer
)

var schemeNames = map[Scheme]string{
	SemVer: "semver",
	CalVer: "calver",
}

// ParseScheme parses "semver" or "calver" (case-insensitive).
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "semver":
		return SemVer, nil
	case "calver":
		return CalVer, nil
	default:
		return 0, errors.Newf("unknown versioning type %q (expected semver or calver)", s)
	}
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Set implements pflag.Value.
func (s *Scheme) Set(value string) error {
	parsed, err := ParseScheme(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Scheme) Type() string {
	return "semver|calver"
}

// Kind is the version component to bump.
type Kind int

const (
	Major Kind = iota
	Minor
	Patch
	Date
)

var kindNames = map[Kind]string{
	Major: "major",
	Minor: "minor",
	Patch: "patch",
	Date:  "date",
}

// ParseKind parses one of "major", "minor", "patch" or "date".
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return k, nil
		}
	}
	return 0, errors.Newf("unknown bump kind %q (expected major, minor, patch or date)", s)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns the bump kinds allowed for a scheme, in display order.
func Kinds(scheme Scheme) []Kind {
	if scheme == CalVer {
		return []Kind{Date}
	}
	return []Kind{Major, Minor, Patch}
}

// AllKinds returns every bump kind, in display order.
func AllKinds() []Kind {
	return []Kind{Major, Minor, Patch, Date}
}

// CheckKind reports whether kind may be used to bump a project versioned
// with scheme. The returned error matches ErrKindMismatch.
func CheckKind(scheme Scheme, kind Kind) error {
	switch scheme {
	case SemVer:
		if kind == Date {
			return errors.Mark(errors.New("SemVer projects must bump by major, minor, or patch"), ErrKindMismatch)
		}
	case CalVer:
		if kind != Date {
			return errors.Mark(errors.New("CalVer projects must bump by date"), ErrKindMismatch)
		}
	default:
		return errors.Newf("unknown versioning type %d", int(scheme))
	}
	return nil
}
