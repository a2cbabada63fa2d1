package version

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidVersion is returned when a version string cannot be parsed
	// under the requested scheme.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrKindMismatch is returned when a bump kind is not allowed for a
	// project's versioning scheme.
	ErrKindMismatch = errors.New("bump kind does not match versioning type")
)

// Version is a three component version. Under SemVer the components are
// major.minor.patch, under CalVer they are year.month.micro.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Scheme Scheme

	// text is the declared string form of a parsed version. Computed
	// versions leave it empty and are formatted from their components.
	text string

	// narrowMonth formats CalVer months without zero padding.
	narrowMonth bool

	// prefix is a leading "v" declared on a SemVer version.
	prefix string
}

// New returns a version built from its components.
func New(scheme Scheme, major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Scheme: scheme}
}

// Parse parses a version string under the given scheme.
//
// SemVer strings follow semver 2.0 with an optional "v" prefix and may omit the
// patch component ("1.0"). Pre-release and build metadata are not supported.
// CalVer strings are YEAR.MONTH[.MICRO] with a month between 1 and 12.
//
// The declared text is kept as the string form of the returned version so
// that search templates rendered with it match the files verbatim.
func Parse(s string, scheme Scheme) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, errors.Mark(errors.New("empty version string"), ErrInvalidVersion)
	}

	switch scheme {
	case SemVer:
		return parseSemVer(s)
	case CalVer:
		return parseCalVer(s)
	default:
		return Version{}, errors.Newf("unknown versioning type %d", int(scheme))
	}
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string, scheme Scheme) Version {
	v, err := Parse(s, scheme)
	if err != nil {
		panic(err)
	}
	return v
}

func parseSemVer(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if len(parts) < 2 {
		return Version{}, errors.Mark(
			errors.Newf("invalid semver %q (expected MAJOR.MINOR.PATCH)", s), ErrInvalidVersion)
	}

	sv, err := semver.ParseTolerant(s)
	if err != nil {
		return Version{}, errors.Mark(errors.Wrapf(err, "invalid semver %q", s), ErrInvalidVersion)
	}
	if len(sv.Pre) > 0 || len(sv.Build) > 0 {
		return Version{}, errors.Mark(
			errors.Newf("invalid semver %q: pre-release and build metadata are not supported", s),
			ErrInvalidVersion)
	}
	if sv.Major > math.MaxInt || sv.Minor > math.MaxInt || sv.Patch > math.MaxInt {
		return Version{}, errors.Mark(
			errors.Newf("invalid semver %q: component out of range", s), ErrInvalidVersion)
	}

	v := Version{
		Major:  int(sv.Major),
		Minor:  int(sv.Minor),
		Patch:  int(sv.Patch),
		Scheme: SemVer,
		text:   s,
	}
	if strings.HasPrefix(s, "v") {
		v.prefix = "v"
	}
	return v, nil
}

func parseCalVer(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, errors.Mark(
			errors.Newf("invalid calver %q (expected YEAR.MONTH.MICRO)", s), ErrInvalidVersion)
	}

	names := []string{"year", "month", "micro"}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := parseComponent(p)
		if err != nil {
			return Version{}, errors.Mark(
				errors.Newf("invalid calver %q: invalid %s %q", s, names[i], p), ErrInvalidVersion)
		}
		nums[i] = n
	}

	if nums[1] < 1 || nums[1] > 12 {
		return Version{}, errors.Mark(
			errors.Newf("invalid calver %q: month %d out of range", s, nums[1]), ErrInvalidVersion)
	}

	return Version{
		Major:       nums[0],
		Minor:       nums[1],
		Patch:       nums[2],
		Scheme:      CalVer,
		text:        s,
		narrowMonth: len(parts[1]) == 1,
	}, nil
}

// parseComponent accepts only plain decimal digits, so signs and blanks are
// rejected even though strconv would take them.
func parseComponent(p string) (int, error) {
	if p == "" {
		return 0, errors.New("empty component")
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, errors.Newf("non-numeric component %q", p)
		}
	}
	return strconv.Atoi(p)
}

// String returns the version in its declared form, or formatted from its
// components when it was computed.
func (v Version) String() string {
	if v.text != "" {
		return v.text
	}
	if v.Scheme == CalVer && !v.narrowMonth {
		return fmt.Sprintf("%d.%02d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%s%d.%d.%d", v.prefix, v.Major, v.Minor, v.Patch)
}

// Plain returns the version without a declared "v" prefix, for use where the
// caller supplies its own prefix such as a git tag.
func (v Version) Plain() string {
	return strings.TrimPrefix(v.String(), v.prefix)
}

// Compare compares the component triples lexicographically and returns -1, 0
// or +1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Bump returns the version that follows v for the given kind. The result keeps
// the declared style of v: a "v" prefix and an unpadded CalVer month.
//
// SemVer kinds increment one component and reset the lower ones. Date keeps
// year and month when today falls in the same month and increments micro;
// otherwise it moves to today's year and month with micro 0.
//
// The kind is expected to have been checked against the scheme with
// CheckKind. today is passed in rather than read so results are reproducible.
func (v Version) Bump(kind Kind, today time.Time) Version {
	next := Version{Scheme: v.Scheme, narrowMonth: v.narrowMonth, prefix: v.prefix}

	switch kind {
	case Major:
		next.Major = v.Major + 1
	case Minor:
		next.Major, next.Minor = v.Major, v.Minor+1
	case Patch:
		next.Major, next.Minor, next.Patch = v.Major, v.Minor, v.Patch+1
	case Date:
		if today.Year() == v.Major && int(today.Month()) == v.Minor {
			next.Major, next.Minor, next.Patch = v.Major, v.Minor, v.Patch+1
		} else {
			next.Major, next.Minor = today.Year(), int(today.Month())
		}
	default:
		next.Major, next.Minor, next.Patch = v.Major, v.Minor, v.Patch
	}

	return next
}
