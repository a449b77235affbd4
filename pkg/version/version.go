// Package version resolves the next release version from a baseline and a
// bump kind, and maps versions to tag names.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sgaunet/auto-release/pkg/platform"
	"golang.org/x/text/cases"
)

// BumpKind selects the semantic-version component to increment.
type BumpKind string

// Supported bump kinds.
const (
	Major BumpKind = "major"
	Minor BumpKind = "minor"
	Patch BumpKind = "patch"
)

// Kinds lists the accepted bump kinds in significance order.
var Kinds = []BumpKind{Major, Minor, Patch}

var (
	errInvalidBumpKind = errors.New("invalid bump kind")
	errInvalidVersion  = errors.New("invalid version")

	// ErrInvalidBumpKind is returned for anything but major, minor, or patch.
	ErrInvalidBumpKind = errInvalidBumpKind
	// ErrInvalidVersion is returned when a baseline is not a semantic version.
	ErrInvalidVersion = errInvalidVersion
)

var folder = cases.Fold()

// ParseBumpKind validates s case-insensitively.
func ParseBumpKind(s string) (BumpKind, error) {
	folded := folder.String(strings.TrimSpace(s))
	for _, k := range Kinds {
		if folded == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q is not valid, must be one of the following: major, minor, patch",
		platform.ErrValidation, errInvalidBumpKind, s)
}

// Resolve returns current incremented by kind, serialized as major.minor.patch.
// Pre-release and build metadata are dropped by the increment.
func Resolve(current string, kind BumpKind) (string, error) {
	if _, err := ParseBumpKind(string(kind)); err != nil {
		return "", err
	}

	v, err := Parse(current)
	if err != nil {
		return "", err
	}

	var next semver.Version
	switch kind {
	case Major:
		next = v.IncMajor()
	case Minor:
		next = v.IncMinor()
	case Patch:
		next = v.IncPatch()
	}
	return next.String(), nil
}

// Parse parses a semantic version, tolerating a leading "v".
func Parse(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q: %w", platform.ErrValidation, errInvalidVersion, s, err)
	}
	return v, nil
}

// TagName returns the tag for version, e.g. "v1.2.4".
func TagName(prefix, version string) string {
	return prefix + version
}

// FromTag extracts the version from a tag name carrying prefix.
// Returns false for tags that are not release tags.
func FromTag(prefix, name string) (string, bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	raw := strings.TrimPrefix(name, prefix)
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return "", false
	}
	return v.String(), true
}

// Equal reports whether two version strings denote the same version.
func Equal(a, b string) bool {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return va.Equal(vb)
}
