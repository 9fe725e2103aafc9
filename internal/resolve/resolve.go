// Package resolve decides whether a release is needed by comparing the
// version carried by a release ref against the version currently recorded
// in the package manifest.
package resolve

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned when a target version does not match the
// strict major.minor.patch form. Pre-release and build suffixes are rejected.
var ErrInvalidVersion = errors.New("invalid version format")

// ErrNoReleaseNeeded signals that the ref carries the version already in the
// manifest. It is a normal early-exit condition, not a failure.
var ErrNoReleaseNeeded = errors.New("no release needed")

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Pair holds the manifest version and the version the release ref asks for.
type Pair struct {
	Old *semver.Version
	New *semver.Version
}

// Resolve extracts the target version from ref (everything after the first
// "-" in the short ref name), validates it, and compares it against current.
// A ref like "refs/heads/release-1.3.0" or "release-1.3.0" targets 1.3.0.
func Resolve(current, ref string) (Pair, error) {
	short := strings.TrimPrefix(ref, "refs/heads/")
	_, target, found := strings.Cut(short, "-")
	if !found {
		return Pair{}, fmt.Errorf("%w: ref %q has no version suffix", ErrInvalidVersion, ref)
	}
	if !versionPattern.MatchString(target) {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidVersion, target)
	}
	newV, err := semver.StrictNewVersion(target)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, target, err)
	}

	oldV, err := semver.StrictNewVersion(current)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: manifest version %q: %v", ErrInvalidVersion, current, err)
	}

	if oldV.Equal(newV) {
		return Pair{}, fmt.Errorf("%w: already at %s", ErrNoReleaseNeeded, current)
	}
	return Pair{Old: oldV, New: newV}, nil
}

// MajorMinor returns the first two components of v, the loose-pin projection
// used by README version references and documentation URLs.
func MajorMinor(v *semver.Version) string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}
