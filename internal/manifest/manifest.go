// Package manifest extracts package metadata from a manifest file. The scan
// is line-oriented, matching the rewrite engine's textual contract: only the
// top-level package block is consulted, sub-package sections are ignored.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMetadataMissing is returned when the package block does not carry both
// a name and a version.
var ErrMetadataMissing = errors.New("manifest metadata missing")

// Package identifies the package being released.
type Package struct {
	Name    string
	Version string
}

var (
	sectionLine = regexp.MustCompile(`^\[([^\]]+)\]\s*$`)
	nameLine    = regexp.MustCompile(`^name\s*=\s*"([^"]+)"`)
	versionLine = regexp.MustCompile(`^version\s*=\s*"([^"]+)"`)
)

// Parse scans text for the [package] section's name and version lines.
// Lines in any other section never contribute, so dependency pins with
// their own version keys are safe.
func Parse(text string) (Package, error) {
	var pkg Package
	section := ""

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := sectionLine.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		if section != "package" {
			continue
		}
		if m := nameLine.FindStringSubmatch(line); m != nil && pkg.Name == "" {
			pkg.Name = m[1]
		}
		if m := versionLine.FindStringSubmatch(line); m != nil && pkg.Version == "" {
			pkg.Version = m[1]
		}
	}
	if err := sc.Err(); err != nil {
		return Package{}, fmt.Errorf("scan manifest: %w", err)
	}

	if pkg.Name == "" || pkg.Version == "" {
		return Package{}, fmt.Errorf("%w: name=%q version=%q", ErrMetadataMissing, pkg.Name, pkg.Version)
	}
	return pkg, nil
}
