package rewrite

import (
	"fmt"
	"regexp"
)

// versionToken matches a loose or full version pin inside a quoted string
// or URL segment, e.g. "1.2" or "1.2.3".
const versionToken = `\d+\.\d+(?:\.\d+)?`

// ReadmeRules rewrites documentation-host URLs and manifest-style pins in a
// README to the major.minor projection of the new version. majorMinor is
// the "X.Y" form of the target version.
func ReadmeRules(name, majorMinor string) []Rule {
	q := regexp.QuoteMeta(name)
	return []Rule{
		{
			re:   regexp.MustCompile(`/` + q + `/` + versionToken + `/`),
			repl: fmt.Sprintf("/%s/%s/", name, majorMinor),
		},
		{
			re:   regexp.MustCompile(q + ` = "` + versionToken + `"`),
			repl: fmt.Sprintf("%s = %q", name, majorMinor),
		},
		{
			re:   regexp.MustCompile(q + ` = \{ version = "` + versionToken + `"`),
			repl: fmt.Sprintf(`%s = { version = %q`, name, majorMinor),
		},
	}
}

// RootURLRules rewrites the canonical documentation URL in the library root
// file. The match is exact: only URLs carrying oldVersion change.
func RootURLRules(name, oldVersion, newVersion string) []Rule {
	return []Rule{
		{
			re:   regexp.MustCompile(regexp.QuoteMeta(name + "/" + oldVersion)),
			repl: name + "/" + newVersion,
		},
	}
}

// ManifestRules bumps the package manifest's version line. Exact match
// only, so sub-package pins with other versions are untouched.
func ManifestRules(oldVersion, newVersion string) []Rule {
	return []Rule{
		{
			re:   regexp.MustCompile(regexp.QuoteMeta(fmt.Sprintf("version = %q", oldVersion))),
			repl: fmt.Sprintf("version = %q", newVersion),
		},
	}
}
