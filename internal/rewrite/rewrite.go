// Package rewrite applies ordered find/replace rules to file text. It is
// purely textual: no file format is parsed, a rule matching nothing is not
// an error, and every built-in rule set is idempotent so the pipeline can
// be re-run against an already-updated tree.
package rewrite

import "regexp"

// Rule pairs a pattern with a literal replacement. Replacements never use
// capture references; caller tokens are quoted into the pattern.
type Rule struct {
	re   *regexp.Regexp
	repl string
}

// Apply runs each rule over text in list order, replacing every occurrence,
// and returns the result. Zero matches leaves text unchanged.
func Apply(text string, rules []Rule) string {
	for _, r := range rules {
		text = r.re.ReplaceAllLiteralString(text, r.repl)
	}
	return text
}
