// Package changelog inserts a rendered release section into a changelog
// document. The document's structure is located through literal heading
// anchors, never parsed as markdown.
package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAnchorNotFound means the document has neither an "Unreleased" heading
// nor an existing "Version" heading at the configured level. The editor
// never silently no-ops, so this is fatal.
var ErrAnchorNotFound = errors.New("changelog anchor not found")

// Insert returns doc with a new dated release section for version.
//
// If doc contains "<level> Unreleased", that heading is replaced by the
// dated heading plus fragment, consuming the unreleased slot. Otherwise the
// new section is spliced in immediately before the first "<level> Version"
// heading, keeping sections in reverse-chronological order. Exactly one
// substitution occurs.
func Insert(doc, level, version, fragment string, date time.Time) (string, error) {
	heading := fmt.Sprintf("%s Version %s (%s)", level, version, date.Format("2006-01-02"))

	unreleased := level + " Unreleased"
	if strings.Contains(doc, unreleased) {
		return strings.Replace(doc, unreleased, heading+"\n\n"+fragment, 1), nil
	}

	anchor := level + " Version"
	if strings.Contains(doc, anchor) {
		return strings.Replace(doc, anchor, heading+"\n\n"+fragment+"\n\n"+anchor, 1), nil
	}

	return "", fmt.Errorf("%w: no %q or %q heading", ErrAnchorNotFound, unreleased, anchor)
}
