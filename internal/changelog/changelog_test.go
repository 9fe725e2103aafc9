package changelog

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var day = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

const withUnreleased = `# Changelog

## Unreleased

## Version 1.2.3 (2026-01-15)

* [#40](https://example.com/pull/40): Old change
`

const withoutUnreleased = `# Changelog

## Version 1.2.3 (2026-01-15)

* [#40](https://example.com/pull/40): Old change
`

func TestInsertReplacesUnreleased(t *testing.T) {
	fragment := "* [#42](https://example.com/pull/42): Fix bug"
	got, err := Insert(withUnreleased, "##", "1.3.0", fragment, day)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if strings.Contains(got, "Unreleased") {
		t.Fatalf("Unreleased marker should be consumed:\n%s", got)
	}
	want := "## Version 1.3.0 (2026-08-30)\n\n" + fragment
	if !strings.Contains(got, want) {
		t.Fatalf("expected dated section %q in:\n%s", want, got)
	}
	// The older section is untouched.
	if !strings.Contains(got, "## Version 1.2.3 (2026-01-15)") {
		t.Fatalf("existing section lost:\n%s", got)
	}
}

func TestInsertBeforeFirstVersionSection(t *testing.T) {
	fragment := "* [#42](https://example.com/pull/42): Fix bug"
	got, err := Insert(withoutUnreleased, "##", "1.3.0", fragment, day)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	newIdx := strings.Index(got, "## Version 1.3.0")
	oldIdx := strings.Index(got, "## Version 1.2.3")
	if newIdx == -1 || oldIdx == -1 {
		t.Fatalf("missing section:\n%s", got)
	}
	if newIdx > oldIdx {
		t.Fatalf("new section must precede the old one:\n%s", got)
	}
}

func TestInsertTwiceKeepsReverseChronologicalOrder(t *testing.T) {
	first, err := Insert(withoutUnreleased, "##", "1.3.0", "* [#42](u): a", day)
	if err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	second, err := Insert(first, "##", "1.4.0", "* [#50](u): b", day.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("second Insert: %v", err)
	}
	i14 := strings.Index(second, "## Version 1.4.0")
	i13 := strings.Index(second, "## Version 1.3.0")
	i12 := strings.Index(second, "## Version 1.2.3")
	if !(i14 < i13 && i13 < i12) {
		t.Fatalf("sections out of order (%d, %d, %d):\n%s", i14, i13, i12, second)
	}
}

func TestInsertCustomHeadingLevel(t *testing.T) {
	doc := "# Changelog\n\n### Unreleased\n\n### Version 0.1.0 (2025-01-01)\n"
	got, err := Insert(doc, "###", "0.2.0", "", day)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !strings.Contains(got, "### Version 0.2.0 (2026-08-30)") {
		t.Fatalf("missing level-3 heading:\n%s", got)
	}
}

func TestInsertEmptyFragment(t *testing.T) {
	got, err := Insert(withUnreleased, "##", "1.3.0", "", day)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !strings.Contains(got, "## Version 1.3.0 (2026-08-30)") {
		t.Fatalf("missing heading:\n%s", got)
	}
}

func TestInsertAnchorMissingIsFatal(t *testing.T) {
	_, err := Insert("# Changelog\n\nnothing here\n", "##", "1.3.0", "x", day)
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("expected ErrAnchorNotFound, got %v", err)
	}
}
