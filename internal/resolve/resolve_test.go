package resolve

import (
	"errors"
	"testing"
)

func TestResolveBump(t *testing.T) {
	p, err := Resolve("1.2.3", "refs/heads/release-1.3.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Old.String() != "1.2.3" || p.New.String() != "1.3.0" {
		t.Fatalf("unexpected pair: %s -> %s", p.Old, p.New)
	}
}

func TestResolveShortRef(t *testing.T) {
	p, err := Resolve("0.9.0", "release-1.0.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.New.String() != "1.0.0" {
		t.Fatalf("expected 1.0.0, got %s", p.New)
	}
}

func TestResolveNoReleaseNeeded(t *testing.T) {
	_, err := Resolve("2.0.0", "refs/heads/release-2.0.0")
	if !errors.Is(err, ErrNoReleaseNeeded) {
		t.Fatalf("expected ErrNoReleaseNeeded, got %v", err)
	}
}

func TestResolveRejectsMalformedTargets(t *testing.T) {
	cases := []string{
		"release-1.2",
		"release-1.2.3.4",
		"release-1.2.x",
		"release-v1.2.3",
		"release-1.2.3-rc1",
		"release-1.2.3+build",
		"release-",
		"release",
		"release-.1.2",
	}
	for _, ref := range cases {
		if _, err := Resolve("0.1.0", ref); !errors.Is(err, ErrInvalidVersion) {
			t.Errorf("ref %q: expected ErrInvalidVersion, got %v", ref, err)
		}
	}
}

func TestResolveRejectsBadManifestVersion(t *testing.T) {
	if _, err := Resolve("not-a-version", "release-1.0.0"); !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestMajorMinor(t *testing.T) {
	p, err := Resolve("1.2.3", "release-1.3.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := MajorMinor(p.New); got != "1.3" {
		t.Fatalf("expected 1.3, got %s", got)
	}
	if got := MajorMinor(p.Old); got != "1.2" {
		t.Fatalf("expected 1.2, got %s", got)
	}
}
