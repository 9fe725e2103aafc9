// Package notes collects the merged pull requests that belong in the next
// release and renders them into a changelog fragment.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrCollectorUnavailable wraps any failure to list releases or pull
// requests from the remote. A partial changelog is never produced.
var ErrCollectorUnavailable = errors.New("release note collector unavailable")

// Release is a published release as reported by the hosting service.
type Release struct {
	Tag         string
	PublishedAt time.Time
}

// PullRequest is an immutable snapshot of a merged pull request.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	CreatedAt time.Time
	MergedAt  time.Time
}

// ReleaseLister reports the repository's releases, newest first or oldest
// first; order does not matter for cutoff resolution.
type ReleaseLister interface {
	ListReleases(ctx context.Context) ([]Release, error)
}

// PullIterator yields merged pull requests one at a time, fetching further
// pages lazily. ok is false once the sequence is exhausted.
type PullIterator interface {
	Next() (pr PullRequest, ok bool, err error)
}

// PullSource produces an iterator over pull requests merged strictly after
// the cutoff.
type PullSource interface {
	MergedAfter(ctx context.Context, cutoff time.Time) PullIterator
}

// Collector resolves the release cutoff and gathers the pull requests that
// land in the next release's notes.
type Collector struct {
	Releases ReleaseLister
	Pulls    PullSource
}

// Cutoff returns the publish time of the release tagged with oldVersion.
// A missing tag is not an error: the zero time is returned so that a first
// release includes all history. Tags may carry a leading "v".
func (c Collector) Cutoff(ctx context.Context, oldVersion string) (time.Time, error) {
	releases, err := c.Releases.ListReleases(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: list releases: %v", ErrCollectorUnavailable, err)
	}
	for _, r := range releases {
		if r.Tag == oldVersion || r.Tag == "v"+oldVersion {
			return r.PublishedAt, nil
		}
	}
	return time.Time{}, nil
}

// Collect drains the pull source and returns the records sorted ascending
// by creation time. The sort is stable so ties keep discovery order.
func (c Collector) Collect(ctx context.Context, cutoff time.Time) ([]PullRequest, error) {
	it := c.Pulls.MergedAfter(ctx, cutoff)

	var prs []PullRequest
	for {
		pr, ok, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCollectorUnavailable, err)
		}
		if !ok {
			break
		}
		prs = append(prs, pr)
	}

	sort.SliceStable(prs, func(i, j int) bool {
		return prs[i].CreatedAt.Before(prs[j].CreatedAt)
	})
	return prs, nil
}

// Render formats the pull requests as changelog lines, one per record.
// An empty slice renders to the empty string; a release with no recorded
// pull requests is valid.
func Render(prs []PullRequest) string {
	lines := make([]string, 0, len(prs))
	for _, pr := range prs {
		lines = append(lines, fmt.Sprintf("* [#%d](%s): %s", pr.Number, pr.URL, pr.Title))
	}
	return strings.Join(lines, "\n")
}
