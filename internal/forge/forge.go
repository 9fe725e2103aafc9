// Package forge talks to the GitHub API on behalf of the pipeline: listing
// releases, searching merged pull requests, and opening the release pull
// request. It implements the collaborator interfaces declared by the notes
// and pipeline packages.
package forge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/relcut/relcut/internal/notes"
)

// Client is a repository-bound GitHub API client.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// NewClient returns a Client for owner/repo. token may be empty for
// anonymous access, which is enough for public read-only queries but not
// for opening pull requests.
func NewClient(token, owner, repo string) *Client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{gh: gh, owner: owner, repo: repo}
}

// ListReleases returns all releases of the bound repository, following
// pagination until exhausted.
func (c *Client) ListReleases(ctx context.Context) ([]notes.Release, error) {
	var out []notes.Release
	opt := &github.ListOptions{PerPage: 100}
	for {
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, c.owner, c.repo, opt)
		if err != nil {
			return nil, fmt.Errorf("list releases for %s/%s: %w", c.owner, c.repo, err)
		}
		for _, r := range releases {
			out = append(out, notes.Release{
				Tag:         r.GetTagName(),
				PublishedAt: r.GetPublishedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return out, nil
}

// MergedAfter returns a lazy iterator over pull requests merged strictly
// after cutoff, in ascending creation order. Pages are fetched on demand so
// large histories are never held eagerly.
func (c *Client) MergedAfter(ctx context.Context, cutoff time.Time) notes.PullIterator {
	if cutoff.IsZero() {
		cutoff = time.Unix(0, 0).UTC()
	}
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged merged:>%s",
		c.owner, c.repo, cutoff.UTC().Format("2006-01-02T15:04:05Z"))
	return &searchIterator{
		ctx:    ctx,
		client: c.gh,
		query:  query,
		page:   1,
	}
}

// CreatePullRequest opens a pull request from head into base and returns
// its URL.
func (c *Client) CreatePullRequest(ctx context.Context, head, base, title, body string) (string, error) {
	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return "", fmt.Errorf("create pull request %s -> %s: %w", head, base, err)
	}
	return pr.GetHTMLURL(), nil
}

// searchIterator walks the issue-search results page by page. It is not
// restartable; the collector drains it exactly once.
type searchIterator struct {
	ctx    context.Context
	client *github.Client
	query  string

	page int
	buf  []notes.PullRequest
	done bool
}

func (it *searchIterator) Next() (notes.PullRequest, bool, error) {
	for len(it.buf) == 0 {
		if it.done {
			return notes.PullRequest{}, false, nil
		}
		if err := it.fetch(); err != nil {
			return notes.PullRequest{}, false, err
		}
	}
	pr := it.buf[0]
	it.buf = it.buf[1:]
	return pr, true, nil
}

func (it *searchIterator) fetch() error {
	opt := &github.SearchOptions{
		Sort:        "created",
		Order:       "asc",
		ListOptions: github.ListOptions{Page: it.page, PerPage: 100},
	}
	result, resp, err := it.client.Search.Issues(it.ctx, it.query, opt)
	if err != nil {
		return fmt.Errorf("search merged pull requests: %w", err)
	}
	for _, issue := range result.Issues {
		if !issue.IsPullRequest() {
			continue
		}
		merged := issue.GetClosedAt().Time
		if links := issue.GetPullRequestLinks(); links != nil && links.MergedAt != nil {
			merged = links.MergedAt.Time
		}
		it.buf = append(it.buf, notes.PullRequest{
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			URL:       issue.GetHTMLURL(),
			CreatedAt: issue.GetCreatedAt().Time,
			MergedAt:  merged,
		})
	}
	if resp.NextPage == 0 {
		it.done = true
	} else {
		it.page = resp.NextPage
	}
	return nil
}
