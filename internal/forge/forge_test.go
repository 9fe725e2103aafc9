package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
)

// newTestClient points a Client at a local httptest server.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	gh.BaseURL = base
	return &Client{gh: gh, owner: "acme", repo: "mycrate"}
}

func TestListReleasesFollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/mycrate/releases", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			fmt.Fprint(w, `[{"tag_name":"1.3.0","published_at":"2026-05-01T00:00:00Z"}]`)
		case "2":
			fmt.Fprint(w, `[{"tag_name":"1.2.3","published_at":"2026-03-01T12:00:00Z"}]`)
		default:
			http.Error(w, "unexpected page", http.StatusBadRequest)
		}
	})

	c := newTestClient(t, mux)
	releases, err := c.ListReleases(context.Background())
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases across pages, got %d", len(releases))
	}
	if releases[1].Tag != "1.2.3" {
		t.Fatalf("expected second page release, got %+v", releases[1])
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !releases[1].PublishedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, releases[1].PublishedAt)
	}
}

func TestMergedAfterDrainsAllPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			fmt.Fprint(w, `{"total_count":2,"items":[
				{"number":42,"title":"Fix bug","html_url":"https://example.com/pull/42",
				 "created_at":"2026-04-01T00:00:00Z",
				 "pull_request":{"url":"https://api.example.com/pulls/42","merged_at":"2026-04-02T00:00:00Z"}}
			]}`)
		case "2":
			fmt.Fprint(w, `{"total_count":2,"items":[
				{"number":43,"title":"Add feature","html_url":"https://example.com/pull/43",
				 "created_at":"2026-04-03T00:00:00Z",
				 "pull_request":{"url":"https://api.example.com/pulls/43","merged_at":"2026-04-04T00:00:00Z"}}
			]}`)
		default:
			http.Error(w, "unexpected page", http.StatusBadRequest)
		}
	})

	c := newTestClient(t, mux)
	it := c.MergedAfter(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	var numbers []int
	for {
		pr, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		numbers = append(numbers, pr.Number)
	}
	if len(numbers) != 2 || numbers[0] != 42 || numbers[1] != 43 {
		t.Fatalf("expected [42 43], got %v", numbers)
	}
}

func TestMergedAfterQueryUsesEpochForZeroCutoff(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"total_count":0,"items":[]}`)
	})

	c := newTestClient(t, mux)
	it := c.MergedAfter(context.Background(), time.Time{})
	if _, ok, err := it.Next(); err != nil || ok {
		t.Fatalf("expected empty result, got ok=%v err=%v", ok, err)
	}
	want := "repo:acme/mycrate is:pr is:merged merged:>1970-01-01T00:00:00Z"
	if gotQuery != want {
		t.Fatalf("expected query %q, got %q", want, gotQuery)
	}
}

func TestCreatePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/mycrate/pulls", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "expected POST", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":99,"html_url":"https://example.com/pull/99"}`)
	})

	c := newTestClient(t, mux)
	url, err := c.CreatePullRequest(context.Background(), "release-1.3.0", "main", "Release 1.3.0", "body")
	if err != nil {
		t.Fatalf("CreatePullRequest: %v", err)
	}
	if url != "https://example.com/pull/99" {
		t.Fatalf("unexpected url: %q", url)
	}
}
