package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/fetcher"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeFetcher serves canned HTML per URL.
type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error) {
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &types.FetchError{URL: rawURL, StatusCode: 404, Err: fmt.Errorf("HTTP 404")}
	}
	return &fetcher.Page{URL: rawURL, FinalURL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) Close() error { return nil }

func newCollector(f fetcher.Fetcher) *LinkCollector {
	cfg := config.DefaultConfig()
	return New(f, &cfg.Crawl, testLogger)
}

func TestCollectFiltersAndResolves(t *testing.T) {
	html := `<html><body>
		<a href="/recipes/carbonara">Carbonara</a>
		<a href="https://example.com/recipes/lasagna">Lasagna</a>
		<a href="/about">About us</a>
		<a href="/contact">Contact</a>
		<a href="mailto:chef@example.com">Mail</a>
		<a href="#top">Top</a>
	</body></html>`

	f := &fakeFetcher{pages: map[string]string{"https://example.com": html}}
	links, err := newCollector(f).Collect(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}

	want := []string{
		"https://example.com/recipes/carbonara",
		"https://example.com/recipes/lasagna",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %v", len(want), len(links), links)
	}
	for i, w := range want {
		if links[i].String() != w {
			t.Errorf("link %d: expected %q, got %q", i, w, links[i])
		}
	}
}

func TestCollectMaxLinksCap(t *testing.T) {
	var body string
	for i := 0; i < 8; i++ {
		body += fmt.Sprintf(`<a href="/recipes/dish-%d">Dish %d</a>`, i, i)
	}
	f := &fakeFetcher{pages: map[string]string{"https://example.com": "<html><body>" + body + "</body></html>"}}

	// 8 qualifying anchors, maxLinks 3 -> exactly 3, first-seen order
	links, err := newCollector(f).Collect(context.Background(), "https://example.com", 3)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for i, link := range links {
		want := fmt.Sprintf("https://example.com/recipes/dish-%d", i)
		if link.String() != want {
			t.Errorf("link %d: expected %q, got %q", i, want, link)
		}
	}

	// maxLinks above N -> all 8
	links, err = newCollector(f).Collect(context.Background(), "https://example.com", 20)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 8 {
		t.Errorf("expected 8 links, got %d", len(links))
	}
}

func TestCollectDeduplicates(t *testing.T) {
	html := `<html><body>
		<a href="/recipes/carbonara">First</a>
		<a href="/recipes/carbonara">Duplicate</a>
		<a href="/recipes/carbonara#reviews">Fragment duplicate</a>
		<a href="/recipes/amatriciana">Second</a>
	</body></html>`

	f := &fakeFetcher{pages: map[string]string{"https://example.com": html}}
	links, err := newCollector(f).Collect(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 unique links, got %d: %v", len(links), links)
	}
	if links[0].String() != "https://example.com/recipes/carbonara" {
		t.Errorf("expected first-seen order preserved, got %q first", links[0])
	}
}

func TestCollectSameHostOnly(t *testing.T) {
	html := `<html><body>
		<a href="/recipes/local">Local</a>
		<a href="https://other.example.org/recipes/remote">Remote</a>
	</body></html>`

	f := &fakeFetcher{pages: map[string]string{"https://example.com": html}}

	links, err := newCollector(f).Collect(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 1 || links[0].String() != "https://example.com/recipes/local" {
		t.Fatalf("expected only the same-host link, got %v", links)
	}

	cfg := config.DefaultConfig()
	cfg.Crawl.SameHostOnly = false
	links, err = New(f, &cfg.Crawl, testLogger).Collect(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected both links with same_host_only off, got %v", links)
	}
}

func TestCollectAnchorTextMatch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Crawl.LinkKeywords = []string{"recipe"}

	html := `<html><body>
		<a href="/r/123">Carbonara recipe</a>
		<a href="/r/456">Privacy policy</a>
	</body></html>`

	f := &fakeFetcher{pages: map[string]string{"https://example.com": html}}
	links, err := New(f, &cfg.Crawl, testLogger).Collect(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if len(links) != 1 || links[0].String() != "https://example.com/r/123" {
		t.Fatalf("expected the anchor-text match only, got %v", links)
	}
}

func TestCollectBaseFetchError(t *testing.T) {
	f := &fakeFetcher{
		errs: map[string]error{
			"https://example.com": &types.FetchError{URL: "https://example.com", Err: fmt.Errorf("connection refused")},
		},
	}

	_, err := newCollector(f).Collect(context.Background(), "https://example.com", 10)
	if err == nil {
		t.Fatal("expected error for unreachable base URL")
	}
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *types.FetchError, got %T: %v", err, err)
	}
}
