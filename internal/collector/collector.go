package collector

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/fetcher"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// LinkCollector discovers recipe page links on a base page. Collection is
// single-level: discovered pages are never recursed into.
type LinkCollector struct {
	fetcher  fetcher.Fetcher
	keywords []string
	sameHost bool
	logger   *slog.Logger
}

// New creates a LinkCollector using the crawl configuration's keyword set.
func New(f fetcher.Fetcher, cfg *config.CrawlConfig, logger *slog.Logger) *LinkCollector {
	keywords := make([]string, len(cfg.LinkKeywords))
	for i, kw := range cfg.LinkKeywords {
		keywords[i] = strings.ToLower(kw)
	}
	return &LinkCollector{
		fetcher:  f,
		keywords: keywords,
		sameHost: cfg.SameHostOnly,
		logger:   logger.With("component", "link_collector"),
	}
}

// Collect fetches baseURL and returns up to maxLinks recipe-like links in
// first-seen order. A fetch failure here is fatal to the run: without the base
// page there is nothing to process.
func (c *LinkCollector) Collect(ctx context.Context, baseURL string, maxLinks int) ([]types.RecipeLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &types.FetchError{URL: baseURL, Err: types.ErrInvalidURL}
	}

	page, err := c.fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := page.Document()
	if err != nil {
		return nil, &types.ParseError{URL: baseURL, Err: err}
	}

	seen := make(map[string]bool)
	var links []types.RecipeLink

	doc.Find("a[href]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, exists := sel.Attr("href")
		if !exists {
			return true
		}

		href = strings.TrimSpace(href)
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "data:") {
			return true
		}

		parsedHref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(parsedHref)

		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		resolved.Fragment = ""

		if c.sameHost && resolved.Hostname() != base.Hostname() {
			return true
		}
		if !c.matches(resolved, sel.Text()) {
			return true
		}

		absURL := resolved.String()
		if seen[absURL] {
			return true
		}
		seen[absURL] = true
		links = append(links, types.RecipeLink(absURL))

		return len(links) < maxLinks
	})

	c.logger.Info("link collection complete",
		"base_url", baseURL,
		"links", len(links),
		"max_links", maxLinks,
	)

	return links, nil
}

// matches reports whether the resolved URL path or the visible anchor text
// contains any of the configured recipe keywords.
func (c *LinkCollector) matches(u *url.URL, anchorText string) bool {
	path := strings.ToLower(u.Path)
	text := strings.ToLower(strings.TrimSpace(anchorText))
	for _, kw := range c.keywords {
		if strings.Contains(path, kw) || (text != "" && strings.Contains(text, kw)) {
			return true
		}
	}
	return false
}
