package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a single page over HTTP. Implementations must classify
// failures as *types.FetchError so callers can apply skip/abort policy.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	Fetch(ctx context.Context, rawURL string) (*Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Page is the result of fetching a URL.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// Body is the raw (decompressed) response body.
	Body []byte

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// doc is the parsed goquery document, lazily initialized.
	doc *goquery.Document
}

// Document returns a parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}
