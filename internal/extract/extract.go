// Package extract pulls readable article text out of a web page. It backs the
// optional client-side URL fallback used when the backend cannot fetch pages
// itself.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// minTextLength guards against boilerplate-only extractions.
const minTextLength = 100

// Article is the extracted page content.
type Article struct {
	Title string
	Text  string
}

// Extractor fetches pages over HTTP and runs readability extraction on them.
type Extractor struct {
	client *http.Client
}

// New creates an extractor. A zero timeout falls back to 15 seconds.
func New(timeout time.Duration) *Extractor {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Extract fetches pageURL and returns its readable article content.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "sanity/1.0 (news analysis)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching page: %s", http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page body: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), parsed)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minTextLength {
		return nil, fmt.Errorf("no extractable article content at %s", parsed.Host)
	}

	return &Article{Title: article.Title, Text: text}, nil
}
