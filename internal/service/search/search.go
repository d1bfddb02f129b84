// Package search scrapes web search result pages into title/description pairs.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrEmptyQuery is returned before any network call when the query is blank.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrUnexpectedStatus wraps non-200 replies from the search provider.
	ErrUnexpectedStatus = errors.New("unexpected search response status")
	// ErrMalformedPage is returned when the result page cannot be parsed.
	ErrMalformedPage = errors.New("malformed search result page")
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxPageBytes     = 1 << 20
)

// Result is one search hit.
type Result struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// Searcher returns up to limit results for query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Options tunes a scraping client.
type Options struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// New returns the searcher for engine ("duckduckgo" or "google").
func New(engine string, opts Options) (Searcher, error) {
	switch strings.ToLower(engine) {
	case "", "duckduckgo":
		return NewDuckDuckGo(opts), nil
	case "google":
		return NewGoogle(opts), nil
	default:
		return nil, fmt.Errorf("unsupported search engine %q", engine)
	}
}

type fetcher struct {
	userAgent string
	client    *http.Client
}

func newFetcher(opts Options) fetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return fetcher{userAgent: ua, client: client}
}

func (f fetcher) fetch(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	return doc, nil
}

// walk visits n and its descendants depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, field := range strings.Fields(attr.Val) {
			if field == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// textContent joins the text nodes under n with single spaces.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}
