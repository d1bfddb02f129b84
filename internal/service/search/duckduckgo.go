package search

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/net/html"
)

const duckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the keyless HTML endpoint.
type DuckDuckGo struct {
	baseURL string
	fetcher fetcher
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo(opts Options) *DuckDuckGo {
	base := opts.BaseURL
	if base == "" {
		base = duckDuckGoURL
	}
	return &DuckDuckGo{baseURL: base, fetcher: newFetcher(opts)}
}

// Search implements Searcher.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	doc, err := d.fetcher.fetch(ctx, d.baseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return parseDuckDuckGo(doc, limit)
}

// isDuckDuckGoContainer matches the result list, a single result or the empty-results notice.
func isDuckDuckGoContainer(n *html.Node) bool {
	return attrValue(n, "id") == "links" || hasClass(n, "results") || hasClass(n, "result") || hasClass(n, "no-results")
}

func parseDuckDuckGo(doc *html.Node, limit int) ([]Result, error) {
	if findFirst(doc, isDuckDuckGoContainer) == nil {
		return nil, fmt.Errorf("%w: no duckduckgo result container", ErrMalformedPage)
	}

	var results []Result
	walk(doc, func(n *html.Node) bool {
		if len(results) >= limit {
			return false
		}
		if n.Data != "div" || !hasClass(n, "result") {
			return true
		}
		// Sponsored blocks carry the result--ad modifier.
		if hasClass(n, "result--ad") {
			return false
		}

		link := findFirst(n, func(c *html.Node) bool { return c.Data == "a" && hasClass(c, "result__a") })
		if link == nil {
			return false
		}
		snippet := findFirst(n, func(c *html.Node) bool { return hasClass(c, "result__snippet") })

		results = append(results, Result{
			Title:       textContent(link),
			Description: textContent(snippet),
			URL:         unwrapDuckDuckGoURL(attrValue(link, "href")),
		})
		return false
	})
	return results, nil
}

// unwrapDuckDuckGoURL resolves //duckduckgo.com/l/?uddg=<target> redirects.
func unwrapDuckDuckGoURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
