package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/net/html"
)

const (
	googleURL       = "https://www.google.com/search"
	googleUserAgent = "Lynx/2.8.9rel.1 libwww-FM/2.14 SSL-MM/1.4.1 OpenSSL/1.1.1d"
)

// Google scrapes the basic (non-JavaScript) Google results page.
type Google struct {
	baseURL string
	fetcher fetcher
}

// NewGoogle creates a Google searcher. The basic page is only served to simple user agents,
// so a Lynx agent is used unless one is configured.
func NewGoogle(opts Options) *Google {
	base := opts.BaseURL
	if base == "" {
		base = googleURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = googleUserAgent
	}
	return &Google{baseURL: base, fetcher: newFetcher(opts)}
}

// Search implements Searcher.
func (g *Google) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit+2))
	params.Set("hl", "en")
	params.Set("start", "0")
	params.Set("safe", "active")

	doc, err := g.fetcher.fetch(ctx, g.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseGoogle(doc, limit)
}

func isGoogleContainer(n *html.Node) bool {
	return attrValue(n, "id") == "main" || hasClass(n, "ezO2md")
}

func parseGoogle(doc *html.Node, limit int) ([]Result, error) {
	if findFirst(doc, isGoogleContainer) == nil {
		return nil, fmt.Errorf("%w: no google result container", ErrMalformedPage)
	}

	var results []Result
	walk(doc, func(n *html.Node) bool {
		if len(results) >= limit {
			return false
		}
		if n.Data != "div" || !hasClass(n, "ezO2md") {
			return true
		}

		link := findFirst(n, func(c *html.Node) bool { return c.Data == "a" && attrValue(c, "href") != "" })
		title := findFirst(n, func(c *html.Node) bool { return hasClass(c, "CVA68e") })
		desc := findFirst(n, func(c *html.Node) bool { return hasClass(c, "FrIlee") })
		if link == nil || title == nil || desc == nil {
			return false
		}

		results = append(results, Result{
			Title:       textContent(title),
			Description: textContent(desc),
			URL:         unwrapGoogleURL(attrValue(link, "href")),
		})
		return false
	})
	return results, nil
}

// unwrapGoogleURL resolves /url?q=<target>&... redirects.
func unwrapGoogleURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Path == "/url" {
		if target := u.Query().Get("q"); target != "" {
			return target
		}
	}
	return href
}
