// Package augment builds the supplementary system context sent alongside a user query.
package augment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zhouzirui/misinfo-check/backend/internal/service/search"
)

// DefaultResultLimit is the number of search results requested per query.
const DefaultResultLimit = 5

// Augmentor produces search and clock context strings.
type Augmentor struct {
	searcher search.Searcher
	limit    int
	now      func() time.Time
}

// Option customises an Augmentor.
type Option func(*Augmentor)

// WithResultLimit overrides DefaultResultLimit.
func WithResultLimit(limit int) Option {
	return func(a *Augmentor) {
		if limit > 0 {
			a.limit = limit
		}
	}
}

// WithClock replaces the local wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *Augmentor) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Augmentor backed by searcher.
func New(searcher search.Searcher, opts ...Option) *Augmentor {
	a := &Augmentor{
		searcher: searcher,
		limit:    DefaultResultLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SearchContext searches for query and wraps the hits in a [start]...[end] block.
// Search failures are returned as-is.
func (a *Augmentor) SearchContext(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", search.ErrEmptyQuery
	}

	results, err := a.searcher.Search(ctx, query, a.limit)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	return FormatSearchResults(query, results), nil
}

// FormatSearchResults renders results; an empty slice still yields the wrapper.
func FormatSearchResults(query string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The search results for '%s' are:\n[start]\n", query)
	for _, r := range results {
		fmt.Fprintf(&b, "Title: %s\nDescription: %s\n\n", r.Title, r.Description)
	}
	b.WriteString("[end]")
	return b.String()
}

// TimeContext describes the current local time.
func (a *Augmentor) TimeContext() string {
	return FormatTime(a.now())
}

// FormatTime renders t in the host's local zone.
func FormatTime(t time.Time) string {
	t = t.Local()

	var b strings.Builder
	b.WriteString("Use This Real Time Information if needed: \n")
	fmt.Fprintf(&b, "Day: %s\n", t.Format("Monday"))
	fmt.Fprintf(&b, "Date: %s\n", t.Format("02"))
	fmt.Fprintf(&b, "Month: %s\n", t.Format("January"))
	fmt.Fprintf(&b, "Year: %s\n", t.Format("2006"))
	fmt.Fprintf(&b, "Time: %s hours, %s minutes, %s seconds.\n", t.Format("15"), t.Format("04"), t.Format("05"))
	return b.String()
}
