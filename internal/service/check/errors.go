package check

import (
	"errors"
	"fmt"

	"github.com/zhouzirui/misinfo-check/backend/internal/service/ai"
	"github.com/zhouzirui/misinfo-check/backend/internal/service/search"
)

// Kind is the closed set of failure classes a check can end in.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamMalformed   Kind = "upstream_malformed"
)

// ErrNoText is returned for a missing or empty query.
var ErrNoText = errors.New("no text provided")

// Error carries the kind of a failed check alongside its cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Errors that never crossed the check boundary
// are treated as upstream unavailability.
func KindOf(err error) Kind {
	var checkErr *Error
	if errors.As(err, &checkErr) {
		return checkErr.Kind
	}
	return KindUpstreamUnavailable
}

// classify assigns a kind to a completion failure.
func classify(err error) Kind {
	switch {
	case errors.Is(err, ErrNoText), errors.Is(err, search.ErrEmptyQuery):
		return KindValidation
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, search.ErrMalformedPage):
		return KindUpstreamMalformed
	default:
		return KindUpstreamUnavailable
	}
}
