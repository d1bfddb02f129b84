// Package check turns a user query into a verified/neutral verdict.
package check

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/misinfo-check/backend/internal/analysis/hedge"
	"github.com/zhouzirui/misinfo-check/backend/internal/model/verdict"
)

// Completer answers a query with cleaned model text.
type Completer interface {
	Complete(ctx context.Context, userQuery string) (string, error)
}

// Recorder observes check outcomes.
type Recorder interface {
	ObserveVerdict(status string, elapsed time.Duration)
	ObserveFailure(kind string, elapsed time.Duration)
}

// Result is a finished check.
type Result struct {
	ID      string
	Verdict verdict.Verdict
}

// Service runs checks. It holds no per-request state.
type Service struct {
	completer Completer
	recorder  Recorder
	logger    *slog.Logger
}

// NewService creates a check service. recorder may be nil.
func NewService(completer Completer, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer: completer,
		recorder:  recorder,
		logger:    logger.With("component", "check"),
	}
}

// Check completes text and labels the answer. Failures are returned as *Error.
func (s *Service) Check(ctx context.Context, text string) (Result, error) {
	id := uuid.NewString()
	start := time.Now()

	if text == "" {
		return Result{ID: id}, s.fail(ctx, id, start, &Error{Kind: KindValidation, Op: "validate", Err: ErrNoText})
	}

	answer, err := s.completer.Complete(ctx, text)
	if err != nil {
		return Result{ID: id}, s.fail(ctx, id, start, &Error{Kind: classify(err), Op: "complete", Err: err})
	}

	decision := hedge.Analyze(answer)
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveVerdict(string(decision.Status), elapsed)
	}
	s.logger.InfoContext(ctx, "check completed",
		"check_id", id,
		"status", decision.Status,
		"hedge", decision.Phrase,
		"elapsed", elapsed,
	)

	return Result{
		ID:      id,
		Verdict: verdict.Verdict{Status: decision.Status, Message: answer},
	}, nil
}

func (s *Service) fail(ctx context.Context, id string, start time.Time, err *Error) error {
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveFailure(string(err.Kind), elapsed)
	}
	level := slog.LevelError
	if err.Kind == KindValidation {
		level = slog.LevelInfo
	}
	s.logger.Log(ctx, level, "check failed", "check_id", id, "kind", err.Kind, "error", err.Err)
	return err
}
