package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/misinfo-check/backend/internal/llm/openaicompat"
)

// ErrMalformedResponse reports a completion without usable text.
var ErrMalformedResponse = errors.New("malformed completion response")

// ContextProvider supplies the search and clock system messages.
type ContextProvider interface {
	SearchContext(ctx context.Context, query string) (string, error)
	TimeContext() string
}

// Params fixes the sampling parameters of every request.
type Params struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	// Timeout bounds search plus completion; zero leaves only the caller's context.
	Timeout time.Duration
}

// Service sends augmented prompts to the completion model.
type Service struct {
	augmentor ContextProvider
	params    Params
	chain     compose.Runnable[map[string]any, *schema.Message]
	logger    *slog.Logger
}

// NewService compiles the prompt chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, augmentor ContextProvider, params Params, logger *slog.Logger) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if augmentor == nil {
		return nil, fmt.Errorf("context provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.SystemMessage("{search}"),
		schema.SystemMessage("{clock}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	return &Service{
		augmentor: augmentor,
		params:    params,
		chain:     runnable,
		logger:    logger.With("component", "ai"),
	}, nil
}

// Complete answers userQuery with fresh search and clock context and returns the cleaned text.
func (s *Service) Complete(ctx context.Context, userQuery string) (string, error) {
	if s.params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.params.Timeout)
		defer cancel()
	}

	searchContext, err := s.augmentor.SearchContext(ctx, userQuery)
	if err != nil {
		return "", fmt.Errorf("build search context: %w", err)
	}

	input := map[string]any{
		"system": SystemInstruction,
		"search": searchContext,
		"clock":  s.augmentor.TimeContext(),
		"query":  userQuery,
	}

	start := time.Now()
	response, err := s.chain.Invoke(ctx, input, compose.WithChatModelOption(s.modelOptions()...))
	if err != nil {
		if errors.Is(err, openaicompat.ErrNoChoices) {
			return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		return "", fmt.Errorf("failed to run completion chain: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("%w: empty message", ErrMalformedResponse)
	}

	answer := Clean(response.Content)
	s.logger.Debug("completion finished", "length", len(answer), "elapsed", time.Since(start))
	return answer, nil
}

func (s *Service) modelOptions() []model.Option {
	opts := []model.Option{
		model.WithTemperature(s.params.Temperature),
		model.WithTopP(s.params.TopP),
		model.WithMaxTokens(s.params.MaxTokens),
	}
	if s.params.Model != "" {
		opts = append(opts, model.WithModel(s.params.Model))
	}
	return opts
}

// Clean strips every end-of-sequence marker and surrounding whitespace.
// Markers are removed until none remain, so Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	for strings.Contains(text, endOfSequence) {
		text = strings.ReplaceAll(text, endOfSequence, "")
	}
	return strings.TrimSpace(text)
}
