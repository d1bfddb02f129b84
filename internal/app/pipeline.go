// Package app assembles the check pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zhouzirui/misinfo-check/backend/internal/config"
	"github.com/zhouzirui/misinfo-check/backend/internal/service/ai"
	"github.com/zhouzirui/misinfo-check/backend/internal/service/augment"
	"github.com/zhouzirui/misinfo-check/backend/internal/service/check"
	"github.com/zhouzirui/misinfo-check/backend/internal/service/search"
)

// Pipeline holds the wired services behind a check.
type Pipeline struct {
	Augmentor *augment.Augmentor
	AI        *ai.Service
	Check     *check.Service
}

// NewAugmentor builds the search and clock context provider.
func NewAugmentor(cfg config.SearchConfig) (*augment.Augmentor, error) {
	searcher, err := search.New(cfg.Engine, search.Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return augment.New(searcher, augment.WithResultLimit(cfg.MaxResults)), nil
}

// NewPipeline wires search, completion and classification. recorder may be nil.
func NewPipeline(ctx context.Context, cfg *config.Config, recorder check.Recorder, logger *slog.Logger) (*Pipeline, error) {
	augmentor, err := NewAugmentor(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("init search: %w", err)
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	aiSvc, err := ai.NewService(ctx, chatModel, augmentor, ai.Params{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		TopP:        cfg.AI.TopP,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.UpstreamTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init completion service: %w", err)
	}

	return &Pipeline{
		Augmentor: augmentor,
		AI:        aiSvc,
		Check:     check.NewService(aiSvc, recorder, logger),
	}, nil
}
