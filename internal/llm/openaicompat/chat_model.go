// Package openaicompat adapts OpenAI-compatible chat completion APIs (Groq by default)
// to eino's chat model interface.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when the upstream replies without any completion choice.
var ErrNoChoices = errors.New("completion response has no choices")

// Config describes an OpenAI-compatible endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// ChatModel implements model.BaseChatModel on top of go-openai.
type ChatModel struct {
	client *openai.Client
	cfg    Config
}

// NewChatModel builds a ChatModel. An empty API key is accepted and fails upstream.
func NewChatModel(cfg Config) (*ChatModel, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &ChatModel{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Generate sends a single non-streaming completion request.
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	req, err := m.buildRequest(input, opts...)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

// Stream is served from a single Generate call; partial output is never emitted.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) buildRequest(input []*schema.Message, opts ...model.Option) (openai.ChatCompletionRequest, error) {
	modelName := m.cfg.Model
	temperature := m.cfg.Temperature
	topP := m.cfg.TopP
	maxTokens := m.cfg.MaxTokens

	options := model.GetCommonOptions(&model.Options{
		Model:       &modelName,
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   &maxTokens,
	}, opts...)

	messages := make([]openai.ChatCompletionMessage, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		role, err := convertRole(msg.Role)
		if err != nil {
			return openai.ChatCompletionRequest{}, err
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	req := openai.ChatCompletionRequest{
		Messages: messages,
		Stream:   false,
	}
	if options.Model != nil {
		req.Model = *options.Model
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.TopP != nil {
		req.TopP = *options.TopP
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}
	if len(options.Stop) > 0 {
		req.Stop = options.Stop
	}
	return req, nil
}

func convertRole(role schema.RoleType) (string, error) {
	switch role {
	case schema.System:
		return openai.ChatMessageRoleSystem, nil
	case schema.User:
		return openai.ChatMessageRoleUser, nil
	case schema.Assistant:
		return openai.ChatMessageRoleAssistant, nil
	default:
		return "", fmt.Errorf("unsupported message role %q", role)
	}
}
