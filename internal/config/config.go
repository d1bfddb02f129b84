package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/hashicorp/go-multierror"

	"github.com/zhouzirui/misinfo-check/backend/internal/llm/openaicompat"
)

// Provider 表示补全服务的提供方。
type Provider string

const (
	ProviderGroq Provider = "groq"
	ProviderArk  Provider = "ark"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultModel       = "llama3-70b-8192"
	defaultTemperature = 0.7
	defaultTopP        = 1.0
	defaultMaxTokens   = 2048
	defaultChatLogPath = "Data/ChatLog.json"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Search SearchConfig
	Store  StoreConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。所有非法取值会被一并返回。
func Load() (*Config, error) {
	var result *multierror.Error

	server, err := loadServerConfig()
	if err != nil {
		result = multierror.Append(result, err)
	}

	ai, err := loadAIConfig()
	if err != nil {
		result = multierror.Append(result, err)
	}

	search, err := loadSearchConfig()
	if err != nil {
		result = multierror.Append(result, err)
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Search: search,
		Store:  StoreConfig{ChatLogPath: getEnvOrDefault("CHAT_LOG_PATH", defaultChatLogPath)},
		Log:    logCfg,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider        Provider
	APIKey          string
	BaseURL         string
	Model           string
	ArkAPIKey       string
	ArkAccessKey    string
	ArkSecretKey    string
	ArkBaseURL      string
	ArkRegion       string
	Temperature     float32
	TopP            float32
	MaxTokens       int
	UpstreamTimeout time.Duration
}

// NewChatModel 使用配置创建一个模型实例。
// 这里不校验 API Key，缺失时会在第一次补全调用时失败。
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	switch c.Provider {
	case ProviderGroq:
		chatModel, err := openaicompat.NewChatModel(openaicompat.Config{
			APIKey:      c.APIKey,
			BaseURL:     c.BaseURL,
			Model:       c.Model,
			Temperature: c.Temperature,
			TopP:        c.TopP,
			MaxTokens:   c.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	case ProviderArk:
		temperature := c.Temperature
		topP := c.TopP
		maxTokens := c.MaxTokens
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     c.ArkBaseURL,
			Region:      c.ArkRegion,
			APIKey:      c.ArkAPIKey,
			AccessKey:   c.ArkAccessKey,
			SecretKey:   c.ArkSecretKey,
			Model:       c.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			TopP:        &topP,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", c.Provider)
	}
}

func loadAIConfig() (AIConfig, error) {
	var result *multierror.Error

	provider := Provider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(ProviderGroq))))
	if provider != ProviderGroq && provider != ProviderArk {
		result = multierror.Append(result, fmt.Errorf("invalid LLM_PROVIDER value %q", provider))
	}

	temperature := float32(defaultTemperature)
	if v, err := parseOptionalFloat32Env("LLM_TEMPERATURE"); err != nil {
		result = multierror.Append(result, err)
	} else if v != nil {
		temperature = *v
	}

	topP := float32(defaultTopP)
	if v, err := parseOptionalFloat32Env("LLM_TOP_P"); err != nil {
		result = multierror.Append(result, err)
	} else if v != nil {
		topP = *v
	}

	maxTokens := defaultMaxTokens
	if v, err := parseOptionalIntEnv("LLM_MAX_TOKENS"); err != nil {
		result = multierror.Append(result, err)
	} else if v != nil {
		if *v < 1 {
			result = multierror.Append(result, fmt.Errorf("invalid LLM_MAX_TOKENS value %d: must be positive", *v))
		} else {
			maxTokens = *v
		}
	}

	timeout, err := parseDurationEnv("UPSTREAM_TIMEOUT", 0)
	if err != nil {
		result = multierror.Append(result, err)
	}

	// 兼容旧版 .env 中的 GroqAPIKey 写法。
	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GroqAPIKey"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:        provider,
		APIKey:          apiKey,
		BaseURL:         getEnvOrDefault("GROQ_BASE_URL", defaultGroqBaseURL),
		Model:           getEnvOrDefault("LLM_MODEL", defaultModel),
		ArkAPIKey:       strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:    strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:    strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkBaseURL:      getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:       getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:     temperature,
		TopP:            topP,
		MaxTokens:       maxTokens,
		UpstreamTimeout: timeout,
	}, nil
}

// SearchConfig 描述联网搜索配置。
type SearchConfig struct {
	Engine     string
	MaxResults int
	BaseURL    string
	UserAgent  string
}

func loadSearchConfig() (SearchConfig, error) {
	var result *multierror.Error

	engine := strings.ToLower(getEnvOrDefault("SEARCH_ENGINE", "duckduckgo"))
	if engine != "duckduckgo" && engine != "google" {
		result = multierror.Append(result, fmt.Errorf("invalid SEARCH_ENGINE value %q", engine))
	}

	maxResults := 5
	if v, err := parseOptionalIntEnv("SEARCH_RESULTS"); err != nil {
		result = multierror.Append(result, err)
	} else if v != nil {
		if *v < 1 {
			result = multierror.Append(result, fmt.Errorf("invalid SEARCH_RESULTS value %d: must be positive", *v))
		} else {
			maxResults = *v
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return SearchConfig{}, err
	}

	return SearchConfig{
		Engine:     engine,
		MaxResults: maxResults,
		BaseURL:    strings.TrimSpace(os.Getenv("SEARCH_BASE_URL")),
		UserAgent:  strings.TrimSpace(os.Getenv("SEARCH_USER_AGENT")),
	}, nil
}

// StoreConfig 描述本地对话日志位置。
type StoreConfig struct {
	ChatLogPath string
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level slog.Level
	File  string
}

func loadLogConfig() (LogConfig, error) {
	raw := getEnvOrDefault("LOG_LEVEL", "INFO")
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q: %w", raw, err)
	}
	return LogConfig{Level: level, File: strings.TrimSpace(os.Getenv("LOG_FILE"))}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}
