package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DeepSeekConfig configures the outbound chat-completion calls. The DeepSeek
// endpoint speaks the OpenAI wire protocol, so BaseURL can point at any
// compatible server. An empty APIKey disables the gateway entirely and every
// chat answer comes from the local fallback responder.
type DeepSeekConfig struct {
	APIKey         string  `koanf:"api_key"`
	BaseURL        string  `koanf:"base_url"`
	Model          string  `koanf:"model"`
	MaxTokens      int     `koanf:"max_tokens"`
	Temperature    float64 `koanf:"temperature"`
	TimeoutSeconds int     `koanf:"timeout_seconds"`
}

// EmbeddingConfig selects how the vector index embeds text. With an OpenAI key
// the index is semantically meaningful; with Mock it is filled with
// deterministic pseudo-random vectors (useful for exercising the vector path
// without credentials); with neither, search degrades to keyword scoring.
type EmbeddingConfig struct {
	OpenAIAPIKey string `koanf:"openai_api_key"`
	Mock         bool   `koanf:"mock"`
}

// DiscordConfig configures the optional Discord bridge.
type DiscordConfig struct {
	Token         string `koanf:"token"`
	CommandPrefix string `koanf:"command_prefix"`
}

// ChatConfig holds the rate limit applied to POST /api/chat.
type ChatConfig struct {
	RatePerSecond float64 `koanf:"rate_per_second"`
	RateBurst     int     `koanf:"rate_burst"`
}

// Config is the full application configuration.
type Config struct {
	Port      string          `koanf:"port"`
	Env       string          `koanf:"env"`
	DeepSeek  DeepSeekConfig  `koanf:"deepseek"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Discord   DiscordConfig   `koanf:"discord"`
	Chat      ChatConfig      `koanf:"chat"`
}

// envKeys maps the process environment onto config paths. Anything not listed
// here is ignored.
var envKeys = map[string]string{
	"PORT":                   "port",
	"APP_ENV":                "env",
	"DEEPSEEK_API_KEY":       "deepseek.api_key",
	"DEEPSEEK_API_URL":       "deepseek.base_url",
	"DEEPSEEK_MODEL":         "deepseek.model",
	"DEEPSEEK_MAX_TOKENS":    "deepseek.max_tokens",
	"DEEPSEEK_TIMEOUT":       "deepseek.timeout_seconds",
	"OPENAI_API_KEY":         "embedding.openai_api_key",
	"EMBEDDING_MOCK":         "embedding.mock",
	"DISCORD_BOT_TOKEN":      "discord.token",
	"DISCORD_COMMAND_PREFIX": "discord.command_prefix",
	"CHAT_RATE_PER_SECOND":   "chat.rate_per_second",
	"CHAT_RATE_BURST":        "chat.rate_burst",
}

// Load builds the configuration from defaults overridden by the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"port":                     "3001",
		"env":                      "development",
		"deepseek.base_url":        "https://api.deepseek.com/v1",
		"deepseek.model":           "deepseek-chat",
		"deepseek.max_tokens":      1000,
		"deepseek.temperature":     0.7,
		"deepseek.timeout_seconds": 30,
		"discord.command_prefix":   "!parts ",
		"chat.rate_per_second":     5.0,
		"chat.rate_burst":          10,
	}, "."), nil)

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
