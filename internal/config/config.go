// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the weather bridge.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Weather WeatherConfig
	Logging LoggingConfig
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name          string
	Version       string
	Address       string
	Port          int
	TransportMode string // "stdio", "sse" or "web"
}

// AIConfig holds LLM provider settings.
type AIConfig struct {
	// Provider selects the backend: "openai", "anthropic", "groq" or "llama".
	Provider string

	// Model is the model ID sent to the provider. Empty selects a
	// per-provider default.
	Model string

	MaxTokens         int
	MaxToolIterations int
	RequestTimeout    time.Duration

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GroqAPIKey      string
	LlamaAPIKey     string

	// BaseURL overrides the OpenAI endpoint for OpenAI-compatible servers
	// (Ollama, vLLM, LiteLLM).
	BaseURL string

	// GroqEndpoint and LlamaEndpoint are the chat-completion URLs for the
	// raw-HTTP providers.
	GroqEndpoint  string
	LlamaEndpoint string
}

// WeatherConfig holds settings for the upstream weather services.
type WeatherConfig struct {
	NWSBaseURL       string
	OpenMeteoBaseURL string
	NominatimBaseURL string
	UserAgent        string

	// NWSTimeout bounds calls to the NWS API; FallbackTimeout bounds the
	// Open-Meteo and Nominatim calls.
	NWSTimeout      time.Duration
	FallbackTimeout time.Duration

	// CacheSize is the number of NWS point lookups kept in the LRU cache.
	CacheSize int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string
	FilePath string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:          "weather",
			Version:       "1.0.0",
			Address:       "localhost",
			Port:          8080,
			TransportMode: "stdio",
		},
		AI: AIConfig{
			Provider:          "groq",
			MaxTokens:         1000,
			MaxToolIterations: 8,
			RequestTimeout:    60 * time.Second,
			GroqEndpoint:      "https://api.groq.com/openai/v1/chat/completions",
			LlamaEndpoint:     "https://api.together.xyz/v1/chat/completions",
		},
		Weather: WeatherConfig{
			NWSBaseURL:       "https://api.weather.gov",
			OpenMeteoBaseURL: "https://api.open-meteo.com",
			NominatimBaseURL: "https://nominatim.openstreetmap.org",
			UserAgent:        "weather-app/1.0",
			NWSTimeout:       30 * time.Second,
			FallbackTimeout:  10 * time.Second,
			CacheSize:        128,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FromEnv overrides configuration values from environment variables.
//
// API keys are read but deliberately not validated here; a missing key
// surfaces as an authorization failure on the first provider request.
func FromEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.AnthropicAPIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.AI.GroqAPIKey = v
	}
	if v := os.Getenv("LLAMA_API_KEY"); v != "" {
		cfg.AI.LlamaAPIKey = v
	}
	if v := os.Getenv("WEATHERBOT_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("WEATHERBOT_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("WEATHERBOT_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("WEATHERBOT_TRANSPORT"); v != "" {
		cfg.Server.TransportMode = v
	}
	if v := os.Getenv("WEATHERBOT_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("WEATHERBOT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WEATHERBOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WEATHERBOT_LOG_FILE"); v != "" {
		cfg.Logging.FilePath = v
	}
}

// Validate checks the configuration for values that would prevent startup.
func (c *Config) Validate() error {
	switch c.Server.TransportMode {
	case "stdio", "sse", "web":
	default:
		return fmt.Errorf("unsupported transport mode: %s", c.Server.TransportMode)
	}
	if c.Server.TransportMode != "stdio" && c.Server.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.AI.MaxToolIterations <= 0 {
		return fmt.Errorf("max tool iterations must be positive, got %d", c.AI.MaxToolIterations)
	}
	if c.Weather.CacheSize <= 0 {
		return fmt.Errorf("weather cache size must be positive, got %d", c.Weather.CacheSize)
	}
	return nil
}
