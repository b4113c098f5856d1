// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.TransportMode != "stdio" {
		t.Errorf("Expected default transport 'stdio', got '%s'", cfg.Server.TransportMode)
	}
	if cfg.AI.MaxToolIterations != 8 {
		t.Errorf("Expected default max tool iterations 8, got %d", cfg.AI.MaxToolIterations)
	}
	if cfg.AI.MaxTokens != 1000 {
		t.Errorf("Expected default max tokens 1000, got %d", cfg.AI.MaxTokens)
	}
	if cfg.Weather.NWSBaseURL != "https://api.weather.gov" {
		t.Errorf("Unexpected NWS base URL: %s", cfg.Weather.NWSBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("WEATHERBOT_AI_PROVIDER", "anthropic")
	t.Setenv("WEATHERBOT_AI_MODEL", "claude-3-haiku-20240307")
	t.Setenv("WEATHERBOT_PORT", "9090")

	cfg := DefaultConfig()
	FromEnv(cfg)

	if cfg.AI.GroqAPIKey != "gsk-test" {
		t.Errorf("Expected Groq key from env, got '%s'", cfg.AI.GroqAPIKey)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("Expected provider 'anthropic', got '%s'", cfg.AI.Provider)
	}
	if cfg.AI.Model != "claude-3-haiku-20240307" {
		t.Errorf("Expected model override, got '%s'", cfg.AI.Model)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("WEATHERBOT_PORT", "not-a-number")

	cfg := DefaultConfig()
	FromEnv(cfg)

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port to survive bad env value, got %d", cfg.Server.Port)
	}
}

func TestValidateMissingAPIKeyIsAccepted(t *testing.T) {
	// Key absence is not a startup error; it surfaces on first request.
	cfg := DefaultConfig()
	cfg.AI.GroqAPIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected config without API keys to validate, got: %v", err)
	}
}

func TestValidateRejectsBadTransport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.TransportMode = "websocket"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported transport mode")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.TransportMode = "sse"
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid port with sse transport")
	}
}

func TestValidateRejectsZeroIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.MaxToolIterations = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero max tool iterations")
	}
}
