package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries process-wide settings and credentials. Loaded once at
// startup; read-only afterwards.
type Config struct {
	AnthropicAPIKey string
	SerpAPIKey      string

	Model         string
	MaxAgentSteps int
	TokenBudget   int
	CallTimeout   time.Duration
	HistoryPath   string
}

// Load reads configuration from the environment. A missing credential is a
// valid state; capability checks happen per turn, not at startup.
func Load() Config {
	return Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		SerpAPIKey:      os.Getenv("SERPAPI_KEY"),
		Model:           getEnv("SSG_MODEL", ""),
		MaxAgentSteps:   getEnvInt("SSG_MAX_AGENT_STEPS", 10),
		TokenBudget:     getEnvInt("SSG_TOKEN_BUDGET", 50_000),
		CallTimeout:     getEnvDuration("SSG_CALL_TIMEOUT", 60*time.Second),
		HistoryPath:     getEnv("SSG_HISTORY_PATH", "conversation.json"),
	}
}

// HasLLM reports whether the LLM credential is present. Without it no turn
// can proceed past the gate.
func (c Config) HasLLM() bool { return c.AnthropicAPIKey != "" }

// HasSearch reports whether the web-search credential is present. Absence
// degrades tool selection (the search tool is omitted) rather than blocking
// the turn.
func (c Config) HasSearch() bool { return c.SerpAPIKey != "" }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
