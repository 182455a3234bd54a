package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AI provider selection values.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderNone   = "none"
)

// Config holds the configuration for the application.
type Config struct {
	// AI backend selection. ProviderNone disables the AI proposer entirely
	// and every plan comes from the rule-based generator.
	AIProvider string

	GeminiAPIKey string
	GeminiModel  string

	GroqAPIKey string
	GroqModel  string

	// Upper bound for a single proposer call. On expiry the run falls
	// through to the rule-based generator.
	AITimeout time.Duration

	// Path to the sqlite database holding the recipe catalog, stored
	// plans and run metrics.
	DatabasePath string

	// Fraction of the max budget that a plan must reach (lower edge of
	// the budget band).
	MinBudgetUsage float64
}

// Load creates a Config from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		AIProvider:   getEnv("AI_PROVIDER", ProviderNone),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqModel:    getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		DatabasePath: getEnv("DATABASE_PATH", "data/crew-menu-planner.db"),
	}

	timeout, err := parseDurationEnv("AI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.AITimeout = timeout

	usage, err := parseFloatEnv("MIN_BUDGET_USAGE", 0.90)
	if err != nil {
		return nil, err
	}
	if usage < 0 || usage > 1 {
		return nil, fmt.Errorf("MIN_BUDGET_USAGE must be between 0 and 1, got %v", usage)
	}
	cfg.MinBudgetUsage = usage

	switch cfg.AIProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, errors.New("GROQ_API_KEY environment variable not set")
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in %s: %w", key, err)
	}
	return f, nil
}
