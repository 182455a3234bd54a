package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("MIN_BUDGET_USAGE", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderNone, cfg.AIProvider)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, 0.90, cfg.MinBudgetUsage)
	assert.Equal(t, "data/crew-menu-planner.db", cfg.DatabasePath)
}

func TestLoadGeminiRequiresKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", ProviderGemini)
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadGroq(t *testing.T) {
	t.Setenv("AI_PROVIDER", ProviderGroq)
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("AI_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GroqAPIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "AI_PROVIDER", "openai"},
		{"bad timeout", "AI_TIMEOUT", "soon"},
		{"bad usage", "MIN_BUDGET_USAGE", "ninety"},
		{"usage out of range", "MIN_BUDGET_USAGE", "1.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("AI_PROVIDER", ProviderNone)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
