package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "5m", cfg.Redis.CacheTTL)
	assert.False(t, cfg.Database.Enabled)

	assert.Equal(t, "https://finnhub.io/api/v1", cfg.MarketData.BaseURL)
	assert.Empty(t, cfg.MarketData.APIKey)

	assert.Equal(t, "gpt-4o", cfg.AI.Deployment)
	assert.Equal(t, 3000, cfg.AI.MaxTokens)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
}

func TestLoadExtractionDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Extraction.RSIDefault)
	assert.Equal(t, 0.0, cfg.Extraction.MACDDefault)
	assert.Equal(t, 100.0, cfg.Extraction.SupportDefault)
	assert.Equal(t, 120.0, cfg.Extraction.ResistanceDefault)
	assert.Equal(t, 110.0, cfg.Extraction.MA50Default)
	assert.Equal(t, 105.0, cfg.Extraction.MA200Default)
	assert.Equal(t, 5.0, cfg.Extraction.ScoreDefault)
}

func TestLoadEnvironmentBindings(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "finnhub-secret")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "azure-secret")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o-mini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "finnhub-secret", cfg.MarketData.APIKey)
	assert.Equal(t, "https://example.openai.azure.com", cfg.AI.Endpoint)
	assert.Equal(t, "azure-secret", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Deployment)
}

func TestLoadValidation(t *testing.T) {
	t.Run("production requires ai endpoint", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.endpoint")
	})

	t.Run("production with endpoint passes", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Environment)
	})

	t.Run("temperature out of range rejected", func(t *testing.T) {
		t.Setenv("AI_TEMPERATURE", "3.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})
}
