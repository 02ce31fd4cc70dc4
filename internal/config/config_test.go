package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "bookmarker", cfg.MongoDatabase)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, 3.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.False(t, cfg.IsProd())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LLM_MODEL", "gemini-2.0-flash")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMModel)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing mongo uri", func(t *testing.T) {
		t.Setenv("MONGO_URI", "")
		t.Setenv("JWT_SECRET", "secret")
		_, err := Load()
		assert.ErrorContains(t, err, "MONGO_URI")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad env", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "staging")
		_, err := Load()
		assert.ErrorContains(t, err, "APP_ENV")
	})
}

func TestOrigins(t *testing.T) {
	cfg := &Config{
		FrontendURL:    "http://localhost:3000",
		AllowedOrigins: " https://app.example.com, http://localhost:3000,,",
	}
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Origins())
}
