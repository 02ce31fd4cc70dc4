package config

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const (
	envDevelopment = "development"
	envProduction  = "production"
)

type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	Port     int    `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	JWTSecret  string `mapstructure:"JWT_SECRET"`
	SessionKey string `mapstructure:"SESSION_KEY"`

	APIKey   string `mapstructure:"API_KEY"`
	LLMModel string `mapstructure:"LLM_MODEL"`

	GithubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string `mapstructure:"GITHUB_CALLBACK_URL"`

	FrontendURL    string  `mapstructure:"FRONTEND_URL"`
	AllowedOrigins string  `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var defaults = map[string]interface{}{
	"APP_ENV":              envDevelopment,
	"PORT":                 8080,
	"LOG_LEVEL":            "info",
	"MONGO_URI":            "",
	"MONGO_DATABASE":       "bookmarker",
	"JWT_SECRET":           "",
	"SESSION_KEY":          "",
	"API_KEY":              "",
	"LLM_MODEL":            "gemini-2.5-flash",
	"GITHUB_CLIENT_ID":     "",
	"GITHUB_CLIENT_SECRET": "",
	"GITHUB_CALLBACK_URL":  "http://localhost:8080/api/auth/github/callback",
	"FRONTEND_URL":         "http://localhost:3000",
	"ALLOWED_ORIGINS":      "",
	"RATE_LIMIT_RPS":       3.0,
	"RATE_LIMIT_BURST":     5,
}

// Load reads the configuration from the environment (and a .env file, if present).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.Env != envDevelopment && cfg.Env != envProduction {
		return fmt.Errorf("APP_ENV is invalid: %s", cfg.Env)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT is out of range: %d", cfg.Port)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == envProduction
}

// Origins returns the CORS allow-list. The frontend URL is always allowed.
func (c *Config) Origins() []string {
	origins := []string{c.FrontendURL}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" && o != c.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}
