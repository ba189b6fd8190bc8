package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BodyLimit caps request bodies at the transport layer.
const BodyLimit = 10 * 1024

// ErrMissingCredentials is returned when either provider key is absent.
var ErrMissingCredentials = errors.New("missing provider credentials")

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	CORSOrigin       string
	StaticDir        string
	RedisURL         string
	ProviderTimeout  time.Duration
	RateLimitMax     int
	RateLimitWindow  time.Duration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	LogLevel         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the production CORS origin applies.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_name", "GEMA Solver API")
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("cors_development_origin", "http://localhost:3000")
	v.SetDefault("static_dir", "public")
	v.SetDefault("provider_timeout", "60s")
	v.SetDefault("rate_limit_max", 20)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("log_level", "info")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	timeout, err := parseDuration(v, "provider_timeout", 60*time.Second)
	if err != nil {
		return Config{}, err
	}

	window, err := parseDuration(v, "rate_limit_window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:          v.GetString("app_name"),
		AppEnv:           strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		AppPort:          strings.TrimSpace(v.GetString("port")),
		StaticDir:        v.GetString("static_dir"),
		RedisURL:         strings.TrimSpace(v.GetString("redis_url")),
		ProviderTimeout:  timeout,
		RateLimitMax:     v.GetInt("rate_limit_max"),
		RateLimitWindow:  window,
		OpenAIAPIKey:     strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIBaseURL:    strings.TrimSpace(v.GetString("openai_base_url")),
		AnthropicAPIKey:  strings.TrimSpace(v.GetString("anthropic_api_key")),
		AnthropicBaseURL: strings.TrimSpace(v.GetString("anthropic_base_url")),
		LogLevel:         v.GetString("log_level"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "3000"
	}

	if cfg.IsProduction() {
		cfg.CORSOrigin = strings.TrimSpace(v.GetString("cors_production_origin"))
	} else {
		cfg.CORSOrigin = strings.TrimSpace(v.GetString("cors_development_origin"))
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 20
	}

	var missing []string
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if cfg.IsProduction() && cfg.CORSOrigin == "" {
		return Config{}, fmt.Errorf("CORS_PRODUCTION_ORIGIN must be set when APP_ENV=production")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}
