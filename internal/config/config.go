// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment
// variables, parsed with github.com/caarlos0/env. Account battling
// policy lives in the YAML accounts file instead; see accounts.go.
type Config struct {
	// Server configuration
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"splintermate"`

	// Game API configuration
	APIBaseURL     string `env:"API_BASE_URL" envDefault:"https://api2.splinterlands.com"`
	APIFallbackURL string `env:"API_FALLBACK_URL" envDefault:"https://api.splinterlands.io"`
	// BridgeURL points at the local automation sidecar handling the
	// session-bound operations. Empty disables battle submission.
	BridgeURL    string `env:"BRIDGE_URL"`
	APITimeoutMs int    `env:"API_TIMEOUT_MS" envDefault:"15000"`

	// Data files
	AccountsPath string `env:"ACCOUNTS_PATH" envDefault:"config/accounts.yaml"`
	CardsPath    string `env:"CARDS_PATH" envDefault:"config/cards.json"`

	// Redis configuration
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// Telemetry configuration
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ZipkinURL       string `env:"ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"splintermate"`
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
