// Package config provides configuration management for the Scoreline engine.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Ledger   LedgerConfig   `mapstructure:"ledger" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Fixtures FixturesConfig `mapstructure:"fixtures" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Refresh  RefreshConfig  `mapstructure:"refresh" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ModelConfig represents the generative-model API configuration
type ModelConfig struct {
	Name               string  `mapstructure:"name" validate:"required"`
	APIKey             string  `mapstructure:"api_key"`
	MaxTokens          int     `mapstructure:"max_tokens" validate:"required,gt=0"`
	Temperature        float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// LedgerConfig represents prediction history storage configuration
type LedgerConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,oneof=file postgres"`
	Path     string `mapstructure:"path"`
	Capacity int    `mapstructure:"capacity" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration, used when the
// ledger backend is postgres
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// FixturesConfig represents the football-results API configuration
type FixturesConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
}

// BacktestConfig represents backtest run configuration
type BacktestConfig struct {
	DefaultCount int     `mapstructure:"default_count" validate:"required,gt=0"`
	Temperature  float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`
}

// RefreshConfig represents the periodic result-refresh schedule
type RefreshConfig struct {
	Schedule string `mapstructure:"schedule" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
