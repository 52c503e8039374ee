// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig      `mapstructure:"app"`
	Server    ServerConfig   `mapstructure:"server"`
	GenAI     GenAIConfig    `mapstructure:"genai"`
	Deadlines DeadlineConfig `mapstructure:"deadlines"`
	Retry     RetryConfig    `mapstructure:"retry"`
	Database  DatabaseConfig `mapstructure:"database"`
	Alerts    AlertConfig    `mapstructure:"alerts"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	CORSAllowOrigin string `mapstructure:"cors_allow_origin"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// GenAIConfig configures the external text-generation service.
type GenAIConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	AttemptTimeout int     `mapstructure:"attempt_timeout"` // milliseconds, per call
}

// DeadlineConfig holds the hard wall-clock budgets. Both sit below the
// platform's own kill so the service answers with a clean timeout outcome.
type DeadlineConfig struct {
	Standard int `mapstructure:"standard"` // milliseconds
	Crisis   int `mapstructure:"crisis"`   // milliseconds
}

func (d DeadlineConfig) StandardBudget() time.Duration {
	return time.Duration(d.Standard) * time.Millisecond
}

func (d DeadlineConfig) CrisisBudget() time.Duration {
	return time.Duration(d.Crisis) * time.Millisecond
}

// RetryConfig bounds the generation retry loop.
type RetryConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
	BackoffBase int `mapstructure:"backoff_base"` // milliseconds, doubled per attempt
}

func (r RetryConfig) BackoffBaseDelay() time.Duration {
	return time.Duration(r.BackoffBase) * time.Millisecond
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// AlertConfig configures the best-effort crisis alert dispatch.
type AlertConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	TopicARN  string `mapstructure:"topic_arn"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
