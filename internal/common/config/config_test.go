// internal/common/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 14000, cfg.Deadlines.Standard)
	assert.Equal(t, 9000, cfg.Deadlines.Crisis)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 200, cfg.Retry.BackoffBase)
	assert.Equal(t, 5000, cfg.GenAI.AttemptTimeout)
	assert.Equal(t, "label-artifacts", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, 300, cfg.Database.Redis.CacheTTL)
}

func TestBudgetAccessors(t *testing.T) {
	d := DeadlineConfig{Standard: 14000, Crisis: 9000}

	assert.Equal(t, 14*time.Second, d.StandardBudget())
	assert.Equal(t, 9*time.Second, d.CrisisBudget())
	assert.Equal(t, 200*time.Millisecond, RetryConfig{BackoffBase: 200}.BackoffBaseDelay())
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.GenAI.BaseURL = "http://localhost:9000"
		return cfg
	}

	require.NoError(t, validateConfig(base()))

	missingURL := base()
	missingURL.GenAI.BaseURL = ""
	assert.Error(t, validateConfig(missingURL))

	inverted := base()
	inverted.Deadlines.Crisis = 15000
	assert.Error(t, validateConfig(inverted))

	noAttempts := base()
	noAttempts.Retry.MaxAttempts = 0
	assert.Error(t, validateConfig(noAttempts))

	alertsNoRegion := base()
	alertsNoRegion.Alerts.Enabled = true
	alertsNoRegion.Alerts.Region = ""
	assert.Error(t, validateConfig(alertsNoRegion))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "svc", Password: "pw",
		Database: "labels", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=labels sslmode=disable", p.GetDSN())
}
