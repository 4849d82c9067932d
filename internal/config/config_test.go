package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SGSTrader/internal/collector"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "REST_BASE_URL", "REST_API_KEY",
	"ALPACA_API_KEY", "ALPACA_SECRET_KEY", "HTTPS_PROXY", "SQLITE_PATH",
	"WATCH_CRON", "LOG_LEVEL", "SGS_PROVIDERS", "SGS_CAPITAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stocks", cfg.Defaults.Market)
	assert.Equal(t, "RELIANCE.NS", cfg.Defaults.Symbol)
	assert.Equal(t, 1000.0, cfg.Defaults.Capital)
	assert.Equal(t, []string{"yahoo", "alpaca", "rest"}, cfg.DataSource.Providers)
	assert.Equal(t, []int{1825, 730, 365}, cfg.DataSource.LookbackDays)
	assert.Equal(t, "0 0 18 * * 1-5", cfg.Schedule.WatchCron)
	assert.Equal(t, 4, cfg.Watch.Concurrency)
	assert.Equal(t, "data/sgs_trader.db", cfg.Database.SQLitePath)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultLookbacksNotShared(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DataSource.LookbackDays[0] = 1
	assert.Equal(t, 1825, collector.DefaultLookbacks[0])
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log:
  level: debug
  development: true
defaults:
  market: forex
  symbol: EURUSD=X
  capital: 2500
data_source:
  providers: [rest, yahoo]
  lookback_days: [365]
  base_url: http://localhost:8080
watch:
  concurrency: 2
  watchlist:
    - market: indices
      symbol: ^NSEI
      capital: 5000
    - market: stocks
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "forex", cfg.Defaults.Market)
	assert.Equal(t, 2500.0, cfg.Defaults.Capital)
	assert.Equal(t, []string{"rest", "yahoo"}, cfg.DataSource.Providers)
	assert.Equal(t, []int{365}, cfg.DataSource.LookbackDays)
	assert.Equal(t, 2, cfg.Watch.Concurrency)
	require.Len(t, cfg.Watch.Watchlist, 2)
	assert.Equal(t, WatchEntry{Market: "indices", Symbol: "^NSEI", Capital: 5000}, cfg.Watch.Watchlist[0])
	assert.Equal(t, "http://localhost:8080", cfg.ProviderOptions().RESTBaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "telegram:\n  bot_token: from-file\n  chat_id: \"1\"\n")
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("SGS_PROVIDERS", " mock , yahoo ,")
	t.Setenv("SGS_CAPITAL", "750.5")
	t.Setenv("ALPACA_API_KEY", "k")
	t.Setenv("ALPACA_SECRET_KEY", "s")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "1", cfg.Telegram.ChatID)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"mock", "yahoo"}, cfg.DataSource.Providers)
	assert.Equal(t, 750.5, cfg.Defaults.Capital)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)

	opts := cfg.ProviderOptions()
	assert.Equal(t, "k", opts.AlpacaAPIKey)
	assert.Equal(t, "s", opts.AlpacaAPISecret)
}

func TestLoad_BadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "log: [unclosed"))
	assert.Error(t, err)

	t.Setenv("SGS_CAPITAL", "lots")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative capital", func(c *Config) { c.Defaults.Capital = -1 }},
		{"unknown market", func(c *Config) { c.Defaults.Market = "bonds" }},
		{"unknown provider", func(c *Config) { c.DataSource.Providers = []string{"bloomberg"} }},
		{"zero lookback", func(c *Config) { c.DataSource.LookbackDays = []int{365, 0} }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"chat without token", func(c *Config) { c.Telegram.ChatID = "1" }},
		{"zero concurrency", func(c *Config) { c.Watch.Concurrency = 0 }},
		{"bad watch market", func(c *Config) { c.Watch.Watchlist = []WatchEntry{{Market: "crypto"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
