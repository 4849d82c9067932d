package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SGSTrader/internal/collector"
	"SGSTrader/internal/model"
)

// WatchEntry is one symbol analyzed by the scheduled watch job.
type WatchEntry struct {
	Market  string  `yaml:"market"`
	Symbol  string  `yaml:"symbol"`
	Capital float64 `yaml:"capital"`
}

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Defaults struct {
		Market  string  `yaml:"market"`
		Symbol  string  `yaml:"symbol"`
		Capital float64 `yaml:"capital"`
	} `yaml:"defaults"`
	DataSource struct {
		Providers    []string `yaml:"providers"`
		LookbackDays []int    `yaml:"lookback_days"`
		BaseURL      string   `yaml:"base_url"`
		APIKey       string   `yaml:"api_key"`
	} `yaml:"data_source"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"alpaca"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Watch struct {
		Concurrency int          `yaml:"concurrency"`
		Watchlist   []WatchEntry `yaml:"watchlist"`
	} `yaml:"watch"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"REST_BASE_URL":      &c.DataSource.BaseURL,
		"REST_API_KEY":       &c.DataSource.APIKey,
		"ALPACA_API_KEY":     &c.Alpaca.APIKey,
		"ALPACA_SECRET_KEY":  &c.Alpaca.APISecret,
		"HTTPS_PROXY":        &c.Proxy,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"WATCH_CRON":         &c.Schedule.WatchCron,
		"LOG_LEVEL":          &c.Log.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("SGS_PROVIDERS"); v != "" {
		var names []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		c.DataSource.Providers = names
	}
	if v := os.Getenv("SGS_CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SGS_CAPITAL: %w", err)
		}
		c.Defaults.Capital = capital
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Defaults.Market == "" {
		c.Defaults.Market = string(model.MarketStocks)
	}
	if c.Defaults.Symbol == "" {
		c.Defaults.Symbol = "RELIANCE.NS"
	}
	if c.Defaults.Capital == 0 {
		c.Defaults.Capital = 1000
	}
	if len(c.DataSource.Providers) == 0 {
		c.DataSource.Providers = []string{"yahoo", "alpaca", "rest"}
	}
	if len(c.DataSource.LookbackDays) == 0 {
		c.DataSource.LookbackDays = append([]int(nil), collector.DefaultLookbacks...)
	}
	if c.Schedule.WatchCron == "" {
		c.Schedule.WatchCron = "0 0 18 * * 1-5"
	}
	if c.Watch.Concurrency == 0 {
		c.Watch.Concurrency = 4
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/sgs_trader.db"
	}
}

// TelegramEnabled reports whether a bot token and chat id are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// ProviderOptions maps the config onto collector provider options.
func (c *Config) ProviderOptions() collector.ProviderOptions {
	return collector.ProviderOptions{
		Proxy:           c.Proxy,
		RESTBaseURL:     c.DataSource.BaseURL,
		RESTAPIKey:      c.DataSource.APIKey,
		AlpacaAPIKey:    c.Alpaca.APIKey,
		AlpacaAPISecret: c.Alpaca.APISecret,
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, err := model.ParseMarketKind(c.Defaults.Market); err != nil {
		return fmt.Errorf("defaults.market: %w", err)
	}
	if c.Defaults.Capital <= 0 {
		return fmt.Errorf("defaults.capital must be positive")
	}
	for _, p := range c.DataSource.Providers {
		if !knownProvider(p) {
			return fmt.Errorf("data_source.providers: %w: %q", collector.ErrUnknownProvider, p)
		}
	}
	for _, d := range c.DataSource.LookbackDays {
		if d <= 0 {
			return fmt.Errorf("data_source.lookback_days must be positive, got %d", d)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Watch.Concurrency < 1 {
		return fmt.Errorf("watch.concurrency must be at least 1")
	}
	for i, w := range c.Watch.Watchlist {
		if _, err := model.ParseMarketKind(w.Market); err != nil {
			return fmt.Errorf("watch.watchlist[%d].market: %w", i, err)
		}
		if w.Capital < 0 {
			return fmt.Errorf("watch.watchlist[%d].capital must not be negative", i)
		}
	}
	return nil
}

func knownProvider(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range collector.KnownProviders {
		if k == name {
			return true
		}
	}
	return false
}
