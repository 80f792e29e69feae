package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFixture = "fixture"
	SourceHTTP    = "http"
	SourceSQLite  = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		Kind            string        `yaml:"kind"`
		FixturePath     string        `yaml:"fixture_path"`
		BaseURL         string        `yaml:"base_url"`
		APIKey          string        `yaml:"api_key"`
		Origin          string        `yaml:"origin"`
		Destination     string        `yaml:"destination"`
		LabelTrimPrefix string        `yaml:"label_trim_prefix"`
		WaitTimeout     time.Duration `yaml:"wait_timeout"`
	} `yaml:"source"`
	Pricing struct {
		Strip    []string `yaml:"strip"`
		Currency string   `yaml:"currency"`
	} `yaml:"pricing"`
	Schedule struct {
		WatchCron  string `yaml:"watch_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("SOURCE_KIND"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("FIXTURE_PATH"); v != "" {
		c.Source.FixturePath = v
	}
	if v := os.Getenv("FARE_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("FARE_API_KEY"); v != "" {
		c.Source.APIKey = v
	}
	if v := os.Getenv("WAIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WAIT_TIMEOUT: %w", err)
		}
		c.Source.WaitTimeout = d
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_WATCH"); v != "" {
		c.Schedule.WatchCron = v
	}
	if os.Getenv("RUN_ON_START") == "true" {
		c.Schedule.RunOnStart = true
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceFixture
	}
	if c.Source.FixturePath == "" {
		c.Source.FixturePath = "configs/calendar.yaml"
	}
	if c.Source.WaitTimeout == 0 {
		c.Source.WaitTimeout = 20 * time.Second
	}
	if len(c.Pricing.Strip) == 0 {
		c.Pricing.Strip = []string{"₹", ","}
	}
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = "Rs"
	}
	if c.Schedule.WatchCron == "" {
		c.Schedule.WatchCron = "0 0 8 * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/fares.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate checks that the selected source is fully configured.
func (c *Config) Validate() error {
	var problems []string

	switch c.Source.Kind {
	case SourceFixture:
		if c.Source.FixturePath == "" {
			problems = append(problems, "source.fixture_path is required for the fixture source")
		}
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			problems = append(problems, "source.base_url is required for the http source")
		}
	case SourceSQLite:
		if c.Database.SQLitePath == "" {
			problems = append(problems, "database.sqlite_path is required for the sqlite source")
		}
	default:
		problems = append(problems, fmt.Sprintf("source.kind %q is not one of fixture, http, sqlite", c.Source.Kind))
	}
	if c.Source.WaitTimeout < 0 {
		problems = append(problems, "source.wait_timeout must not be negative")
	}
	hasStrip := false
	for _, s := range c.Pricing.Strip {
		if s != "" {
			hasStrip = true
		}
	}
	if !hasStrip {
		problems = append(problems, "pricing.strip must contain at least one non-empty token")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		problems = append(problems, "telegram.bot_token and telegram.chat_id must be set together")
	}

	if len(problems) > 0 {
		return errors.New("config validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// TelegramEnabled reports whether watch-mode reports go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
