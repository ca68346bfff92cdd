package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken  string `yaml:"bot_token"`
		AdminOnly bool   `yaml:"admin_only"`
	} `yaml:"telegram"`
	Currency struct {
		Fiat   string `yaml:"fiat"`
		Crypto string `yaml:"crypto"`
	} `yaml:"currency"`
	Ledger struct {
		StateFile string `yaml:"state_file"`
		LogDir    string `yaml:"log_dir"`
		IDPrefix  string `yaml:"id_prefix"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"ledger"`
	Schedule struct {
		DailyResetCron string `yaml:"daily_reset_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("ADMIN_ONLY"); v != "" {
		cfg.Telegram.AdminOnly = v == "true" || v == "1"
	}
	if v := os.Getenv("LEDGER_STATE_FILE"); v != "" {
		cfg.Ledger.StateFile = v
	}
	if v := os.Getenv("LEDGER_LOG_DIR"); v != "" {
		cfg.Ledger.LogDir = v
	}
	if v := os.Getenv("LEDGER_TIMEZONE"); v != "" {
		cfg.Ledger.Timezone = v
	}
	if v := os.Getenv("CRON_DAILY_RESET"); v != "" {
		cfg.Schedule.DailyResetCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Currency.Fiat == "" {
		cfg.Currency.Fiat = "INR"
	}
	if cfg.Currency.Crypto == "" {
		cfg.Currency.Crypto = "USDT"
	}
	if cfg.Ledger.StateFile == "" {
		cfg.Ledger.StateFile = "data/ledger_state.json"
	}
	if cfg.Ledger.LogDir == "" {
		cfg.Ledger.LogDir = "data/logs"
	}
	if cfg.Ledger.IDPrefix == "" {
		cfg.Ledger.IDPrefix = "TXN"
	}
	if cfg.Ledger.Timezone == "" {
		cfg.Ledger.Timezone = "Asia/Kolkata"
	}
	if cfg.Schedule.DailyResetCron == "" {
		cfg.Schedule.DailyResetCron = "0 0 0 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Schedule.DailyResetCron == "" {
		return fmt.Errorf("schedule.daily_reset_cron is required")
	}
	return nil
}
