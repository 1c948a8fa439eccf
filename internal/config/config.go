package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one AI council member.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"` // "openai" (OpenAI-compatible) or "anthropic"
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Persona string `yaml:"persona"`
	APIKey  string `yaml:"api_key"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Symbol string `yaml:"symbol"` // asset tracked by the score engine
	} `yaml:"data_source"`
	Schedule struct {
		EvaluateCron    string `yaml:"evaluate_cron"`
		AlertCron       string `yaml:"alert_cron"`
		WeeklyResetCron string `yaml:"weekly_reset_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Council []ProviderConfig `yaml:"council"`
	Log     struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	// Load .env if present; real env wins over file values.
	_ = godotenv.Load()

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
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_EVALUATE"); v != "" {
		cfg.Schedule.EvaluateCron = v
	}
	if v := os.Getenv("CRON_ALERT"); v != "" {
		cfg.Schedule.AlertCron = v
	}

	// Council API keys come from <NAME>_API_KEY when not set inline.
	for i := range cfg.Council {
		if cfg.Council[i].APIKey == "" {
			envKey := strings.ToUpper(cfg.Council[i].Name) + "_API_KEY"
			cfg.Council[i].APIKey = os.Getenv(envKey)
		}
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTC"
	}
	if cfg.Schedule.EvaluateCron == "" {
		cfg.Schedule.EvaluateCron = "0 0 9 * * *" // daily 09:00
	}
	if cfg.Schedule.AlertCron == "" {
		cfg.Schedule.AlertCron = "0 */30 * * * *" // every 30 minutes
	}
	if cfg.Schedule.WeeklyResetCron == "" {
		cfg.Schedule.WeeklyResetCron = "0 0 0 * * 1" // Monday 00:00
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/coin_sentinel.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// TelegramEnabled reports whether Telegram credentials are configured.
// Without them the bot falls back to console output and skips polling.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for _, p := range c.Council {
		if p.Kind != "openai" && p.Kind != "anthropic" {
			return fmt.Errorf("council provider %q: unknown kind %q", p.Name, p.Kind)
		}
		if p.BaseURL == "" || p.Model == "" {
			return fmt.Errorf("council provider %q: base_url and model are required", p.Name)
		}
	}
	return nil
}
