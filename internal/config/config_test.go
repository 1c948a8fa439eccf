package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
telegram:
  bot_token: "tok"
  chat_id: "42"
`))
	require.NoError(t, err)
	assert.Equal(t, "BTC", cfg.DataSource.Symbol)
	assert.Equal(t, "0 0 9 * * *", cfg.Schedule.EvaluateCron)
	assert.Equal(t, "data/coin_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SYMBOL", "ETH")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, `
telegram:
  bot_token: "file-token"
  chat_id: "42"
data_source:
  symbol: "BTC"
`))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "ETH", cfg.DataSource.Symbol)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_CouncilKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(writeConfig(t, `
telegram:
  bot_token: "tok"
  chat_id: "42"
council:
  - name: openai
    kind: openai
    base_url: "https://api.openai.com/v1"
    model: "gpt-4o"
    persona: "You are a conservative hedge fund manager."
`))
	require.NoError(t, err)
	require.Len(t, cfg.Council, 1)
	assert.Equal(t, "sk-test", cfg.Council[0].APIKey)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(writeConfig(t, `
telegram:
  chat_id: "42"
`))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg2, err := Load(writeConfig(t, `
telegram:
  bot_token: "tok"
  chat_id: "42"
council:
  - name: mystery
    kind: carrier-pigeon
    base_url: "https://example.com"
    model: "m"
`))
	require.NoError(t, err)
	assert.Error(t, cfg2.Validate())
}

func TestTelegramEnabled(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())

	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "42"
	assert.True(t, cfg.TelegramEnabled())
}
