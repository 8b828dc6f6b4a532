package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BASE_URL", "https://links.example.com/")
	t.Setenv("PORT", "")
	t.Setenv("RENDER_EXTERNAL_URL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "https://links.example.com", cfg.GetBaseURL())
	assert.Equal(t, "0.0.0.0:5000", cfg.GetServerAddress())
	assert.Equal(t, BotModePolling, cfg.Bot.Mode)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 8, cfg.App.TokenLength)
	assert.Equal(t, model.DefaultLinkPolicy(), cfg.LinkPolicy())
}

func TestLoad_HostingEnvAliases(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BASE_URL", "")
	t.Setenv("RENDER_EXTERNAL_URL", "https://bot.onrender.com")
	t.Setenv("PORT", "10000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://bot.onrender.com", cfg.GetBaseURL())
	assert.Equal(t, "10000", cfg.Server.Port)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINKBOT_LINKS_HOURS_MODE", "range")
	t.Setenv("LINKBOT_LINKS_MAX_CLICKS", "0")
	t.Setenv("LINKBOT_STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	policy := cfg.LinkPolicy()
	assert.Equal(t, model.HoursModeRange, policy.HoursMode)
	assert.True(t, policy.HoursAllowed(3))
	assert.Equal(t, 0, policy.MaxClicks)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		key  string
	}{
		{
			name: "missing bot token",
			env:  map[string]string{"BOT_TOKEN": ""},
			key:  "bot.token",
		},
		{
			name: "missing base url",
			env:  map[string]string{"BASE_URL": ""},
			key:  "app.base_url",
		},
		{
			name: "bad base url",
			env:  map[string]string{"BASE_URL": "links.example.com"},
			key:  "app.base_url",
		},
		{
			name: "webhook without secret",
			env:  map[string]string{"LINKBOT_BOT_MODE": "webhook"},
			key:  "bot.webhook_secret",
		},
		{
			name: "unknown storage driver",
			env:  map[string]string{"LINKBOT_STORAGE_DRIVER": "mongo"},
			key:  "storage.driver",
		},
		{
			name: "token length out of range",
			env:  map[string]string{"LINKBOT_APP_TOKEN_LENGTH": "12"},
			key:  "app.token_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			require.True(t, apperrors.IsConfigError(err), "got %v", err)

			var cfgErr *apperrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestConfig_WebhookURL(t *testing.T) {
	cfg := &Config{
		App: AppConfig{BaseURL: "https://links.example.com"},
		Bot: BotConfig{WebhookSecret: "s3cret"},
	}

	assert.Equal(t, "https://links.example.com/webhook/s3cret", cfg.WebhookURL())
}
