package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
	"github.com/Kosench/expiring-link-bot/internal/utils"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"

	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Bot      BotConfig      `mapstructure:"bot"`
	Links    LinksConfig    `mapstructure:"links"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	TokenLength    int      `mapstructure:"token_length"`
	MaxRetries     int      `mapstructure:"max_retries"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
}

type BotConfig struct {
	Token         string `mapstructure:"token"`
	Mode          string `mapstructure:"mode"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	PollTimeout   int    `mapstructure:"poll_timeout"`
}

type LinksConfig struct {
	HoursMode    string `mapstructure:"hours_mode"`
	AllowedHours []int  `mapstructure:"allowed_hours"`
	MinHours     int    `mapstructure:"min_hours"`
	MaxHours     int    `mapstructure:"max_hours"`
	MaxClicks    int    `mapstructure:"max_clicks"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	MaxRetries   int    `mapstructure:"max_retry"`
	Namespace    string `mapstructure:"namespace"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")

	// App defaults
	v.SetDefault("app.base_url", "")
	v.SetDefault("app.token_length", utils.DefaultTokenLength)
	v.SetDefault("app.max_retries", 5)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.allowed_origins", []string{"*"})
	v.SetDefault("app.log_level", "info")

	// Bot defaults
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", BotModePolling)
	v.SetDefault("bot.webhook_secret", "")
	v.SetDefault("bot.poll_timeout", 60)

	// Link policy defaults
	policy := model.DefaultLinkPolicy()
	v.SetDefault("links.hours_mode", policy.HoursMode)
	v.SetDefault("links.allowed_hours", policy.AllowedHours)
	v.SetDefault("links.min_hours", policy.MinHours)
	v.SetDefault("links.max_hours", policy.MaxHours)
	v.SetDefault("links.max_clicks", policy.MaxClicks)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "links.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "linkbot")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "linkbot")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.max_retry", 3)
	v.SetDefault("redis.namespace", "")

	v.SetEnvPrefix("LINKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Короткие имена переменных, которые задает хостинг (Render и т.п.)
	if err := bindEnvAliases(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.App.BaseURL = strings.TrimRight(config.App.BaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"bot.token":    {"LINKBOT_BOT_TOKEN", "BOT_TOKEN"},
		"server.port":  {"LINKBOT_SERVER_PORT", "PORT"},
		"app.base_url": {"LINKBOT_APP_BASE_URL", "BASE_URL", "RENDER_EXTERNAL_URL"},
	}

	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	return nil
}

// Validate проверяет обязательные параметры; без них процесс не стартует
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return apperrors.NewConfigError("bot.token", "bot token is required (BOT_TOKEN)")
	}

	if c.App.BaseURL == "" {
		return apperrors.NewConfigError("app.base_url", "externally reachable base URL is required (BASE_URL)")
	}
	if err := utils.ValidateURL(c.App.BaseURL); err != nil {
		return apperrors.NewConfigError("app.base_url", err.Error())
	}

	if c.App.TokenLength < utils.MinTokenLength || c.App.TokenLength > utils.MaxTokenLength {
		return apperrors.NewConfigError("app.token_length",
			fmt.Sprintf("must be between %d and %d", utils.MinTokenLength, utils.MaxTokenLength))
	}

	switch c.Bot.Mode {
	case BotModePolling:
	case BotModeWebhook:
		if c.Bot.WebhookSecret == "" {
			return apperrors.NewConfigError("bot.webhook_secret", "required in webhook mode")
		}
	default:
		return apperrors.NewConfigError("bot.mode", fmt.Sprintf("unknown mode %q", c.Bot.Mode))
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return apperrors.NewConfigError("storage.driver", fmt.Sprintf("unknown driver %q", c.Storage.Driver))
	}

	switch c.Links.HoursMode {
	case model.HoursModeWhitelist:
		if len(c.Links.AllowedHours) == 0 {
			return apperrors.NewConfigError("links.allowed_hours", "whitelist mode needs at least one value")
		}
	case model.HoursModeRange:
		if c.Links.MinHours < 1 || c.Links.MinHours > c.Links.MaxHours {
			return apperrors.NewConfigError("links.min_hours", "range must satisfy 1 <= min_hours <= max_hours")
		}
	default:
		return apperrors.NewConfigError("links.hours_mode", fmt.Sprintf("unknown mode %q", c.Links.HoursMode))
	}

	if c.Links.MaxClicks < 0 {
		return apperrors.NewConfigError("links.max_clicks", "must be >= 0 (0 means unbounded)")
	}

	return nil
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) GetBaseURL() string {
	return c.App.BaseURL
}

func (c *Config) LinkPolicy() model.LinkPolicy {
	return model.LinkPolicy{
		HoursMode:    c.Links.HoursMode,
		AllowedHours: c.Links.AllowedHours,
		MinHours:     c.Links.MinHours,
		MaxHours:     c.Links.MaxHours,
		MaxClicks:    c.Links.MaxClicks,
	}
}

// WebhookURL - адрес, который регистрируется в Telegram
func (c *Config) WebhookURL() string {
	return fmt.Sprintf("%s/webhook/%s", c.App.BaseURL, c.Bot.WebhookSecret)
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}

func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development"
}

func (c *Config) GetAllowedOrigins() []string {
	if len(c.App.AllowedOrigins) == 0 {
		if c.IsProduction() {
			// В продакшене требуем явного указания origins
			return []string{c.App.BaseURL}
		}
		return []string{"*"}
	}
	return c.App.AllowedOrigins
}
