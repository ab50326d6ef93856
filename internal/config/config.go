package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	ReminderSinkTelegram = "telegram"
	ReminderSinkAsynq    = "asynq"
)

type Config struct {
	App      App
	Log      Log
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Bot      Bot
	Reminder Reminder
	Query    Query
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"ltd_tracker"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Log struct {
	Level   slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool       `env:"LOG_NO_COLOR" envDefault:"false"`
	// Ограничение на размер дампа запроса/ответа в логах.
	FieldMaxLen int `env:"LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Storage struct {
	// memory | postgres | redis
	Backend string `env:"STORAGE_BACKEND" envDefault:"memory"`
}

type Bot struct {
	Enabled bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token   string `env:"BOT_TOKEN" json:"-"`
	// Чат, куда уходят напоминания, и единственный пользователь, которому
	// отвечает бот.
	ChatID int64 `env:"BOT_CHAT_ID"`
}

type Reminder struct {
	Enabled  bool          `env:"REMINDER_ENABLED" envDefault:"false"`
	Sink     string        `env:"REMINDER_SINK" envDefault:"telegram"`
	Interval time.Duration `env:"REMINDER_INTERVAL" envDefault:"1h"`
	Horizon  int           `env:"REMINDER_HORIZON_DAYS" envDefault:"7"`
	Queue    string        `env:"REMINDER_QUEUE" envDefault:"reminders"`
}

type Query struct {
	CacheTTL time.Duration `env:"QUERY_CACHE_TTL" envDefault:"1m"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend == StoragePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("PG_DSN is required for storage backend %q", StoragePostgres)
	}

	if c.Bot.Enabled && (c.Bot.Token == "" || c.Bot.ChatID == 0) {
		return fmt.Errorf("BOT_TOKEN and BOT_CHAT_ID are required when the bot is enabled")
	}

	if !c.Reminder.Enabled {
		return nil
	}

	if c.Bot.Token == "" || c.Bot.ChatID == 0 {
		return fmt.Errorf("BOT_TOKEN and BOT_CHAT_ID are required for reminders")
	}

	switch c.Reminder.Sink {
	case ReminderSinkTelegram, ReminderSinkAsynq:
	default:
		return fmt.Errorf("unknown reminder sink %q", c.Reminder.Sink)
	}

	if c.Reminder.Horizon < 0 {
		return fmt.Errorf("REMINDER_HORIZON_DAYS must not be negative")
	}

	return nil
}

// NeedsRedis — нужен ли Redis хоть одному компоненту.
func (c Config) NeedsRedis() bool {
	return c.Storage.Backend == StorageRedis ||
		(c.Reminder.Enabled && c.Reminder.Sink == ReminderSinkAsynq)
}

// NeedsTelegram — нужен ли клиент Bot API.
func (c Config) NeedsTelegram() bool {
	return c.Bot.Enabled || c.Reminder.Enabled
}
