package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Telegram
	BotToken      string
	WebhookSecret string // optional; checked against X-Telegram-Bot-Api-Secret-Token
	WebAppURL     string
	AdminChatID   int64 // optional; receives operational notices

	// Sweeps
	SweepInterval time.Duration
	SendTimeout   time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "ShAG"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/shag.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		BotToken:      envRequired("BOT_TOKEN"),
		WebhookSecret: envString("WEBHOOK_SECRET", ""),
		WebAppURL:     envString("WEBAPP_URL", "https://shag.example.com"),
		AdminChatID:   envInt64("ADMIN_CHAT_ID", 0),

		SweepInterval: envDuration("SWEEP_INTERVAL", time.Minute),
		SendTimeout:   envDuration("SEND_TIMEOUT", 10*time.Second),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() && cfg.WebhookSecret == "" {
		slog.Warn("WEBHOOK_SECRET is empty; webhook endpoint accepts unauthenticated updates")
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
