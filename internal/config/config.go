package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Auth  AuthConfig
	Slots SlotConfig
	AMQP  AMQPConfig
}

type AppConfig struct {
	Env                string
	Port               int
	TimeZone           string // canonical zone for all slot/appointment time math
	RateLimitPerMinute int
	ShutdownTimeout    int // seconds
}

type AuthConfig struct {
	JWTSecret string
}

type SlotConfig struct {
	WindowDays       int    // rolling forward window kept populated
	WorkdayStartHour int    // inclusive
	WorkdayEndHour   int    // exclusive
	CronSpec         string // generation cadence
}

type AMQPConfig struct {
	URL string // empty disables the broker and falls back to log-only dispatch
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:                getEnv("APP_ENV", "development"),
			Port:               getEnvInt("APP_PORT", 8080),
			TimeZone:           getEnv("APP_TIMEZONE", "Asia/Kolkata"),
			RateLimitPerMinute: getEnvInt("APP_RATE_LIMIT_PER_MINUTE", 120),
			ShutdownTimeout:    getEnvInt("APP_SHUTDOWN_TIMEOUT_SEC", 15),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Slots: SlotConfig{
			WindowDays:       getEnvInt("SLOT_WINDOW_DAYS", 5),
			WorkdayStartHour: getEnvInt("SLOT_WORKDAY_START_HOUR", 10),
			WorkdayEndHour:   getEnvInt("SLOT_WORKDAY_END_HOUR", 18),
			CronSpec:         getEnv("SLOT_CRON_SPEC", "@daily"),
		},
		AMQP: AMQPConfig{
			URL: getEnv("AMQP_URL", ""),
		},
	}

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}
	cfg.DB = *dbCfg

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("invalid config: JWT_SECRET must not be empty")
	}
	if _, err := time.LoadLocation(cfg.App.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid config: APP_TIMEZONE: %w", err)
	}
	if cfg.Slots.WorkdayStartHour < 0 || cfg.Slots.WorkdayEndHour > 24 ||
		cfg.Slots.WorkdayStartHour >= cfg.Slots.WorkdayEndHour {
		return nil, fmt.Errorf("invalid config: workday hours [%d, %d)",
			cfg.Slots.WorkdayStartHour, cfg.Slots.WorkdayEndHour)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
