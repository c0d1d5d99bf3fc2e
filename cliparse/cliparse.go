package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Completion policies accepted by COMPLETION_POLICY
const (
	PolicyAny    = "any"
	PolicyWithin = "within"
	PolicySlot   = "slot"
)

type Config struct {
	Port              int           `env:"PORT" envDefault:"3318"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	DatabaseType      string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	MemberTokenSalt   string        `env:"MEMBER_TOKEN_SALT"`
	Timezone          string        `env:"TIMEZONE" envDefault:"UTC"`
	CompletionPolicy  string        `env:"COMPLETION_POLICY" envDefault:"any"`
	LockTimeout       time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`
	WebhookURL        string        `env:"WEBHOOK_URL"`
	Retention         time.Duration `env:"RETENTION" envDefault:"720h"`
	RetentionSchedule string        `env:"RETENTION_SCHEDULE" envDefault:"@hourly"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"text"`
}

// ParseFlags reads the environment, then lets command line flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quickly-meet", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.MemberTokenSalt, "token-salt", cfg.MemberTokenSalt, "Member token salt (prefer env)")

	// Scheduling behavior
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "Timezone for dates and times of day")
	fs.StringVar(&cfg.CompletionPolicy, "policy", cfg.CompletionPolicy, "Completion policy (any, within, slot)")
	fs.DurationVar(&cfg.LockTimeout, "lock-timeout", cfg.LockTimeout, "Max wait for a session lock")
	fs.StringVar(&cfg.WebhookURL, "webhook", cfg.WebhookURL, "URL notified when a session completes")
	fs.DurationVar(&cfg.Retention, "retention", cfg.Retention, "Keep completed sessions this long (0 keeps forever)")
	fs.StringVar(&cfg.RetentionSchedule, "retention-schedule", cfg.RetentionSchedule, "Cron spec for the retention sweep")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.MemberTokenSalt == "" {
		return Config{}, errors.New("MEMBER_TOKEN_SALT required")
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	switch cfg.CompletionPolicy {
	case PolicyAny, PolicyWithin, PolicySlot:
	default:
		return Config{}, fmt.Errorf("unknown completion policy %q", cfg.CompletionPolicy)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.LockTimeout <= 0 {
		return Config{}, errors.New("lock timeout must be positive")
	}

	return cfg, nil
}

// Location loads the configured timezone
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
