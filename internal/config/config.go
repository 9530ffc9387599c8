// Package config loads reclam settings: defaults, then .reclam/config.json,
// then RECLAM_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/example/reclam/internal/db"
	"github.com/example/reclam/internal/sentinel"
)

// Mail transport modes.
const (
	MailModeLog  = "log"
	MailModeSMTP = "smtp"
)

// CurrentVersion is written by SaveConfig.
const CurrentVersion = "1"

// Duration is a time.Duration that reads and writes as "5s" in both JSON and env.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the reclam configuration
type Config struct {
	Version string `json:"version"`

	DBPath   string `json:"db_path,omitempty" env:"RECLAM_DB_PATH"`
	HTTPAddr string `json:"http_addr,omitempty" env:"RECLAM_HTTP_ADDR"`

	IdentityURL     string   `json:"identity_url,omitempty" env:"RECLAM_IDENTITY_URL"`
	UsersFile       string   `json:"users_file,omitempty" env:"RECLAM_USERS_FILE"`
	IdentityTimeout Duration `json:"identity_timeout,omitempty" env:"RECLAM_IDENTITY_TIMEOUT"`

	MailMode     string `json:"mail_mode,omitempty" env:"RECLAM_MAIL_MODE"`
	SMTPAddr     string `json:"smtp_addr,omitempty" env:"RECLAM_SMTP_ADDR"`
	SMTPUser     string `json:"smtp_user,omitempty" env:"RECLAM_SMTP_USER"`
	SMTPPassword string `json:"-" env:"RECLAM_SMTP_PASSWORD"` // env only
	MailFrom     string `json:"mail_from,omitempty" env:"RECLAM_MAIL_FROM"`

	DeliveryWorkers int      `json:"delivery_workers,omitempty" env:"RECLAM_DELIVERY_WORKERS"`
	DrainTimeout    Duration `json:"drain_timeout,omitempty" env:"RECLAM_DRAIN_TIMEOUT"`

	LogLevel     string `json:"log_level,omitempty" env:"RECLAM_LOG_LEVEL"`
	LogFormat    string `json:"log_format,omitempty" env:"RECLAM_LOG_FORMAT"`
	OTelEndpoint string `json:"otel_endpoint,omitempty" env:"RECLAM_OTEL_ENDPOINT"`
}

// Default returns the built-in settings.
func Default() *Config {
	dbPath, err := db.DefaultPath()
	if err != nil {
		dbPath = "reclam.db"
	}
	return &Config{
		Version:         CurrentVersion,
		DBPath:          dbPath,
		HTTPAddr:        ":8080",
		IdentityTimeout: Duration(5 * time.Second),
		MailMode:        MailModeLog,
		MailFrom:        "noreply@reclamation-service.com",
		DeliveryWorkers: 4,
		DrainTimeout:    Duration(30 * time.Second),
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load resolves the effective configuration for dir.
// A missing config file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	err := readFile(dir, cfg)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(dir string, cfg *Config) error {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	reclamDir := filepath.Join(dir, ".reclam")
	if err := os.MkdirAll(reclamDir, 0755); err != nil {
		return fmt.Errorf("failed to create .reclam dir: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, ".reclam", "config.json")
}

// normalize canonicalises the enumerated settings so later exact comparisons hold.
func (c *Config) normalize() {
	c.MailMode = strings.ToLower(strings.TrimSpace(c.MailMode))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate rejects settings the wiring cannot act on.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.MailMode) {
	case MailModeLog:
	case MailModeSMTP:
		if c.SMTPAddr == "" {
			problems = append(problems, "smtp mail mode needs RECLAM_SMTP_ADDR")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown mail mode %q (want log or smtp)", c.MailMode))
	}
	if c.DeliveryWorkers < 1 {
		problems = append(problems, "delivery workers must be at least 1")
	}
	if c.DrainTimeout < 0 || c.IdentityTimeout < 0 {
		problems = append(problems, "timeouts must not be negative")
	}
	if c.DBPath == "" {
		problems = append(problems, "database path is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s: %w", strings.Join(problems, "; "), sentinel.ErrValidation)
	}
	return nil
}
