package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Sender struct {
		Name string `yaml:"name"`
	} `yaml:"sender"`
	Limits struct {
		MaxEmailsPerDay  int `yaml:"max_emails_per_day"`
		RateLimitSeconds int `yaml:"rate_limit_seconds"`
		MaxAttempts      int `yaml:"max_attempts"`
	} `yaml:"limits"`
	Followup struct {
		ThresholdDays       int `yaml:"threshold_days"`
		StaleDays           int `yaml:"stale_days"`
		RecentReplyDays     int `yaml:"recent_reply_days"`
		DefaultReminderDays int `yaml:"default_reminder_days"`
	} `yaml:"followup"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Credentials struct {
		Path string `yaml:"path"`
	} `yaml:"credentials"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional
	cfg := defaultConfig()
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	var cfg Config
	cfg.Sender.Name = "Your Name"
	cfg.Limits.MaxEmailsPerDay = 50
	cfg.Limits.RateLimitSeconds = 5
	cfg.Limits.MaxAttempts = 3
	cfg.Followup.ThresholdDays = 7
	cfg.Followup.StaleDays = 14
	cfg.Followup.RecentReplyDays = 7
	cfg.Followup.DefaultReminderDays = 7
	cfg.Database.Path = "jobtrack.db"
	cfg.Logging.Level = "info"
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JOBTRACK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("JOBTRACK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("JOBTRACK_SENDER_NAME"); v != "" {
		cfg.Sender.Name = v
	}
	if v := os.Getenv("JOBTRACK_CREDS_PATH"); v != "" {
		cfg.Credentials.Path = v
	}
}

func validate(cfg *Config) error {
	if cfg.Limits.MaxEmailsPerDay <= 0 {
		return errors.New("limits.max_emails_per_day must be > 0")
	}
	if cfg.Limits.RateLimitSeconds < 0 {
		return errors.New("limits.rate_limit_seconds must be >= 0")
	}
	if cfg.Limits.MaxAttempts <= 0 {
		return errors.New("limits.max_attempts must be > 0")
	}
	if cfg.Followup.ThresholdDays <= 0 {
		return errors.New("followup.threshold_days must be > 0")
	}
	if cfg.Followup.StaleDays <= 0 {
		return errors.New("followup.stale_days must be > 0")
	}
	if cfg.Followup.RecentReplyDays <= 0 {
		return errors.New("followup.recent_reply_days must be > 0")
	}
	if cfg.Followup.DefaultReminderDays <= 0 {
		return errors.New("followup.default_reminder_days must be > 0")
	}
	if cfg.Database.Path == "" {
		return errors.New("database.path is required")
	}
	return nil
}
