package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Limits.MaxEmailsPerDay != 50 {
		t.Errorf("MaxEmailsPerDay = %d, want 50", cfg.Limits.MaxEmailsPerDay)
	}
	if cfg.Limits.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Limits.MaxAttempts)
	}
	if cfg.Followup.ThresholdDays != 7 || cfg.Followup.StaleDays != 14 {
		t.Errorf("followup windows = %d/%d, want 7/14", cfg.Followup.ThresholdDays, cfg.Followup.StaleDays)
	}
	if cfg.Database.Path != "jobtrack.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
sender:
  name: Dante Agarwal
limits:
  max_emails_per_day: 10
  rate_limit_seconds: 2
followup:
  stale_days: 21
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sender.Name != "Dante Agarwal" {
		t.Errorf("Sender.Name = %q", cfg.Sender.Name)
	}
	if cfg.Limits.MaxEmailsPerDay != 10 || cfg.Limits.RateLimitSeconds != 2 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Followup.StaleDays != 21 {
		t.Errorf("StaleDays = %d, want 21", cfg.Followup.StaleDays)
	}
	// Untouched keys keep their defaults.
	if cfg.Limits.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default 3", cfg.Limits.MaxAttempts)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("JOBTRACK_DB_PATH", "/tmp/elsewhere.db")
	t.Setenv("JOBTRACK_SENDER_NAME", "Env Name")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/elsewhere.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Sender.Name != "Env Name" {
		t.Errorf("Sender.Name = %q", cfg.Sender.Name)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero daily cap", "limits:\n  max_emails_per_day: 0\n"},
		{"zero recent reply window", "followup:\n  recent_reply_days: 0\n"},
		{"negative reminder horizon", "followup:\n  default_reminder_days: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("Load accepted an invalid config")
			}
		})
	}
}
