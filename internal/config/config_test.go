package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"breachradar/internal/domain"
)

func TestLoadRequiresWebhook(t *testing.T) {
	t.Setenv(webhookEnv, "")
	t.Setenv(configPathEnv, "")

	_, err := Load()

	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(webhookEnv, "https://hooks.example.com/webhook")
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseEnv, "")
	t.Setenv(logLevelEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.Path != "breach_prospects.db" {
		t.Fatalf("unexpected database path: %s", cfg.Database.Path)
	}
	if cfg.Pipeline.RecencyWindow.Std() != 24*time.Hour {
		t.Fatalf("unexpected recency window: %v", cfg.Pipeline.RecencyWindow.Std())
	}
	if len(cfg.Feeds.Sources) == 0 {
		t.Fatal("expected default feed sources")
	}
	if len(cfg.Taxonomy) == 0 {
		t.Fatal("expected default taxonomy")
	}
	if cfg.Notifications.Teams.WebhookURL != "https://hooks.example.com/webhook" {
		t.Fatalf("unexpected webhook: %s", cfg.Notifications.Teams.WebhookURL)
	}
}

func TestLoadCorrectsMalformedWebhookScheme(t *testing.T) {
	t.Setenv(webhookEnv, "https//hooks.example.com/webhook")
	t.Setenv(configPathEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Notifications.Teams.WebhookURL != "https://hooks.example.com/webhook" {
		t.Fatalf("expected corrected scheme, got %s", cfg.Notifications.Teams.WebhookURL)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	raw := `
database:
  path: custom.db
feeds:
  maxEntries: 10
  sources:
    - name: OnlyFeed
      url: https://only.example.com/feed
      format: atom
      priority: 1
pipeline:
  recencyWindow: 48h
  includeGeneral: true
scheduler:
  interval: 15m
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(webhookEnv, "https://hooks.example.com/webhook")
	t.Setenv(databaseEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.Path != "custom.db" {
		t.Fatalf("expected file override for database path, got %s", cfg.Database.Path)
	}
	if cfg.Feeds.MaxEntries != 10 {
		t.Fatalf("expected file override for max entries, got %d", cfg.Feeds.MaxEntries)
	}
	if len(cfg.Feeds.Sources) != 1 || cfg.Feeds.Sources[0].Name != "OnlyFeed" {
		t.Fatalf("expected file feed list to replace defaults, got %+v", cfg.Feeds.Sources)
	}
	if cfg.Pipeline.RecencyWindow.Std() != 48*time.Hour {
		t.Fatalf("unexpected recency window: %v", cfg.Pipeline.RecencyWindow.Std())
	}
	if !cfg.Pipeline.IncludeGeneral {
		t.Fatal("expected includeGeneral override")
	}
	if cfg.Scheduler.Interval.Std() != 15*time.Minute {
		t.Fatalf("unexpected scheduler interval: %v", cfg.Scheduler.Interval.Std())
	}

	// Untouched sections keep their defaults.
	if cfg.Feeds.FetchDelay.Std() != 500*time.Millisecond {
		t.Fatalf("expected default fetch delay preserved, got %v", cfg.Feeds.FetchDelay.Std())
	}
	if cfg.Notifications.Teams.PostDelay.Std() != 2*time.Second {
		t.Fatalf("expected default post delay preserved, got %v", cfg.Notifications.Teams.PostDelay.Std())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	raw := "database:\n  path: from-file.db\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(webhookEnv, "https://hooks.example.com/webhook")
	t.Setenv(databaseEnv, "from-env.db")
	t.Setenv(logLevelEnv, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.Path != "from-env.db" {
		t.Fatalf("expected env to win over file, got %s", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadUnreadableFileFallsBackToDefaults(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(webhookEnv, "https://hooks.example.com/webhook")
	t.Setenv(databaseEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.Path != "breach_prospects.db" {
		t.Fatalf("expected defaults, got %s", cfg.Database.Path)
	}
}

func TestDurationUnmarshal(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Window Duration `yaml:"window"`
	}
	if err := yaml.Unmarshal([]byte("window: 36h"), &cfg); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if cfg.Window.Std() != 36*time.Hour {
		t.Fatalf("unexpected duration: %v", cfg.Window.Std())
	}

	if err := yaml.Unmarshal([]byte("window: not-a-duration"), &cfg); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
