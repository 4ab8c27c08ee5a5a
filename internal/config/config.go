package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"breachradar/internal/analysis"
	"breachradar/internal/domain"
)

const (
	configPathEnv = "BREACHRADAR_CONFIG"
	databaseEnv   = "BREACHRADAR_DB"
	webhookEnv    = "TEAMS_WEBHOOK_URL"
	logLevelEnv   = "LOG_LEVEL"
)

// Duration wraps time.Duration so YAML can carry values like "24h" or "2s".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all settings required across the application. Constructed once
// at startup and passed by reference to each component; no ambient state.
type Config struct {
	Database      DatabaseConfig         `yaml:"database"`
	Logging       LoggingConfig          `yaml:"logging"`
	Feeds         FeedsConfig            `yaml:"feeds"`
	Pipeline      PipelineConfig         `yaml:"pipeline"`
	Notifications NotificationConfig     `yaml:"notifications"`
	Scoring       analysis.ScoreWeights  `yaml:"scoring"`
	Taxonomy      analysis.Taxonomy      `yaml:"taxonomy"`
	Scheduler     SchedulerConfig        `yaml:"scheduler"`
}

// DatabaseConfig locates the embedded dedup store, one file per pipeline
// variant.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls slog level and the optional rotating file sink.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// FeedsConfig groups the static feed list and fetch behavior.
type FeedsConfig struct {
	FetchDelay Duration     `yaml:"fetchDelay"`
	Timeout    Duration     `yaml:"timeout"`
	MaxEntries int          `yaml:"maxEntries"`
	Sources    []FeedConfig `yaml:"sources"`
}

// FeedConfig describes a single syndication source.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Format   string `yaml:"format"` // "rss" or "atom"
	Priority int    `yaml:"priority"`
}

// PipelineConfig captures the knobs that vary between pipeline variants.
type PipelineConfig struct {
	// RecencyWindow drops articles older than the window before extraction.
	RecencyWindow Duration `yaml:"recencyWindow"`
	// NoRecencyWindow disables the filter entirely (some variants process
	// every unseen article regardless of age).
	NoRecencyWindow bool `yaml:"noRecencyWindow"`
	// IncludeGeneral lets articles classified with the fallback label still
	// produce prospects.
	IncludeGeneral bool `yaml:"includeGeneral"`
	// MaxCompaniesPerArticle caps prospects created from one article.
	MaxCompaniesPerArticle int `yaml:"maxCompaniesPerArticle"`
	// FetchContent pulls the full article body for richer extraction.
	FetchContent bool `yaml:"fetchContent"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Teams TeamsConfig `yaml:"teams"`
}

// TeamsConfig wires the webhook sink. The URL comes exclusively from the
// environment, never from the file.
type TeamsConfig struct {
	WebhookURL string   `yaml:"-"`
	Timeout    Duration `yaml:"timeout"`
	PostDelay  Duration `yaml:"postDelay"`
}

// SchedulerConfig defines the watch-mode interval.
type SchedulerConfig struct {
	Interval Duration `yaml:"interval"`
}

// Load reads YAML configuration (if present), applies environment overrides,
// and validates required secrets. A missing webhook URL is a startup-fatal
// configuration error, reported before any network activity.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds.Sources) == 0 {
		cfg.Feeds.Sources = defaultConfig().Feeds.Sources
	}
	if len(cfg.Taxonomy) == 0 {
		cfg.Taxonomy = analysis.DefaultTaxonomy()
	}

	if cfg.Notifications.Teams.WebhookURL == "" {
		return Config{}, &domain.ConfigurationError{
			Reason: webhookEnv + " environment variable is not set",
		}
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(webhookEnv); v != "" {
		// A recurring copy-paste typo in deployments; correct it rather than
		// failing every run.
		if strings.HasPrefix(v, "https//") {
			log.Printf("config: corrected malformed %s", webhookEnv)
			v = strings.Replace(v, "https//", "https://", 1)
		}
		c.Notifications.Teams.WebhookURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}
	if override.Logging.MaxSizeMB > 0 {
		base.Logging.MaxSizeMB = override.Logging.MaxSizeMB
	}
	if override.Logging.MaxBackups > 0 {
		base.Logging.MaxBackups = override.Logging.MaxBackups
	}
	if override.Logging.MaxAgeDays > 0 {
		base.Logging.MaxAgeDays = override.Logging.MaxAgeDays
	}

	if override.Feeds.FetchDelay > 0 {
		base.Feeds.FetchDelay = override.Feeds.FetchDelay
	}
	if override.Feeds.Timeout > 0 {
		base.Feeds.Timeout = override.Feeds.Timeout
	}
	if override.Feeds.MaxEntries > 0 {
		base.Feeds.MaxEntries = override.Feeds.MaxEntries
	}
	if len(override.Feeds.Sources) > 0 {
		base.Feeds.Sources = override.Feeds.Sources
	}

	if override.Pipeline.RecencyWindow > 0 {
		base.Pipeline.RecencyWindow = override.Pipeline.RecencyWindow
	}
	if override.Pipeline.NoRecencyWindow {
		base.Pipeline.NoRecencyWindow = true
	}
	if override.Pipeline.IncludeGeneral {
		base.Pipeline.IncludeGeneral = true
	}
	if override.Pipeline.MaxCompaniesPerArticle > 0 {
		base.Pipeline.MaxCompaniesPerArticle = override.Pipeline.MaxCompaniesPerArticle
	}
	if override.Pipeline.FetchContent {
		base.Pipeline.FetchContent = true
	}

	if override.Notifications.Teams.Timeout > 0 {
		base.Notifications.Teams.Timeout = override.Notifications.Teams.Timeout
	}
	if override.Notifications.Teams.PostDelay > 0 {
		base.Notifications.Teams.PostDelay = override.Notifications.Teams.PostDelay
	}

	if override.Scoring != (analysis.ScoreWeights{}) {
		base.Scoring = override.Scoring
	}
	if len(override.Taxonomy) > 0 {
		base.Taxonomy = override.Taxonomy
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "breach_prospects.db"},
		Logging:  LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30},
		Feeds: FeedsConfig{
			FetchDelay: Duration(500 * time.Millisecond),
			Timeout:    Duration(20 * time.Second),
			MaxEntries: 40,
			Sources: []FeedConfig{
				{Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/", Format: "rss", Priority: 1},
				{Name: "TheHackerNews", URL: "https://feeds.feedburner.com/TheHackersNews", Format: "rss", Priority: 2},
				{Name: "SecurityWeek", URL: "https://feeds.feedburner.com/Securityweek", Format: "rss", Priority: 3},
				{Name: "DarkReading", URL: "https://www.darkreading.com/rss.xml", Format: "rss", Priority: 4},
				{Name: "HelpNetSecurity", URL: "https://www.helpnetsecurity.com/feed/", Format: "rss", Priority: 5},
			},
		},
		Pipeline: PipelineConfig{
			RecencyWindow:          Duration(24 * time.Hour),
			IncludeGeneral:         false,
			MaxCompaniesPerArticle: 3,
			FetchContent:           false,
		},
		Notifications: NotificationConfig{
			Teams: TeamsConfig{
				Timeout:   Duration(30 * time.Second),
				PostDelay: Duration(2 * time.Second),
			},
		},
		Scoring:   analysis.DefaultWeights(),
		Taxonomy:  analysis.DefaultTaxonomy(),
		Scheduler: SchedulerConfig{Interval: Duration(30 * time.Minute)},
	}
}
