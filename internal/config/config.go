// Package config loads client configuration.
//
// Sources, lowest priority first: defaults, renextract.yaml, RENEXTRACT_*
// environment variables (api.base_url → RENEXTRACT_API_BASE_URL), then
// any flags bound by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is where the backend listens when started locally.
	DefaultBaseURL = "http://127.0.0.1:5000/api"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RENEXTRACT"
)

// Config is the root configuration.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Log        LogConfig        `mapstructure:"log"`
	Settings   SettingsConfig   `mapstructure:"settings"`
	Startup    StartupConfig    `mapstructure:"startup"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	History    HistoryConfig    `mapstructure:"history"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	UI         UIConfig         `mapstructure:"ui"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DialogTimeout time.Duration `mapstructure:"dialog_timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// SettingsConfig configures settings persistence.
type SettingsConfig struct {
	SyncDebounce time.Duration `mapstructure:"sync_debounce"`
}

// StartupConfig staggers the initial loads.
type StartupConfig struct {
	SettingsDelay time.Duration `mapstructure:"settings_delay"`
	ProjectDelay  time.Duration `mapstructure:"project_delay"`
}

// ExtractionConfig tunes extraction follow-ups.
type ExtractionConfig struct {
	OpenDelay time.Duration `mapstructure:"open_delay"`
}

// HistoryConfig configures the local run-history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WorkerConfig sizes the background pool.
type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// UIConfig configures the front ends.
type UIConfig struct {
	Language string `mapstructure:"language"`
}

// New returns a viper instance with defaults, search paths and env
// bindings set, ready for flag binding and Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("renextract")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "renextract"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads the optional config file and returns the validated config.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would break the client at runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.DialogTimeout <= 0 {
		return fmt.Errorf("api.dialog_timeout must be positive")
	}
	if c.Settings.SyncDebounce < 0 || c.Startup.SettingsDelay < 0 ||
		c.Startup.ProjectDelay < 0 || c.Extraction.OpenDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// DefaultHistoryPath follows XDG_DATA_HOME, falling back to
// ~/.local/share.
func DefaultHistoryPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "renextract", "history.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.dialog_timeout", "60s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("settings.sync_debounce", "500ms")

	v.SetDefault("startup.settings_delay", "100ms")
	v.SetDefault("startup.project_delay", "1s")

	v.SetDefault("extraction.open_delay", "150ms")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("worker.pool_size", 8)

	v.SetDefault("ui.language", "fr")
}
