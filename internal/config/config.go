package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the REST client.
type APIConfig struct {
	// BaseURL is the root URL of the company backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RequestTimeoutSec bounds a whole request/response exchange.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`

	// ConnectTimeoutSec bounds connection establishment.
	ConnectTimeoutSec int `mapstructure:"connect_timeout_sec" yaml:"connect_timeout_sec"`

	// ProbeTimeoutSec bounds the session validation probe at startup.
	ProbeTimeoutSec int `mapstructure:"probe_timeout_sec" yaml:"probe_timeout_sec"`
}

// StreamConfig holds settings for the live notification stream.
type StreamConfig struct {
	// GracePeriodSec is the quiet window after connecting during which
	// replayed backlog notifications do not raise alerts.
	GracePeriodSec int `mapstructure:"grace_period_sec" yaml:"grace_period_sec"`

	// AlertExpirySec is how long an already-alerted notification id is
	// remembered to suppress duplicate alerts.
	AlertExpirySec int `mapstructure:"alert_expiry_sec" yaml:"alert_expiry_sec"`

	// Buffer is the capacity of the inbound event channel.
	Buffer int `mapstructure:"buffer" yaml:"buffer"`
}

// Config is the top-level application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Stream StreamConfig `mapstructure:"stream" yaml:"stream"`

	// Locale selects the language of user-facing messages ("fr", "en").
	Locale string `mapstructure:"locale" yaml:"locale"`

	// CachePath is the SQLite file holding offline snapshots.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/fieldops/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "fieldops", "config.yaml")
}

// DefaultCachePath returns the default SQLite cache location.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".config", "fieldops", "cache.db")
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			RequestTimeoutSec: 30,
			ConnectTimeoutSec: 15,
			ProbeTimeoutSec:   5,
		},
		Stream: StreamConfig{
			GracePeriodSec: 4,
			AlertExpirySec: 300,
			Buffer:         32,
		},
		Locale:    "fr",
		CachePath: DefaultCachePath(),
	}
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file yields the default configuration; the FIELDOPS_BASE_URL
// environment variable overrides the configured base URL either way.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.request_timeout_sec", 30)
	v.SetDefault("api.connect_timeout_sec", 15)
	v.SetDefault("api.probe_timeout_sec", 5)
	v.SetDefault("stream.grace_period_sec", 4)
	v.SetDefault("stream.alert_expiry_sec", 300)
	v.SetDefault("stream.buffer", 32)
	v.SetDefault("locale", "fr")
	v.SetDefault("cache_path", DefaultCachePath())

	cfg := defaultConfig()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if url := os.Getenv("FIELDOPS_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file at path, creating parent
// directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("stream", cfg.Stream)
	v.Set("locale", cfg.Locale)
	v.Set("cache_path", cfg.CachePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
