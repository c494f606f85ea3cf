// Package config loads application configuration from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "MYCOOKBOOK"

// ConfigFileEnv names the environment variable pointing at an optional config
// file (YAML, TOML or JSON, chosen by extension).
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Config holds the application configuration.
type Config struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	DBPath         string        `mapstructure:"db_path"`
	CatalogBaseURL string        `mapstructure:"catalog_base_url"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// defaults lists every key with its default value. Keys are registered with
// viper so environment overrides are picked up by Unmarshal.
var defaults = map[string]any{
	"listen_addr":      "127.0.0.1:8080",
	"db_path":          "mycookbook.db",
	"catalog_base_url": "https://www.themealdb.com/api/json/v1/1/",
	"search_debounce":  "500ms",
	"session_ttl":      "30m",
	"log_level":        "info",
	"log_format":       "text",
}

// Load reads configuration and returns a validated Config. Each key can be set
// through MYCOOKBOOK_<KEY> (for example MYCOOKBOOK_DB_PATH); environment
// variables override the config file named by MYCOOKBOOK_CONFIG.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path, ok := os.LookupEnv(ConfigFileEnv); ok && path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: reading %q: %w", ConfigFileEnv, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%s_LISTEN_ADDR must not be empty", EnvPrefix)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%s_DB_PATH must not be empty", EnvPrefix)
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("%s_SEARCH_DEBOUNCE must be positive, got %s", EnvPrefix, c.SearchDebounce)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%s_SESSION_TTL must be positive, got %s", EnvPrefix, c.SessionTTL)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be text or json, got %q", EnvPrefix, c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%s_LOG_LEVEL has invalid level %q: %w", EnvPrefix, c.LogLevel, err)
	}
	return level, nil
}
