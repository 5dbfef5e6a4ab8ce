// Package config loads scribe's settings from defaults, ~/.scribe/config.yaml,
// SCRIBE_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/storage"
)

// EnvPrefix namespaces the environment variables, e.g. SCRIBE_API_URL
const EnvPrefix = "SCRIBE"

// Config holds the application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" yaml:"api" json:"api"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage" json:"storage"`
	Posts     PostsConfig     `mapstructure:"posts" yaml:"posts" json:"posts"`
	Log       LogConfig       `mapstructure:"log" yaml:"log" json:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry" json:"telemetry"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display" json:"display"`

	// Home is the directory the config file and session live in
	Home string `mapstructure:"-" yaml:"home" json:"home"`
	// File is the config file that was read, if any
	File string `mapstructure:"-" yaml:"file,omitempty" json:"file,omitempty"`
}

// APIConfig locates the blog API. The request timeout is fixed by the
// gateway and not configurable.
type APIConfig struct {
	URL string `mapstructure:"url" yaml:"url" json:"url"`
}

// StorageConfig selects where the session is kept
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// PostsConfig tunes the feed
type PostsConfig struct {
	PerPage int `mapstructure:"per_page" yaml:"per_page" json:"per_page"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
}

// TelemetryConfig configures request tracing
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure" json:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
}

// DisplayConfig controls command output
type DisplayConfig struct {
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color" json:"no_color"`
}

// flagKeys maps persistent flag names onto config keys
var flagKeys = map[string]string{
	"api-url":    "api.url",
	"storage":    "storage.backend",
	"per-page":   "posts.per_page",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"format":     "display.format",
	"no-color":   "display.no_color",
}

// Load builds the configuration rooted at home. flags may be nil.
func Load(home string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(home, "config.yaml"))
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	file := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, "Could not read the config file", err).
				WithSuggestion(fmt.Sprintf("Fix or remove %s", v.ConfigFileUsed()))
		}
	} else {
		file = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigLoad, "Could not decode the configuration", err)
	}
	cfg.Home = home
	cfg.File = file

	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = storage.DefaultPath(home, cfg.Storage.Backend)
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://127.0.0.1:8001/api/v1")
	v.SetDefault("storage.backend", storage.BackendFile)
	v.SetDefault("storage.path", "")
	v.SetDefault("posts.per_page", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("display.format", "text")
	v.SetDefault("display.no_color", false)
}

// Validate rejects values the rest of the application cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigInvalidError("api.url", c.API.URL, "an http or https URL")
	}

	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return errors.NewConfigInvalidError("storage.backend", c.Storage.Backend, "file, sqlite, memory")
	}

	if c.Posts.PerPage < 1 || c.Posts.PerPage > 100 {
		return errors.NewConfigInvalidError("posts.per_page", c.Posts.PerPage, "1 to 100")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigInvalidError("log.level", c.Log.Level, "debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return errors.NewConfigInvalidError("log.format", c.Log.Format, "json, text")
	}

	switch c.Display.Format {
	case "text", "json", "yaml":
	default:
		return errors.NewConfigInvalidError("display.format", c.Display.Format, "text, json, yaml")
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return errors.NewConfigInvalidError("telemetry.sample_rate", c.Telemetry.SampleRate, "0.0 to 1.0")
	}
	return nil
}

// Save writes cfg as YAML to path
func Save(cfg *Config, path string) error {
	v := viper.New()

	v.Set("api.url", cfg.API.URL)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("posts.per_page", cfg.Posts.PerPage)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("telemetry.enabled", cfg.Telemetry.Enabled)
	v.Set("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.Set("telemetry.sample_rate", cfg.Telemetry.SampleRate)
	v.Set("display.format", cfg.Display.Format)
	v.Set("display.no_color", cfg.Display.NoColor)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
