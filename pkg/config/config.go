package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for tably-cli.
// Configuration comes from a YAML file under the user config directory with
// environment variable overrides. Environment variables always win.
type Config struct {
	// APIBaseURL is the backend server root. The /api/v1 prefix is appended
	// by the gateway, not configured here.
	APIBaseURL string `yaml:"api_base_url" env:"TABLY_API_BASE_URL" env-default:"https://app.tably.ai"`

	// PollIntervalMS is the onboarding status poll interval in milliseconds.
	// The backend contract assumes 2000ms; lowering it hammers the server.
	PollIntervalMS int `yaml:"poll_interval_ms" env:"TABLY_POLL_INTERVAL_MS" env-default:"2000"`

	// TokenPath overrides where the bearer token is persisted. Empty means
	// <user config dir>/tably/token.
	TokenPath string `yaml:"token_path" env:"TABLY_TOKEN_PATH" env-default:""`

	LogLevel  string `yaml:"log_level" env:"TABLY_LOG_LEVEL" env-default:"warn"`
	LogFormat string `yaml:"log_format" env:"TABLY_LOG_FORMAT" env-default:"console"`

	Version string `yaml:"-"` // Set at load time, not from config
}

// Dir returns the tably configuration directory, creating nothing.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "tably"), nil
}

// Load reads configuration from config.yaml in the tably config directory,
// with environment variable overrides. A missing file is fine; env vars and
// defaults apply. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "config.yaml")

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(dir, "token")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMS)
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// WriteDefault writes a starter config.yaml with the default values to the
// tably config directory and returns its path. Fails if the file already
// exists.
func WriteDefault() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	defaults := Config{
		APIBaseURL:     "https://app.tably.ai",
		PollIntervalMS: 2000,
		LogLevel:       "warn",
		LogFormat:      "console",
	}
	encoded, err := yaml.Marshal(&defaults)
	if err != nil {
		return "", fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
