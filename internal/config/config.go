package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Listen       string          `yaml:"listen"`
	H2C          bool            `yaml:"h2c"`
	StaticDir    string          `yaml:"static_dir"`
	MaxBodyBytes int64           `yaml:"max_body_bytes"`
	Spec         SpecConfig      `yaml:"spec"`
	Auth         AuthConfig      `yaml:"auth"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	CORS         CORSConfig      `yaml:"cors"`
	Log          LogConfig       `yaml:"log"`
}

type SpecConfig struct {
	Path     string `yaml:"path"`
	Title    string `yaml:"title"`
	Version  string `yaml:"version"`
	BasePath string `yaml:"base_path"`
}

type AuthConfig struct {
	Header string            `yaml:"header"`
	Keys   map[string]string `yaml:"keys"` // client name -> key; empty disables auth
}

type RateLimitConfig struct {
	Rate  float64 `yaml:"rate"` // requests per second; 0 disables
	Burst int     `yaml:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and applies defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.Spec.Path == "" {
		c.Spec.Path = "/api/v1/spec"
	}
	if c.Spec.Title == "" {
		c.Spec.Title = "Authorization Service"
	}
	if c.Spec.Version == "" {
		c.Spec.Version = "1.0.0"
	}
	// Document paths carry the full route path, so the base path stays at
	// the root.
	if c.Spec.BasePath == "" {
		c.Spec.BasePath = "/"
	}
	if c.Auth.Header == "" {
		c.Auth.Header = "Authorization"
	}
	if c.CORS.AllowedOrigins == nil {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.RateLimit.Rate > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = max(1, int(c.RateLimit.Rate))
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Spec.Path, "/") {
		return fmt.Errorf("%w: spec.path %q must start with a slash", ErrInvalid, c.Spec.Path)
	}
	if !strings.HasPrefix(c.Spec.BasePath, "/") {
		return fmt.Errorf("%w: spec.base_path %q must start with a slash", ErrInvalid, c.Spec.BasePath)
	}
	if c.RateLimit.Rate < 0 {
		return fmt.Errorf("%w: rate_limit.rate must not be negative", ErrInvalid)
	}
	for client, key := range c.Auth.Keys {
		if key == "" {
			return fmt.Errorf("%w: auth.keys.%s is empty", ErrInvalid, client)
		}
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", ErrInvalid, c.Log.Format)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return level, nil
}

// NewLogger builds the process logger writing to stderr.
func (l LogConfig) NewLogger() *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
