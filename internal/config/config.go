// Package config provides configuration loading and validation for the CLI and
// the HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonathan/dossier-builder/internal/taxonomy"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "DOSSIER"

// Defaults.
const (
	DefaultTemplateDir        = "templates"
	DefaultPort               = 8080
	DefaultRenderConcurrency  = 4
	DefaultEdition            = "2021"
	DefaultLogLevel           = "info"
	DefaultJWTExpirationHours = 24
	DefaultRateLimitPerMinute = 600
	DefaultRenderLimitPerHour = 120
)

// Config holds every setting. Values come from, in increasing priority: the
// defaults above, an optional config file, DOSSIER_* environment variables and
// bound command-line flags.
type Config struct {
	TemplateDir        string `mapstructure:"template_dir"`      // Directory holding the blank PDF forms
	TemplateBaseURL    string `mapstructure:"template_base_url"` // Fetch forms over HTTP instead of from TemplateDir
	DatabaseURL        string `mapstructure:"database_url"`      // PostgreSQL connection URL
	Port               int    `mapstructure:"port"`
	JWTSecret          string `mapstructure:"jwt_secret"` // Enables bearer auth on /api when set
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	RenderConcurrency  int    `mapstructure:"render_concurrency"` // Parallel renders in a bundle
	DefaultEdition     string `mapstructure:"default_edition"`
	LogLevel           string `mapstructure:"log_level"`
	Verbose            bool   `mapstructure:"verbose"`

	RateLimitEnabled   bool   `mapstructure:"rate_limit_enabled"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"` // Default limit per client and endpoint
	RenderLimitPerHour int    `mapstructure:"render_limit_per_hour"` // Limit on the PDF rendering endpoints
	RateLimitWhitelist string `mapstructure:"rate_limit_whitelist"`  // Comma-separated client IPs
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before calling Decode.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("template_dir", DefaultTemplateDir)
	v.SetDefault("template_base_url", "")
	v.SetDefault("database_url", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration_hours", DefaultJWTExpirationHours)
	v.SetDefault("render_concurrency", DefaultRenderConcurrency)
	v.SetDefault("default_edition", DefaultEdition)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("verbose", false)
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("render_limit_per_hour", DefaultRenderLimitPerHour)
	v.SetDefault("rate_limit_whitelist", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a YAML or JSON config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Load reads the optional config file at path plus the environment.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error
	if c.TemplateDir == "" && c.TemplateBaseURL == "" {
		errs = append(errs, fmt.Errorf("config error: one of 'template_dir' or 'template_base_url' is required"))
	}
	if c.TemplateBaseURL != "" && !strings.HasPrefix(c.TemplateBaseURL, "http://") && !strings.HasPrefix(c.TemplateBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("config error: 'template_base_url' must be an http(s) URL"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port))
	}
	if c.RenderConcurrency < 1 {
		errs = append(errs, fmt.Errorf("config error: 'render_concurrency' must be at least 1"))
	}
	if c.RateLimitEnabled && (c.RateLimitPerMinute < 1 || c.RenderLimitPerHour < 1) {
		errs = append(errs, fmt.Errorf("config error: rate limits must be at least 1 when rate limiting is enabled"))
	}
	if _, err := taxonomy.Load(c.DefaultEdition); err != nil {
		errs = append(errs, fmt.Errorf("config error: unknown 'default_edition' %q", c.DefaultEdition))
	}
	if c.JWTSecret != "" {
		if _, err := c.JWT(); err != nil {
			errs = append(errs, fmt.Errorf("config error: %w", err))
		}
	}
	return errors.Join(errs...)
}
