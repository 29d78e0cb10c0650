package config

import (
	"fmt"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Config holds all configuration for ekaya-preview.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	Log LogConfig `yaml:"log"`

	// Preview rendering configuration
	Preview PreviewConfig `yaml:"preview"`

	// Translations for invalid and unsupported cell labels
	I18n I18nConfig `yaml:"i18n"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// PreviewConfig holds preview display and request limits.
type PreviewConfig struct {
	// DateLayout and DateTimeLayout are Go time layouts for valid date cells.
	DateLayout     string `yaml:"date_layout" env:"PREVIEW_DATE_LAYOUT" env-default:"2006-01-02"`
	DateTimeLayout string `yaml:"datetime_layout" env:"PREVIEW_DATETIME_LAYOUT" env-default:"2006-01-02 15:04:05"`
	// MaxRequestBytes caps the size of a preview request body.
	MaxRequestBytes int64 `yaml:"max_request_bytes" env:"PREVIEW_MAX_REQUEST_BYTES" env-default:"10485760"`
}

// I18nConfig holds translation bundle settings.
type I18nConfig struct {
	// BundlePath is an optional YAML bundle; built-in English labels are used when empty.
	BundlePath    string `yaml:"bundle_path" env:"I18N_BUNDLE_PATH" env-default:""`
	DefaultLocale string `yaml:"default_locale" env:"I18N_DEFAULT_LOCALE" env-default:"en"`
	// Watch reloads the bundle when the file changes.
	Watch bool `yaml:"watch" env:"I18N_WATCH" env-default:"false"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.BindAddr = ResolveBindAddrForDocker(cfg.BindAddr)

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validate checks values cleanenv cannot check through tags.
func (c *Config) validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Preview.MaxRequestBytes <= 0 {
		return fmt.Errorf("preview.max_request_bytes must be positive, got %d", c.Preview.MaxRequestBytes)
	}
	if c.Preview.DateLayout == "" || c.Preview.DateTimeLayout == "" {
		return fmt.Errorf("preview date layouts must not be empty")
	}
	if _, err := language.Parse(c.I18n.DefaultLocale); err != nil {
		return fmt.Errorf("i18n.default_locale: %w", err)
	}
	if c.I18n.Watch && c.I18n.BundlePath == "" {
		return fmt.Errorf("i18n.watch requires i18n.bundle_path")
	}
	return nil
}

// IsLocal reports whether the server runs in the local development environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}
