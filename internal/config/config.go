// Package config provides configuration loading and validation for the site
// server and the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultAPIBaseURL         = "http://localhost:5009/api"
	DefaultPort               = 3000
	DefaultRevalidateInterval = 10 * time.Second
	DefaultCompanyLogoURL     = "https://storage.eliteresidences.cloud/bintu.png"
)

// Config represents the configuration that can be loaded from a JSON or YAML
// file. All fields are optional; environment variables and CLI flags override
// them.
type Config struct {
	APIBaseURL            string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"`                         // Jobs REST API root
	Port                  int    `json:"port,omitempty" yaml:"port,omitempty"`                                         // HTTP listen port
	RevalidateInterval    string `json:"revalidate_interval,omitempty" yaml:"revalidate_interval,omitempty"`           // Job list cache lifetime, e.g. "10s"
	DefaultCompanyLogoURL string `json:"default_company_logo_url,omitempty" yaml:"default_company_logo_url,omitempty"` // Logo for new postings
	CredentialFile        string `json:"credential_file,omitempty" yaml:"credential_file,omitempty"`                   // CLI session file
	CookieSecure          bool   `json:"cookie_secure,omitempty" yaml:"cookie_secure,omitempty"`                       // Mark the session cookie Secure
	Verbose               bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`                                   // Log every backend failure in detail
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:            DefaultAPIBaseURL,
		Port:                  DefaultPort,
		RevalidateInterval:    DefaultRevalidateInterval.String(),
		DefaultCompanyLogoURL: DefaultCompanyLogoURL,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: built-in defaults, then the file at
// path (if any), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = FromEnv().MergeWithDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv reads the configuration environment variables. Unset variables are
// left empty.
func FromEnv() *Config {
	return &Config{
		APIBaseURL:            getEnvString("API_BASE_URL", ""),
		Port:                  getEnvInt("PORT", 0),
		RevalidateInterval:    getEnvString("REVALIDATE_INTERVAL", ""),
		DefaultCompanyLogoURL: getEnvString("DEFAULT_COMPANY_LOGO_URL", ""),
		CredentialFile:        getEnvString("CREDENTIAL_FILE", ""),
		CookieSecure:          getEnvBool("COOKIE_SECURE", false),
		Verbose:               getEnvBool("VERBOSE", false),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'api_base_url' must be an absolute URL, got %q", c.APIBaseURL)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.RevalidateInterval != "" {
		d, err := time.ParseDuration(c.RevalidateInterval)
		if err != nil {
			return fmt.Errorf("config error: invalid 'revalidate_interval': %w", err)
		}
		if d < 0 {
			return fmt.Errorf("config error: 'revalidate_interval' must be non-negative")
		}
	}
	if c.DefaultCompanyLogoURL != "" {
		if _, err := url.ParseRequestURI(c.DefaultCompanyLogoURL); err != nil {
			return fmt.Errorf("config error: invalid 'default_company_logo_url': %w", err)
		}
	}
	return nil
}

// Revalidate returns the job list cache lifetime.
func (c *Config) Revalidate() time.Duration {
	if c.RevalidateInterval == "" {
		return DefaultRevalidateInterval
	}
	d, err := time.ParseDuration(c.RevalidateInterval)
	if err != nil {
		return DefaultRevalidateInterval
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.RevalidateInterval == "" {
		result.RevalidateInterval = defaults.RevalidateInterval
	}
	if result.DefaultCompanyLogoURL == "" {
		result.DefaultCompanyLogoURL = defaults.DefaultCompanyLogoURL
	}
	if result.CredentialFile == "" {
		result.CredentialFile = defaults.CredentialFile
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: true from either side wins
	result.CookieSecure = result.CookieSecure || defaults.CookieSecure
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
