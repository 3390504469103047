// =============================================================================
// Kebab Dashboard - Configuration Module
// =============================================================================
//
// This module loads the application configuration from config.yaml and then
// applies environment overrides (optionally read from a .env file).
//
// LOAD ORDER:
//   1. config.yaml (missing file means "all defaults")
//   2. .env file, if present, merged into the process environment
//   3. Environment variables for secrets and deployment-specific values:
//        BACKEND_URL, BACKEND_TOKEN, WEATHER_API_KEY, LISTEN_ADDR, LOG_LEVEL
//   4. Defaults for anything still unset
//   5. Validation (export directory is created if missing)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// BACKEND
	// =========================================================================

	// BackendURL is the base URL of the REST backend that owns transactions,
	// catalog items and logins.
	BackendURL string `yaml:"backend_url"`

	// BackendToken is sent as a bearer token by the CLI commands that talk to
	// the backend directly. The web surface never uses it.
	BackendToken string `yaml:"backend_token"`

	// RequestTimeout bounds every backend and weather request.
	// Default: 15s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// =========================================================================
	// HTTP SURFACE
	// =========================================================================

	// ListenAddr is the address the serve command binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr"`

	// =========================================================================
	// REPORTING
	// =========================================================================

	// ExportDir is where the export command writes documents.
	// Default: "./exports"
	ExportDir string `yaml:"export_dir"`

	// FileNameFormat defines export file names.
	// Placeholders:
	//   {prefix}    - Report prefix, e.g. "laporan_transaksi"
	//   {timestamp} - Export time (YYYYMMDD_HHMMSS)
	//   {date}      - Filtered day, or "semua" when unfiltered
	//   {uuid}      - A random UUID
	// Default: "{prefix}_{timestamp}"
	FileNameFormat string `yaml:"file_name_format"`

	// Timezone is the IANA zone used as "local time" for day filtering and
	// for grouping timestamps that carry no zone.
	// Default: "Local"
	Timezone string `yaml:"timezone"`

	// TopProductsLimit is the length of the best seller list.
	// Default: 5
	TopProductsLimit int `yaml:"top_products_limit"`

	// =========================================================================
	// SESSION
	// =========================================================================

	Session SessionConfig `yaml:"session"`

	// =========================================================================
	// WEATHER WIDGET
	// =========================================================================

	Weather WeatherConfig `yaml:"weather"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "text".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// LogOutput is "stdout", "stderr" or a file path.
	// Default: "stderr"
	LogOutput string `yaml:"log_output"`

	location *time.Location
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	// CookieName holds the raw credential.
	// Default: "authToken"
	CookieName string `yaml:"cookie_name"`

	// MaxAge is the cookie lifetime. The credential's own expiry still wins.
	// Default: 24h
	MaxAge time.Duration `yaml:"max_age"`

	// Secure marks cookies as HTTPS only.
	Secure bool `yaml:"secure"`
}

// WeatherConfig controls the location weather widget.
type WeatherConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	CachePath string        `yaml:"cache_path"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Running without a config file is supported; defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config, ".env"); err != nil {
		return nil, err
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides merges envFile into the environment (if it exists) and
// copies the recognised variables into the configuration.
func applyEnvOverrides(config *MainConfig, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv("BACKEND_URL"); v != "" {
		config.BackendURL = v
	}
	if v := os.Getenv("BACKEND_TOKEN"); v != "" {
		config.BackendToken = v
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		config.Weather.APIKey = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		config.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 15 * time.Second
	}
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.ExportDir == "" {
		config.ExportDir = "./exports"
	}
	if config.FileNameFormat == "" {
		config.FileNameFormat = "{prefix}_{timestamp}"
	}
	if config.Timezone == "" {
		config.Timezone = "Local"
	}
	if config.TopProductsLimit <= 0 {
		config.TopProductsLimit = 5
	}
	if config.Session.CookieName == "" {
		config.Session.CookieName = "authToken"
	}
	if config.Session.MaxAge == 0 {
		config.Session.MaxAge = 24 * time.Hour
	}
	if config.Weather.BaseURL == "" {
		config.Weather.BaseURL = "http://api.weatherapi.com/v1"
	}
	if config.Weather.CachePath == "" {
		config.Weather.CachePath = "./data/weather.db"
	}
	if config.Weather.CacheTTL == 0 {
		config.Weather.CacheTTL = 30 * time.Minute
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.LogOutput == "" {
		config.LogOutput = "stderr"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", config.Timezone, err)
	}
	config.location = loc

	if _, err := os.Stat(config.ExportDir); os.IsNotExist(err) {
		if err := os.MkdirAll(config.ExportDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", config.ExportDir, err)
		}
	}

	return nil
}

// Location returns the configured timezone. It is time.Local until the
// configuration has been validated.
func (c *MainConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}
