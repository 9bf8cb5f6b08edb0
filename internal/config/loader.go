package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "chartfile"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "CHARTFILE"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and sets
// defaults. It returns the loaded configuration and any error encountered.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// Config file not found is fine; defaults and env vars still apply.
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	// System-wide configuration
	l.v.AddConfigPath("/etc/chartfile")

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "chartfile"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "chartfile"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("form", defaults.Form)
	l.v.SetDefault("batch_number", defaults.BatchNumber)
	l.v.SetDefault("rules_file", defaults.RulesFile)

	l.v.SetDefault("sentinels.null_date", defaults.Sentinels.NullDate)
	l.v.SetDefault("sentinels.null_phone", defaults.Sentinels.NullPhone)

	l.v.SetDefault("ocr.languages", defaults.OCR.Languages)
	l.v.SetDefault("ocr.dpi", defaults.OCR.DPI)
	l.v.SetDefault("ocr.upscale", defaults.OCR.Upscale)

	l.v.SetDefault("export.format", defaults.Export.Format)
	l.v.SetDefault("export.output_file", defaults.Export.OutputFile)
	l.v.SetDefault("export.xlsx_file", defaults.Export.XLSXFile)

	l.v.SetDefault("ledger.dir", defaults.Ledger.Dir)

	l.v.SetDefault("directory.webdriver_url", defaults.Directory.WebDriverURL)
	l.v.SetDefault("directory.app_url", defaults.Directory.AppURL)
	l.v.SetDefault("directory.fetch_attempts", defaults.Directory.FetchAttempts)
	l.v.SetDefault("directory.fetch_backoff", defaults.Directory.FetchBackoff)
	l.v.SetDefault("directory.click_attempts", defaults.Directory.ClickAttempts)
	l.v.SetDefault("directory.click_interval", defaults.Directory.ClickInterval)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		Form:        "intake",
		BatchNumber: 1,
		Sentinels: SentinelConfig{
			NullDate:  "10/10/1903",
			NullPhone: "(102) 301-2309",
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
			Upscale:   1,
		},
		Export: ExportConfig{
			Format: "text",
		},
		Ledger: LedgerConfig{
			Dir: ".",
		},
		Directory: DirectoryConfig{
			WebDriverURL:  "http://localhost:9515",
			FetchAttempts: 3,
			FetchBackoff:  time.Second,
			ClickAttempts: 120,
			ClickInterval: 500 * time.Millisecond,
		},
	}
}
