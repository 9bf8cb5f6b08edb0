package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Config represents the complete configuration for the chartfile
// application. A run's configuration is loaded once, validated, and then
// threaded into every component explicitly; nothing reads it as ambient
// state afterwards.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Form is the layout of the batch being processed: "intake" or "vf".
	Form string `mapstructure:"form" yaml:"form" json:"form"`

	// BatchNumber identifies the batch in error-ledger rows and progress
	// output.
	BatchNumber int `mapstructure:"batch_number" yaml:"batch_number" json:"batch_number"`

	// RulesFile optionally overrides the built-in extraction rules.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file" json:"rules_file"`

	Sentinels SentinelConfig  `mapstructure:"sentinels" yaml:"sentinels" json:"sentinels"`
	OCR       OCRConfig       `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Export    ExportConfig    `mapstructure:"export" yaml:"export" json:"export"`
	Ledger    LedgerConfig    `mapstructure:"ledger" yaml:"ledger" json:"ledger"`
	Directory DirectoryConfig `mapstructure:"directory" yaml:"directory" json:"directory"`
}

// SentinelConfig holds the placeholder values substituted when extraction
// fails.
type SentinelConfig struct {
	NullDate  string `mapstructure:"null_date" yaml:"null_date" json:"null_date"`
	NullPhone string `mapstructure:"null_phone" yaml:"null_phone" json:"null_phone"`
}

// OCRConfig contains recognition settings.
type OCRConfig struct {
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`
	DPI       int      `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
	// Upscale enlarges crop regions by an integer factor before
	// recognition; 1 disables it.
	Upscale int `mapstructure:"upscale" yaml:"upscale" json:"upscale"`
}

// ExportConfig controls the debug export of extracted records.
type ExportConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	OutputFile string `mapstructure:"output_file" yaml:"output_file" json:"output_file"`
	XLSXFile   string `mapstructure:"xlsx_file" yaml:"xlsx_file" json:"xlsx_file"`
}

// LedgerConfig controls where the per-form error ledgers live.
type LedgerConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// DirectoryConfig configures the connection to the external patient
// directory and its retry behavior.
type DirectoryConfig struct {
	// WebDriverURL is the WebDriver endpoint fronting the directory.
	WebDriverURL string `mapstructure:"webdriver_url" yaml:"webdriver_url" json:"webdriver_url"`
	// AppURL is the directory application itself.
	AppURL string `mapstructure:"app_url" yaml:"app_url" json:"app_url"`

	FetchAttempts int           `mapstructure:"fetch_attempts" yaml:"fetch_attempts" json:"fetch_attempts"`
	FetchBackoff  time.Duration `mapstructure:"fetch_backoff" yaml:"fetch_backoff" json:"fetch_backoff"`
	ClickAttempts int           `mapstructure:"click_attempts" yaml:"click_attempts" json:"click_attempts"`
	ClickInterval time.Duration `mapstructure:"click_interval" yaml:"click_interval" json:"click_interval"`
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if _, err := forms.ParseFormType(c.Form); err != nil {
		return err
	}
	if c.BatchNumber < 0 {
		return fmt.Errorf("batch_number must not be negative, got %d", c.BatchNumber)
	}
	if c.Sentinels.NullDate == "" {
		return errors.New("sentinels.null_date must not be empty")
	}
	if c.Sentinels.NullPhone == "" {
		return errors.New("sentinels.null_phone must not be empty")
	}
	switch c.Export.Format {
	case "", "text", "csv", "json":
	default:
		return fmt.Errorf("unknown export format %q (expected text, csv, or json)", c.Export.Format)
	}
	if c.OCR.Upscale < 1 {
		return fmt.Errorf("ocr.upscale must be at least 1, got %d", c.OCR.Upscale)
	}
	if c.Directory.FetchAttempts < 1 {
		return fmt.Errorf("directory.fetch_attempts must be at least 1, got %d", c.Directory.FetchAttempts)
	}
	if c.Directory.ClickAttempts < 1 {
		return fmt.Errorf("directory.click_attempts must be at least 1, got %d", c.Directory.ClickAttempts)
	}
	return nil
}

// FormType returns the parsed form type. Call Validate first.
func (c *Config) FormType() forms.FormType {
	t, err := forms.ParseFormType(c.Form)
	if err != nil {
		return forms.Intake
	}
	return t
}

// SentinelValues returns the sentinel set for extraction.
func (c *Config) SentinelValues() forms.Sentinels {
	s := forms.DefaultSentinels()
	if c.Sentinels.NullDate != "" {
		s.Date = c.Sentinels.NullDate
	}
	if c.Sentinels.NullPhone != "" {
		s.Phone = c.Sentinels.NullPhone
	}
	return s
}
