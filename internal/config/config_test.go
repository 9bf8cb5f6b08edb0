package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, forms.Intake, cfg.FormType())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"vf form", func(c *Config) { c.Form = "vf" }, true},
		{"unknown form", func(c *Config) { c.Form = "referral" }, false},
		{"negative batch", func(c *Config) { c.BatchNumber = -1 }, false},
		{"zero batch", func(c *Config) { c.BatchNumber = 0 }, true},
		{"empty null date", func(c *Config) { c.Sentinels.NullDate = "" }, false},
		{"empty null phone", func(c *Config) { c.Sentinels.NullPhone = "" }, false},
		{"json export", func(c *Config) { c.Export.Format = "json" }, true},
		{"unknown export format", func(c *Config) { c.Export.Format = "xml" }, false},
		{"zero upscale", func(c *Config) { c.OCR.Upscale = 0 }, false},
		{"zero fetch attempts", func(c *Config) { c.Directory.FetchAttempts = 0 }, false},
		{"zero click attempts", func(c *Config) { c.Directory.ClickAttempts = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSentinelValues(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.SentinelValues()
	assert.Equal(t, forms.DefaultSentinels(), s)

	cfg.Sentinels.NullDate = "01/01/1900"
	cfg.Sentinels.NullPhone = "(000) 000-0000"
	s = cfg.SentinelValues()
	assert.Equal(t, "01/01/1900", s.Date)
	assert.Equal(t, "(000) 000-0000", s.Phone)
	assert.Equal(t, forms.DefaultSentinels().Text, s.Text)
}

func TestFormTypeFallsBackToIntake(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Form = "garbage"
	assert.Equal(t, forms.Intake, cfg.FormType())
}

func TestLoaderDefaults(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Form, cfg.Form)
	assert.Equal(t, DefaultConfig().Directory.WebDriverURL, cfg.Directory.WebDriverURL)
}

func TestLoaderWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartfile.yaml")
	content := "form: vf\nbatch_number: 12\nocr:\n  upscale: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vf", cfg.Form)
	assert.Equal(t, 12, cfg.BatchNumber)
	assert.Equal(t, 3, cfg.OCR.Upscale)
}

func TestLoaderWithMissingFile(t *testing.T) {
	_, err := NewLoader().LoadWithFile("no-such-config.yaml")
	require.Error(t, err)
}
