package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chartfile/internal/config"
)

func TestExtractCommand(t *testing.T) {
	assert.NotNil(t, extractCmd)
	assert.True(t, strings.HasPrefix(extractCmd.Use, "extract"))
	assert.NotEmpty(t, extractCmd.Short)
	assert.NotEmpty(t, extractCmd.Long)
}

func TestExtractCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	extractCmd.SetOut(buf)
	extractCmd.SetErr(buf)

	err := extractCmd.Help()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Rasterize the batch document")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Flags:")
}

func TestExtractCommandFlags(t *testing.T) {
	flags := extractCmd.Flags()

	for _, name := range []string{"format", "output", "xlsx", "dpi", "upscale"} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestExtractCommandRequiresFile(t *testing.T) {
	err := extractCmd.Args(extractCmd, []string{})
	require.Error(t, err)

	err = extractCmd.Args(extractCmd, []string{"batch.pdf"})
	require.NoError(t, err)
}

func TestApplyExtractFlagsOverridesSharedKeys(t *testing.T) {
	flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.StringP("output", "o", "", "")
	flags.Int("upscale", 1, "")
	require.NoError(t, flags.Parse([]string{"--format", "csv", "-o", "records.csv", "--upscale", "2"}))

	cfg := config.DefaultConfig()
	applyExtractFlags(flags, cfg)

	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "records.csv", cfg.Export.OutputFile)
	assert.Equal(t, 2, cfg.OCR.Upscale)
}

func TestApplyExtractFlagsKeepsConfigValuesWhenUnset(t *testing.T) {
	flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.StringP("output", "o", "", "")
	flags.Int("upscale", 1, "")
	require.NoError(t, flags.Parse(nil))

	cfg := config.DefaultConfig()
	cfg.Export.Format = "json"
	cfg.OCR.Upscale = 3
	applyExtractFlags(flags, cfg)

	// Flag defaults must not shadow values coming from the config file.
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, 3, cfg.OCR.Upscale)
}
