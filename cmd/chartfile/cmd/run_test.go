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

func TestRunCommand(t *testing.T) {
	assert.NotNil(t, runCmd)
	assert.True(t, strings.HasPrefix(runCmd.Use, "run"))
	assert.NotEmpty(t, runCmd.Short)
	assert.NotEmpty(t, runCmd.Long)
}

func TestRunCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	runCmd.SetOut(buf)
	runCmd.SetErr(buf)

	err := runCmd.Help()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "error ledger")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Flags:")
}

func TestRunCommandFlags(t *testing.T) {
	flags := runCmd.Flags()

	for _, name := range []string{"webdriver-url", "app-url", "ledger-dir", "format", "export-file", "upscale"} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestRunCommandRequiresFile(t *testing.T) {
	err := runCmd.Args(runCmd, []string{})
	require.Error(t, err)

	err = runCmd.Args(runCmd, []string{"batch.pdf", "extra"})
	require.Error(t, err)
}

func TestApplyRunFlagsOverridesSharedKeys(t *testing.T) {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.String("export-file", "", "")
	flags.Int("upscale", 1, "")
	require.NoError(t, flags.Parse([]string{"--format", "json", "--export-file", "debug.csv", "--upscale", "4"}))

	cfg := config.DefaultConfig()
	applyRunFlags(flags, cfg)

	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, "debug.csv", cfg.Export.OutputFile)
	assert.Equal(t, 4, cfg.OCR.Upscale)
}
