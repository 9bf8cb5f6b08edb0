package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chartfile/internal/config"
	"github.com/MeKo-Tech/chartfile/internal/directory"
	"github.com/MeKo-Tech/chartfile/internal/export"
	"github.com/MeKo-Tech/chartfile/internal/ocr"
	"github.com/MeKo-Tech/chartfile/internal/pipeline"
	"github.com/MeKo-Tech/chartfile/internal/raster"
)

// runCmd executes the full reconciliation pipeline against the external
// patient directory.
var runCmd = &cobra.Command{
	Use:   "run [batch.pdf]",
	Short: "Extract, match, and file a scanned batch",
	Long: `Run the full pipeline: extract a record from every page, locate the
matching patient in the external directory through the cascading search, and
file each matched page as a dated document. Patients the cascade cannot
locate are appended to the per-form error ledger.

The directory is driven through a WebDriver endpoint; the browser session is
expected to be signed in to the directory application already.

Examples:
  chartfile run Batch-1.pdf --form intake --batch 1
  chartfile run Batch-3.pdf --form vf --webdriver-url http://localhost:9515`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("webdriver-url", "http://localhost:9515", "WebDriver endpoint fronting the directory")
	runCmd.Flags().String("app-url", "", "directory application URL to navigate to on connect")
	runCmd.Flags().String("ledger-dir", ".", "directory holding the per-form error ledgers")
	runCmd.Flags().String("format", "text", "summary output format (text, csv, json)")
	runCmd.Flags().String("export-file", "", "also write the extracted records debug export to this file")
	runCmd.Flags().Int("upscale", 1, "integer upscale factor applied to crop regions before recognition")

	_ = viper.BindPFlag("directory.webdriver_url", runCmd.Flags().Lookup("webdriver-url"))
	_ = viper.BindPFlag("directory.app_url", runCmd.Flags().Lookup("app-url"))
	_ = viper.BindPFlag("ledger.dir", runCmd.Flags().Lookup("ledger-dir"))

	rootCmd.AddCommand(runCmd)
}

// applyRunFlags copies changed flags into the effective configuration for
// the keys the run command shares with extract. See applyExtractFlags.
func applyRunFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("format") {
		cfg.Export.Format, _ = flags.GetString("format")
	}
	if flags.Changed("export-file") {
		cfg.Export.OutputFile, _ = flags.GetString("export-file")
	}
	if flags.Changed("upscale") {
		cfg.OCR.Upscale, _ = flags.GetInt("upscale")
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyRunFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()

	engine := ocr.NewTesseract(
		ocr.WithLanguages(cfg.OCR.Languages...),
		ocr.WithDPI(cfg.OCR.DPI),
	)
	rasterizer := raster.NewPDFCPU()

	driver, err := directory.ConnectWebDriver(ctx, directory.WebDriverConfig{
		Endpoint: cfg.Directory.WebDriverURL,
		AppURL:   cfg.Directory.AppURL,
		Fetch: directory.FetchPolicy{
			Attempts: cfg.Directory.FetchAttempts,
			Backoff:  cfg.Directory.FetchBackoff,
		},
		Click: directory.ClickPolicy{
			Attempts: cfg.Directory.ClickAttempts,
			Interval: cfg.Directory.ClickInterval,
		},
		Locators: directory.DefaultLocators(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to directory: %w", err)
	}
	defer func() { _ = driver.Close(ctx) }()

	p, err := pipeline.New(cfg, engine, rasterizer, nil)
	if err != nil {
		return err
	}
	p = p.WithDirectory(driver, rasterizer)

	result, runErr := p.Run(ctx, args[0])

	// The debug export covers whatever was extracted, even on abort.
	if result != nil && cfg.Export.OutputFile != "" {
		meta := export.Meta{
			RunID:       uuid.NewString(),
			Batch:       cfg.BatchNumber,
			Form:        cfg.FormType(),
			GeneratedAt: time.Now(),
		}
		if err := export.SaveRecords(result.Records, meta, "csv", cfg.Export.OutputFile); err != nil {
			return fmt.Errorf("failed to write debug export: %w", err)
		}
	}

	if result != nil {
		output, err := result.Format(cfg.Export.Format)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
	}

	return runErr
}
