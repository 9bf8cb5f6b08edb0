package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chartfile/internal/config"
	"github.com/MeKo-Tech/chartfile/internal/export"
	"github.com/MeKo-Tech/chartfile/internal/ocr"
	"github.com/MeKo-Tech/chartfile/internal/pipeline"
	"github.com/MeKo-Tech/chartfile/internal/raster"
)

// extractCmd derives structured records from a batch without touching the
// external directory. Useful for checking recognition quality before a run.
var extractCmd = &cobra.Command{
	Use:   "extract [batch.pdf]",
	Short: "Extract patient records from a scanned batch",
	Long: `Rasterize the batch document, recognize the field regions of every
page, and write the extracted patient records as a tabular debug export.

Examples:
  chartfile extract Batch-1.pdf --form intake
  chartfile extract Batch-1.pdf --form vf --format csv --output records.csv
  chartfile extract Batch-1.pdf --xlsx records.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("format", "text", "output format (text, csv, json)")
	extractCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	extractCmd.Flags().String("xlsx", "", "additionally write an XLSX workbook to this path")
	extractCmd.Flags().Int("dpi", 0, "assumed source DPI passed to the OCR engine")
	extractCmd.Flags().Int("upscale", 1, "integer upscale factor applied to crop regions before recognition")

	_ = viper.BindPFlag("export.xlsx_file", extractCmd.Flags().Lookup("xlsx"))
	_ = viper.BindPFlag("ocr.dpi", extractCmd.Flags().Lookup("dpi"))

	rootCmd.AddCommand(extractCmd)
}

// applyExtractFlags copies changed flags into the effective configuration.
// The format, output, and upscale flags also exist on the run command, and
// the shared viper instance keeps only one binding per key, so these are
// read off the invoked command instead of bound.
func applyExtractFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("format") {
		cfg.Export.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output") {
		cfg.Export.OutputFile, _ = flags.GetString("output")
	}
	if flags.Changed("upscale") {
		cfg.OCR.Upscale, _ = flags.GetInt("upscale")
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyExtractFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine := ocr.NewTesseract(
		ocr.WithLanguages(cfg.OCR.Languages...),
		ocr.WithDPI(cfg.OCR.DPI),
	)

	p, err := pipeline.New(cfg, engine, raster.NewPDFCPU(), nil)
	if err != nil {
		return err
	}

	records, err := p.ExtractRecords(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	meta := export.Meta{
		RunID:       uuid.NewString(),
		Batch:       cfg.BatchNumber,
		Form:        cfg.FormType(),
		GeneratedAt: time.Now(),
	}

	if cfg.Export.XLSXFile != "" {
		if err := export.WriteXLSX(records, meta, cfg.Export.XLSXFile); err != nil {
			return fmt.Errorf("failed to write XLSX export: %w", err)
		}
	}

	return export.SaveRecords(records, meta, cfg.Export.Format, cfg.Export.OutputFile)
}
