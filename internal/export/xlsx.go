package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MeKo-Tech/chartfile/internal/extract"
)

// WriteXLSX writes the records as an XLSX workbook with one data sheet and
// a metadata sheet identifying the run.
func WriteXLSX(records []extract.Record, meta Meta, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Patients"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := extract.Header()
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i, rec := range records {
		for col, value := range rec.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := writeMetaSheet(f, meta); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeMetaSheet(f *excelize.File, meta Meta) error {
	const sheet = "Run"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create meta sheet: %w", err)
	}

	rows := [][]any{
		{"Run ID", meta.RunID},
		{"Batch", meta.Batch},
		{"Form", meta.Form.String()},
		{"Generated", meta.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
