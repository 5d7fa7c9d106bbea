// Package report renders a run summary as an XLSX workbook with one sheet
// for organized books and one for failures.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

const (
	organizedSheet = "Organized"
	failuresSheet  = "Failures"
)

type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) Write(path string, summary *domain.RunSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(organizedSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(failuresSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeRow(f, organizedSheet, 1, "Title", "Author", "Category", "Original Path", "New Path"); err != nil {
		return err
	}
	for i, entry := range summary.Organized {
		if err := writeRow(f, organizedSheet, i+2, entry.Title, entry.Author, entry.Category, entry.OriginalPath, entry.NewPath); err != nil {
			return err
		}
	}

	if err := writeRow(f, failuresSheet, 1, "Path", "Reason"); err != nil {
		return err
	}
	for i, failure := range summary.Failures {
		if err := writeRow(f, failuresSheet, i+2, failure.Path, failure.Reason); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
