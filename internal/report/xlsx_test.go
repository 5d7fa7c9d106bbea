package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

func TestWriteProducesBothSheets(t *testing.T) {
	summary := &domain.RunSummary{
		Organized: []domain.OrganizedFileEntry{
			{
				OriginalPath: "/books/dune.epub",
				NewPath:      "/library/Fiction/Science Fiction/Dune - Herbert.epub",
				Title:        "Dune",
				Author:       "Herbert",
				Category:     "Fiction/Science Fiction",
			},
		},
		Failures: []domain.FileFailure{
			{Path: "/books/broken.pdf", Reason: "disk full"},
		},
	}

	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := NewXLSXWriter().Write(path, summary); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Organized", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if title != "Dune" {
		t.Fatalf("Organized!A2 = %q, want Dune", title)
	}
	category, _ := f.GetCellValue("Organized", "C2")
	if category != "Fiction/Science Fiction" {
		t.Fatalf("Organized!C2 = %q", category)
	}
	reason, _ := f.GetCellValue("Failures", "B2")
	if reason != "disk full" {
		t.Fatalf("Failures!B2 = %q", reason)
	}
}

func TestWriteEmptySummaryStillHasHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := NewXLSXWriter().Write(path, &domain.RunSummary{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue("Organized", "A1")
	if header != "Title" {
		t.Fatalf("Organized!A1 = %q, want Title", header)
	}
}
