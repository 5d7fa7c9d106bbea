package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

// maxPDFPages bounds how much of a document is read for classification; the
// opening pages carry the title page, copyright and preface.
const maxPDFPages = 5

func (d *Dispatcher) extractPDF(_ context.Context, path string) (record *domain.EbookRecord, err error) {
	// The parser panics on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()

	var pages []string
	for pageNum := 1; pageNum <= totalPages && pageNum <= maxPDFPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, pageErr := pageText(page)
		if pageErr != nil {
			d.logger.Warn("pdf_page_skipped",
				"path", path,
				"page", pageNum,
				"error", pageErr,
			)
			continue
		}
		pages = append(pages, text)
	}

	info := reader.Trailer().Key("Info")
	record = &domain.EbookRecord{
		Path:             path,
		Extension:        domain.ExtPDF,
		Title:            infoString(info, "Title"),
		Author:           infoString(info, "Author"),
		Subject:          infoString(info, "Subject"),
		Keywords:         infoString(info, "Keywords"),
		CreationDate:     infoString(info, "CreationDate"),
		ModificationDate: infoString(info, "ModDate"),
		Producer:         infoString(info, "Producer"),
		Creator:          infoString(info, "Creator"),
		NumPages:         totalPages,
		ExtractedText:    truncateRunes(strings.Join(pages, "\n"), domain.MaxExtractedText),
	}
	record.Year = deriveYear(record.CreationDate, record.ModificationDate)
	return record, nil
}

func pageText(page pdf.Page) (text string, err error) {
	// GetPlainText panics on fonts the library cannot decode; a failed page
	// is skipped, not fatal for the file.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page text panic: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.Text())
}
