// Package extractor normalizes ebook files into domain records. Dispatch is
// strictly by lowercased file extension; per-file failures are recovered with
// a filename-derived fallback record so a single bad file never stops a run.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

const filenameSeparator = " - "

type Dispatcher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Extract builds a record for the file at path. It never fails: PDF/EPUB
// extraction errors degrade to a filename-derived record, and unsupported
// extensions produce a sentinel record.
func (d *Dispatcher) Extract(ctx context.Context, path string) *domain.EbookRecord {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case domain.ExtPDF:
		record, err := d.extractPDF(ctx, path)
		if err != nil {
			return d.fallback(path, ext, err)
		}
		return record
	case domain.ExtEPUB:
		record, err := d.extractEPUB(ctx, path)
		if err != nil {
			return d.fallback(path, ext, err)
		}
		return record
	case domain.ExtMOBI, domain.ExtAZW3:
		return recordFromFilename(path, ext)
	default:
		return &domain.EbookRecord{
			Path:          path,
			Extension:     ext,
			Title:         filepath.Base(path),
			Author:        domain.UnknownValue,
			ExtractedText: fmt.Sprintf("Unsupported file format: %s", ext),
		}
	}
}

func (d *Dispatcher) fallback(path, ext string, cause error) *domain.EbookRecord {
	d.logger.Warn("extraction_failed",
		"path", path,
		"extension", ext,
		"error", cause,
	)
	record := recordFromFilename(path, ext)
	record.ExtractedText = fmt.Sprintf("Extraction failed: %v", cause)
	record.Degraded = true
	return record
}

// recordFromFilename derives title/author by splitting the extension-stripped
// basename on the first " - ". Both default to Unknown when absent.
func recordFromFilename(path, ext string) *domain.EbookRecord {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	title := domain.UnknownValue
	author := domain.UnknownValue
	if before, after, found := strings.Cut(stem, filenameSeparator); found {
		if trimmed := strings.TrimSpace(before); trimmed != "" {
			title = trimmed
		}
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			author = trimmed
		}
	} else if trimmed := strings.TrimSpace(stem); trimmed != "" {
		title = trimmed
	}

	return &domain.EbookRecord{
		Path:      path,
		Extension: ext,
		Title:     title,
		Author:    author,
	}
}

// truncateRunes caps s at limit characters without splitting a rune.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
