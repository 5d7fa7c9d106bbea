// Package library places classified ebooks into the output tree. The
// category string maps directly to a subdirectory path; the filename comes
// from a template or the default "{title} - {author}" pattern.
package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

type Organizer struct {
	outputDir string
	logger    *slog.Logger
	dryRun    bool
}

func New(outputDir string, logger *slog.Logger, dryRun bool) (*Organizer, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", domain.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{
		outputDir: outputDir,
		logger:    logger,
		dryRun:    dryRun,
	}, nil
}

// Place computes the destination for record under the result's category and
// copies the source file there, preserving its modification time. Existing
// destinations are never overwritten; a " (2)", " (3)", ... suffix
// disambiguates. In dry-run mode the path is computed but nothing is copied.
func (o *Organizer) Place(_ context.Context, record *domain.EbookRecord, result domain.ClassificationResult) (string, error) {
	category := domain.CanonicalizeCategory(result.Category)
	destDir := filepath.Join(o.outputDir, filepath.FromSlash(category))

	destPath := nextAvailablePath(filepath.Join(destDir, o.filename(record, result)))

	if o.dryRun {
		o.logger.Info("dry_run_placement", "from", record.Path, "to", destPath)
		return destPath, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	if err := copyPreservingMetadata(record.Path, destPath); err != nil {
		return "", fmt.Errorf("copy %s: %w", record.Path, err)
	}
	return destPath, nil
}

func (o *Organizer) filename(record *domain.EbookRecord, result domain.ClassificationResult) string {
	ext := record.Extension
	if ext == "" {
		ext = filepath.Ext(record.Path)
	}

	title := domain.SanitizeFilenamePart(result.Title)
	author := domain.SanitizeFilenamePart(result.Author)
	year := domain.SanitizeFilenamePart(result.Year)

	if result.FilenameFormat != "" {
		return domain.ExpandFilenameTemplate(result.FilenameFormat, title, author, year) + ext
	}
	return fmt.Sprintf("%s - %s%s", title, author, ext)
}

// nextAvailablePath returns path, or the first " (n)"-suffixed variant that
// does not exist yet.
func nextAvailablePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyPreservingMetadata(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// Copy through a temp file so a failed copy never leaves a truncated
	// book at the destination path.
	tmp := dst + ".tmp-" + uuid.NewString()
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chtimes(tmp, time.Now(), info.ModTime()); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
