package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/category"
	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/core/ports"
)

// OrganizeLibraryUseCase runs the full pipeline: walk the source directory,
// extract each file, classify (per file, or per batch when a batch
// categorizer is configured), register the category and place the copy.
// Processing is strictly sequential; the registry is the only state shared
// between iterations.
type OrganizeLibraryUseCase struct {
	extractor ports.TextExtractor
	single    ports.Categorizer
	batch     ports.BatchCategorizer
	registry  *category.Registry
	organizer ports.Organizer
	batchSize int
	logger    *slog.Logger
}

type batchFallbackCounter interface {
	Fallbacks() int
}

func NewOrganizeLibraryUseCase(
	extractor ports.TextExtractor,
	single ports.Categorizer,
	batch ports.BatchCategorizer,
	registry *category.Registry,
	organizer ports.Organizer,
	batchSize int,
	logger *slog.Logger,
) *OrganizeLibraryUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &OrganizeLibraryUseCase{
		extractor: extractor,
		single:    single,
		batch:     batch,
		registry:  registry,
		organizer: organizer,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run organizes every supported ebook under sourceDir and returns the run
// summary. Per-file failures (extraction, classification, copy) are recorded
// and skipped; only a failed directory walk aborts the run.
func (uc *OrganizeLibraryUseCase) Run(ctx context.Context, sourceDir string) (*domain.RunSummary, error) {
	paths, err := uc.collectFiles(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("walk source dir: %w", err)
	}
	uc.logger.Info("organize_run_started", "source", sourceDir, "files", len(paths))

	summary := &domain.RunSummary{}
	records := make([]*domain.EbookRecord, 0, len(paths))
	for _, path := range paths {
		record := uc.extractor.Extract(ctx, path)
		if record.Degraded {
			summary.ExtractionFallbacks++
		}
		records = append(records, record)
	}

	if uc.batch != nil && uc.batchSize > 1 {
		uc.runBatched(ctx, records, summary)
	} else {
		uc.runSequential(ctx, records, summary)
	}

	if counter, ok := uc.batch.(batchFallbackCounter); ok {
		summary.BatchFallbacks = counter.Fallbacks()
	}

	uc.logger.Info("organize_run_finished",
		"organized", len(summary.Organized),
		"failed", len(summary.Failures),
		"extraction_fallbacks", summary.ExtractionFallbacks,
		"batch_fallbacks", summary.BatchFallbacks,
	)
	return summary, nil
}

func (uc *OrganizeLibraryUseCase) runSequential(ctx context.Context, records []*domain.EbookRecord, summary *domain.RunSummary) {
	for _, record := range records {
		result, err := uc.single.Categorize(ctx, record, uc.registry.Known())
		if err != nil {
			uc.logger.Warn("classification_failed", "path", record.Path, "error", err)
			result = domain.DefaultResult(record)
		}
		uc.place(ctx, record, result, summary)
	}
}

func (uc *OrganizeLibraryUseCase) runBatched(ctx context.Context, records []*domain.EbookRecord, summary *domain.RunSummary) {
	for start := 0; start < len(records); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		results, err := uc.batch.CategorizeBatch(ctx, chunk, uc.registry.Known())
		if err != nil || len(results) != len(chunk) {
			uc.logger.Warn("batch_classification_failed",
				"batch_size", len(chunk),
				"results", len(results),
				"error", err,
			)
			results = make([]domain.ClassificationResult, len(chunk))
			for i, record := range chunk {
				results[i] = domain.DefaultResult(record)
			}
		}

		for i, record := range chunk {
			uc.place(ctx, record, results[i], summary)
		}
	}
}

func (uc *OrganizeLibraryUseCase) place(ctx context.Context, record *domain.EbookRecord, result domain.ClassificationResult, summary *domain.RunSummary) {
	result.Category = uc.registry.Register(result.Category)

	newPath, err := uc.organizer.Place(ctx, record, result)
	if err != nil {
		uc.logger.Error("placement_failed", "path", record.Path, "error", err)
		summary.Failures = append(summary.Failures, domain.FileFailure{
			Path:   record.Path,
			Reason: err.Error(),
		})
		return
	}

	uc.logger.Info("book_organized",
		"path", record.Path,
		"category", result.Category,
		"destination", newPath,
	)
	summary.Organized = append(summary.Organized, domain.OrganizedFileEntry{
		OriginalPath: record.Path,
		NewPath:      newPath,
		Title:        result.Title,
		Author:       result.Author,
		Category:     result.Category,
	})
}

// collectFiles returns the supported ebook files under sourceDir in a
// deterministic order.
func (uc *OrganizeLibraryUseCase) collectFiles(sourceDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if domain.SupportedExtension(strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
