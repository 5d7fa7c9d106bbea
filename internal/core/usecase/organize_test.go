package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/drewherron/llm-librarian/internal/core/category"
	"github.com/drewherron/llm-librarian/internal/core/domain"
)

type extractorFake struct {
	degraded map[string]bool
}

func (f *extractorFake) Extract(_ context.Context, path string) *domain.EbookRecord {
	base := filepath.Base(path)
	return &domain.EbookRecord{
		Path:      path,
		Extension: filepath.Ext(path),
		Title:     base,
		Author:    "Author",
		Degraded:  f.degraded[base],
	}
}

type categorizerFake struct {
	calls    int
	category string
	err      error
}

func (f *categorizerFake) Categorize(_ context.Context, record *domain.EbookRecord, _ []string) (domain.ClassificationResult, error) {
	f.calls++
	if f.err != nil {
		return domain.ClassificationResult{}, f.err
	}
	return domain.ClassificationResult{
		Title:    record.Title,
		Author:   record.Author,
		Year:     "2001",
		Category: f.category,
	}, nil
}

type batchFake struct {
	batches   [][]string
	category  string
	err       error
	fallbacks int
}

func (f *batchFake) CategorizeBatch(_ context.Context, records []*domain.EbookRecord, _ []string) ([]domain.ClassificationResult, error) {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = filepath.Base(r.Path)
	}
	f.batches = append(f.batches, paths)
	if f.err != nil {
		return nil, f.err
	}
	results := make([]domain.ClassificationResult, len(records))
	for i, r := range records {
		results[i] = domain.ClassificationResult{Title: r.Title, Author: r.Author, Category: f.category}
	}
	return results, nil
}

func (f *batchFake) Fallbacks() int { return f.fallbacks }

type organizerFake struct {
	placed  []string
	failOn  string
	lastRes []domain.ClassificationResult
}

func (f *organizerFake) Place(_ context.Context, record *domain.EbookRecord, result domain.ClassificationResult) (string, error) {
	base := filepath.Base(record.Path)
	if base == f.failOn {
		return "", errors.New("disk full")
	}
	f.placed = append(f.placed, base)
	f.lastRes = append(f.lastRes, result)
	return filepath.Join("/library", result.Category, base), nil
}

func writeBooks(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRunSequentialOrganizesSupportedFiles(t *testing.T) {
	dir := writeBooks(t, "a.epub", "b.pdf", "notes.txt")

	single := &categorizerFake{category: "Fiction/Fantasy"}
	org := &organizerFake{}
	registry := category.NewRegistry(nil)
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, single, nil, registry, org, 1, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Organized) != 2 {
		t.Fatalf("organized = %d, want 2", len(summary.Organized))
	}
	if single.calls != 2 {
		t.Fatalf("categorizer calls = %d, want 2 (txt must be skipped)", single.calls)
	}
	if !registry.Contains("Fiction/Fantasy") || !registry.Contains("Fiction") {
		t.Fatalf("registry missing category or prefix: %v", registry.Known())
	}
	// WalkDir plus sort gives a deterministic order.
	if org.placed[0] != "a.epub" || org.placed[1] != "b.pdf" {
		t.Fatalf("unexpected placement order %v", org.placed)
	}
}

func TestRunClassificationErrorFallsBackToMetadata(t *testing.T) {
	dir := writeBooks(t, "a.epub")

	single := &categorizerFake{err: errors.New("model offline")}
	org := &organizerFake{}
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, single, nil, category.NewRegistry(nil), org, 1, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Organized) != 1 {
		t.Fatalf("organized = %d, want 1", len(summary.Organized))
	}
	if got := org.lastRes[0].Category; got != domain.DefaultCategory {
		t.Fatalf("category = %q, want %q", got, domain.DefaultCategory)
	}
}

func TestRunPlacementFailureIsRecordedAndSkipped(t *testing.T) {
	dir := writeBooks(t, "a.epub", "b.epub")

	org := &organizerFake{failOn: "a.epub"}
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, &categorizerFake{category: "Fiction"}, nil, category.NewRegistry(nil), org, 1, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Organized) != 1 || len(summary.Failures) != 1 {
		t.Fatalf("organized=%d failures=%d, want 1/1", len(summary.Organized), len(summary.Failures))
	}
	if summary.Failures[0].Reason != "disk full" {
		t.Fatalf("failure reason = %q", summary.Failures[0].Reason)
	}
}

func TestRunCountsExtractionFallbacks(t *testing.T) {
	dir := writeBooks(t, "a.epub", "b.epub", "c.epub")

	extractor := &extractorFake{degraded: map[string]bool{"b.epub": true, "c.epub": true}}
	uc := NewOrganizeLibraryUseCase(extractor, &categorizerFake{category: "Fiction"}, nil, category.NewRegistry(nil), &organizerFake{}, 1, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.ExtractionFallbacks != 2 {
		t.Fatalf("extraction fallbacks = %d, want 2", summary.ExtractionFallbacks)
	}
}

func TestRunBatchedChunksByBatchSize(t *testing.T) {
	names := make([]string, 5)
	for i := range names {
		names[i] = fmt.Sprintf("book%d.epub", i)
	}
	dir := writeBooks(t, names...)

	batch := &batchFake{category: "Fiction", fallbacks: 1}
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, &categorizerFake{category: "Fiction"}, batch, category.NewRegistry(nil), &organizerFake{}, 2, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(batch.batches) != 3 {
		t.Fatalf("batch calls = %d, want 3", len(batch.batches))
	}
	if len(batch.batches[0]) != 2 || len(batch.batches[2]) != 1 {
		t.Fatalf("unexpected chunk sizes %v", batch.batches)
	}
	if len(summary.Organized) != 5 {
		t.Fatalf("organized = %d, want 5", len(summary.Organized))
	}
	if summary.BatchFallbacks != 1 {
		t.Fatalf("batch fallbacks = %d, want 1", summary.BatchFallbacks)
	}
}

func TestRunBatchedErrorDefaultsWholeChunk(t *testing.T) {
	dir := writeBooks(t, "a.epub", "b.epub")

	batch := &batchFake{err: errors.New("malformed response")}
	org := &organizerFake{}
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, &categorizerFake{category: "Fiction"}, batch, category.NewRegistry(nil), org, 2, nil)

	summary, err := uc.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Organized) != 2 {
		t.Fatalf("organized = %d, want 2", len(summary.Organized))
	}
	for _, result := range org.lastRes {
		if result.Category != domain.DefaultCategory {
			t.Fatalf("category = %q, want %q", result.Category, domain.DefaultCategory)
		}
	}
}

func TestRunBatchSizeOneUsesSingleCategorizer(t *testing.T) {
	dir := writeBooks(t, "a.epub")

	single := &categorizerFake{category: "Fiction"}
	batch := &batchFake{category: "Other"}
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, single, batch, category.NewRegistry(nil), &organizerFake{}, 1, nil)

	if _, err := uc.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if single.calls != 1 || len(batch.batches) != 0 {
		t.Fatalf("single=%d batch=%d, want single only", single.calls, len(batch.batches))
	}
}

func TestRunMissingSourceDirFails(t *testing.T) {
	uc := NewOrganizeLibraryUseCase(&extractorFake{}, &categorizerFake{category: "Fiction"}, nil, category.NewRegistry(nil), &organizerFake{}, 1, nil)
	if _, err := uc.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing source dir")
	}
}
