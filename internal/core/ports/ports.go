package ports

import (
	"context"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

// TextExtractor builds a normalized record for one source file. Extraction
// failures are recovered inside the implementation (filename-derived
// fallback), so the call never fails; the walk always continues.
type TextExtractor interface {
	Extract(ctx context.Context, path string) *domain.EbookRecord
}

// Categorizer classifies a single record. existing carries the known category
// paths, passed explicitly so implementations stay free of shared state.
type Categorizer interface {
	Categorize(ctx context.Context, record *domain.EbookRecord, existing []string) (domain.ClassificationResult, error)
}

// BatchCategorizer classifies a group of records in one request. Results are
// positionally aligned to the input and the slice length always equals
// len(records); degraded entries fall back to metadata defaults.
type BatchCategorizer interface {
	CategorizeBatch(ctx context.Context, records []*domain.EbookRecord, existing []string) ([]domain.ClassificationResult, error)
}

// CompletionService is the external text-in/text-out LLM endpoint.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Organizer computes the destination path for a classified record and
// performs the copy, returning the new path.
type Organizer interface {
	Place(ctx context.Context, record *domain.EbookRecord, result domain.ClassificationResult) (string, error)
}

// ReportWriter exports a run summary to a file.
type ReportWriter interface {
	Write(path string, summary *domain.RunSummary) error
}
