package llm

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/core/instructions"
	"github.com/drewherron/llm-librarian/internal/core/ports"
)

// Sections are matched in document order; the numeric tag is not used for
// re-ordering. Responses are aligned to input records strictly positionally.
var sectionPattern = regexp.MustCompile(`(?s)---BOOK \d+ START---(.*?)---BOOK \d+ END---`)

// BatchOrchestrator classifies a group of records in one completion request.
// When the response is unusable it falls back to per-record single-item
// calls; when it is merely incomplete, the unmatched tail gets metadata-only
// defaults with no further LLM calls.
type BatchOrchestrator struct {
	completion   ports.CompletionService
	single       ports.Categorizer
	instructions *instructions.Instructions
	logger       *slog.Logger

	fallbacks int
}

func NewBatchOrchestrator(completion ports.CompletionService, single ports.Categorizer, ins *instructions.Instructions, logger *slog.Logger) *BatchOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchOrchestrator{
		completion:   completion,
		single:       single,
		instructions: ins,
		logger:       logger,
	}
}

// Fallbacks reports how many times the orchestrator abandoned a batch
// response and reprocessed records individually.
func (o *BatchOrchestrator) Fallbacks() int {
	return o.fallbacks
}

// CategorizeBatch always returns exactly len(records) results, positionally
// aligned to the input.
func (o *BatchOrchestrator) CategorizeBatch(ctx context.Context, records []*domain.EbookRecord, existing []string) ([]domain.ClassificationResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	prompt := buildBatchPrompt(records, existing, o.instructions)
	response, err := o.completion.Complete(ctx, prompt)
	if err != nil {
		o.logger.Warn("batch_completion_failed", "batch_size", len(records), "error", err)
		return o.fallbackAll(ctx, records, existing), nil
	}

	sections := sectionPattern.FindAllStringSubmatch(response, -1)
	if len(sections) == 0 {
		o.logger.Warn("batch_response_unparsable",
			"batch_size", len(records),
			"response_length", len(response),
		)
		return o.fallbackAll(ctx, records, existing), nil
	}

	if len(sections) < len(records) {
		o.logger.Warn("batch_response_incomplete",
			"batch_size", len(records),
			"sections", len(sections),
		)
	}

	results := make([]domain.ClassificationResult, len(records))
	for i, record := range records {
		if i < len(sections) {
			results[i] = resultFromFields(parseFields(sections[i][1]), record, o.instructions)
		} else {
			results[i] = o.defaultResult(record)
		}
	}
	return results, nil
}

// fallbackAll reprocesses the whole batch one record at a time. A record
// whose individual call also fails degrades to metadata defaults; the batch
// is never dropped.
func (o *BatchOrchestrator) fallbackAll(ctx context.Context, records []*domain.EbookRecord, existing []string) []domain.ClassificationResult {
	o.fallbacks++

	results := make([]domain.ClassificationResult, len(records))
	for i, record := range records {
		result, err := o.single.Categorize(ctx, record, existing)
		if err != nil {
			o.logger.Warn("single_fallback_failed", "path", record.Path, "error", err)
			result = o.defaultResult(record)
		}
		results[i] = result
	}
	return results
}

func (o *BatchOrchestrator) defaultResult(record *domain.EbookRecord) domain.ClassificationResult {
	result := domain.DefaultResult(record)
	if o.instructions != nil {
		result.FilenameFormat = o.instructions.FilenameFormat
	}
	return result
}
