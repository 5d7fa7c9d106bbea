// Package llm implements the completion-backed categorizer: single-item
// classification with a line-prefixed response contract, and the batch
// orchestrator with its delimited-section protocol and fallback policy.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/core/instructions"
	"github.com/drewherron/llm-librarian/internal/core/ports"
)

type Classifier struct {
	completion   ports.CompletionService
	instructions *instructions.Instructions
	logger       *slog.Logger
}

func NewClassifier(completion ports.CompletionService, ins *instructions.Instructions, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		completion:   completion,
		instructions: ins,
		logger:       logger,
	}
}

// Categorize sends one book to the completion service and parses the
// line-prefixed response. Missing fields default to extracted metadata; only
// a failed service call surfaces as an error.
func (c *Classifier) Categorize(ctx context.Context, record *domain.EbookRecord, existing []string) (domain.ClassificationResult, error) {
	prompt := buildSinglePrompt(record, existing, c.instructions)
	response, err := c.completion.Complete(ctx, prompt)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify %s: %w", record.Path, err)
	}

	fields := parseFields(response)
	result := resultFromFields(fields, record, c.instructions)
	if len(fields) == 0 {
		c.logger.Warn("completion_response_unparsable",
			"path", record.Path,
			"response_length", len(response),
		)
	}
	return result, nil
}
