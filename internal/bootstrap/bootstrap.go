// Package bootstrap wires configuration into the organize pipeline: extractor,
// classifier (keyword rules or completion-backed), category registry,
// organizer and report writer.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/drewherron/llm-librarian/internal/config"
	"github.com/drewherron/llm-librarian/internal/core/category"
	"github.com/drewherron/llm-librarian/internal/core/instructions"
	"github.com/drewherron/llm-librarian/internal/core/ports"
	"github.com/drewherron/llm-librarian/internal/core/usecase"
	"github.com/drewherron/llm-librarian/internal/infrastructure/classifier/llm"
	"github.com/drewherron/llm-librarian/internal/infrastructure/classifier/rules"
	"github.com/drewherron/llm-librarian/internal/infrastructure/extractor"
	"github.com/drewherron/llm-librarian/internal/infrastructure/library"
	"github.com/drewherron/llm-librarian/internal/infrastructure/llm/ollama"
	"github.com/drewherron/llm-librarian/internal/infrastructure/resilience"
	"github.com/drewherron/llm-librarian/internal/report"
)

// Options carry the per-run choices made on the command line, applied on top
// of the environment/file configuration.
type Options struct {
	OutputDir        string
	UseLLM           bool
	BatchSize        int
	InstructionsPath string
	DryRun           bool
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	OrganizeUC *usecase.OrganizeLibraryUseCase
	Report     ports.ReportWriter
}

func New(cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ins := &instructions.Instructions{}
	if opts.InstructionsPath != "" {
		loaded, err := instructions.Load(opts.InstructionsPath)
		if err != nil {
			return nil, fmt.Errorf("load instructions: %w", err)
		}
		ins = loaded
	}

	registry := category.NewRegistry(logger)
	if err := registry.Seed(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("seed category registry: %w", err)
	}

	organizer, err := library.New(opts.OutputDir, logger, opts.DryRun)
	if err != nil {
		return nil, fmt.Errorf("init organizer: %w", err)
	}

	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = cfg.BatchSize
	}

	var single ports.Categorizer
	var batch ports.BatchCategorizer
	if opts.UseLLM {
		rcfg := resilience.DefaultConfig()
		rcfg.RetryMaxAttempts = cfg.RetryMaxAttempts
		rcfg.RetryInitialBackoff = time.Duration(cfg.RetryInitialBackoff) * time.Second
		rcfg.BreakerEnabled = cfg.BreakerEnabled

		executor := resilience.NewExecutor(rcfg, ollama.ClassifyError)
		client := ollama.New(cfg.OllamaURL, cfg.OllamaModel, cfg.RequestsPerMinute, executor)

		classifier := llm.NewClassifier(client, ins, logger)
		single = classifier
		if batchSize > 1 {
			batch = llm.NewBatchOrchestrator(client, classifier, ins, logger)
		}
	} else {
		single = rules.New()
	}

	organizeUC := usecase.NewOrganizeLibraryUseCase(
		extractor.New(logger),
		single,
		batch,
		registry,
		organizer,
		batchSize,
		logger,
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		OrganizeUC: organizeUC,
		Report:     report.NewXLSXWriter(),
	}, nil
}
