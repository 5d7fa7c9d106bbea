package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/drewherron/llm-librarian/internal/bootstrap"
	"github.com/drewherron/llm-librarian/internal/config"
	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/observability/logging"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag       string
		useLLM           bool
		batchSize        int
		instructionsPath string
		reportPath       string
		assumeYes        bool
		dryRun           bool
	)

	rootCmd := &cobra.Command{
		Use:   "llm-librarian <ebook_dir> <output_dir>",
		Short: "Classify ebooks and copy them into a category tree",
		Long: `llm-librarian walks a directory of PDF, EPUB, MOBI and AZW3 files,
classifies each one (keyword rules by default, or a local Ollama model with
--llm) and copies it into <output_dir>/<category>/ under a clean filename.
Source files are never modified.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env if present; environment always wins over defaults.
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir, outputDir := args[0], args[1]

			cfg := config.Load()
			if configFlag != "" {
				if err := cfg.ApplyFile(configFlag); err != nil {
					return err
				}
			}
			logger := logging.New("llm-librarian", cfg.LogLevel, cfg.LogFormat)

			if !assumeYes && !dryRun {
				if !confirmRun(cmd, sourceDir, outputDir, useLLM) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(cfg, logger, bootstrap.Options{
				OutputDir:        outputDir,
				UseLLM:           useLLM,
				BatchSize:        batchSize,
				InstructionsPath: instructionsPath,
				DryRun:           dryRun,
			})
			if err != nil {
				return err
			}

			summary, err := app.OrganizeUC.Run(ctx, sourceDir)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)

			if reportPath != "" {
				if err := app.Report.Write(reportPath, summary); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "YAML configuration file path")
	rootCmd.Flags().BoolVar(&useLLM, "llm", false, "Classify with the configured Ollama model instead of keyword rules")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Books per completion request when using --llm (default from config)")
	rootCmd.Flags().StringVar(&instructionsPath, "instructions", "", "Path to a free-text instructions file passed to the model")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write an XLSX run report to this path")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute destinations without copying anything")

	return rootCmd
}

func confirmRun(cmd *cobra.Command, sourceDir, outputDir string, useLLM bool) bool {
	mode := "keyword rules"
	if useLLM {
		mode = "LLM"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Organize ebooks from %s into %s using %s classification.\n", sourceDir, outputDir, mode)
	fmt.Fprint(cmd.OutOrStdout(), "Continue? [y/N] ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func printSummary(cmd *cobra.Command, summary *domain.RunSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Organized %d book(s), %d failure(s).\n", len(summary.Organized), len(summary.Failures))
	if summary.ExtractionFallbacks > 0 {
		fmt.Fprintf(out, "%d file(s) used filename-derived metadata after extraction failures.\n", summary.ExtractionFallbacks)
	}
	if summary.BatchFallbacks > 0 {
		fmt.Fprintf(out, "%d batch(es) fell back to per-book classification.\n", summary.BatchFallbacks)
	}
	for _, failure := range summary.Failures {
		fmt.Fprintf(out, "  failed: %s (%s)\n", failure.Path, failure.Reason)
	}
}
