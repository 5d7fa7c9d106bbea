package category

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

// Registry tracks the known category paths for one organize run. Categories
// are hierarchical, "/"-separated strings mapped directly to output
// subdirectories. The set is prefix-closed: whenever "A/B/C" is known, so are
// "A/B" and "A".
type Registry struct {
	logger *slog.Logger
	known  map[string]struct{}
	order  []string
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		known:  make(map[string]struct{}),
	}
}

// Seed records every existing subdirectory of outputDir (recursively, as a
// path relative to the root, root itself excluded) as a known category. A
// missing output directory is not an error; the run creates it later.
func (r *Registry) Seed(outputDir string) error {
	info, err := os.Stat(outputDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat output dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outputDir)
	}

	err = filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == outputDir {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		r.add(filepath.ToSlash(rel), false)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan output dir: %w", err)
	}
	return nil
}

// Register canonicalizes raw, adds it to the set together with every
// ancestor prefix, and returns the canonical category.
func (r *Registry) Register(raw string) string {
	canonical := domain.CanonicalizeCategory(raw)

	segments := strings.Split(canonical, "/")
	for i := 1; i <= len(segments); i++ {
		r.add(strings.Join(segments[:i], "/"), true)
	}
	return canonical
}

func (r *Registry) Contains(category string) bool {
	_, ok := r.known[category]
	return ok
}

// Known returns the category paths in insertion order (seeded entries first).
func (r *Registry) Known() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) add(category string, announce bool) {
	if category == "" {
		return
	}
	if _, ok := r.known[category]; ok {
		return
	}
	r.known[category] = struct{}{}
	r.order = append(r.order, category)
	if announce {
		r.logger.Info("category_registered", "category", category)
	}
}
