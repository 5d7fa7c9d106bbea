package rules

import (
	"context"
	"testing"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

func categorizeTitle(t *testing.T, title string, existing []string) string {
	t.Helper()
	c := New()
	result, err := c.Categorize(context.Background(), &domain.EbookRecord{Title: title}, existing)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	return result.Category
}

func TestCategorizeRefinesTechnology(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Fluent Python", "Technology/Python"},
		{"Eloquent JavaScript", "Technology/JavaScript"},
		{"Java Concurrency in Practice", "Technology/Java"},
		{"Designing Web APIs", "Technology/Web"},
		{"The Linux Command Line", "Technology"},
	}
	for _, tt := range tests {
		if got := categorizeTitle(t, tt.title, nil); got != tt.want {
			t.Fatalf("categorize(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCategorizeRefinesFiction(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"A Wizard Tale", "Fiction/Fantasy"},
		{"Classic Science Fiction Stories", "Fiction/Science Fiction"},
		{"The Detective's Last Case, a novel", "Fiction/Mystery"},
		{"A Summer Romance", "Fiction/Romance"},
		{"An Unremarkable Story", "Fiction"},
	}
	for _, tt := range tests {
		if got := categorizeTitle(t, tt.title, nil); got != tt.want {
			t.Fatalf("categorize(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCategorizeBusinessAndFallback(t *testing.T) {
	if got := categorizeTitle(t, "Principles of Marketing", nil); got != "Business" {
		t.Fatalf("expected Business, got %q", got)
	}
	if got := categorizeTitle(t, "Gardening for Beginners", nil); got != domain.DefaultCategory {
		t.Fatalf("expected %q, got %q", domain.DefaultCategory, got)
	}
}

func TestCategorizeGroupOrderTechnologyWins(t *testing.T) {
	if got := categorizeTitle(t, "Python Stories", nil); got != "Technology/Python" {
		t.Fatalf("expected technology group to win, got %q", got)
	}
}

func TestCategorizeReusesExistingCategory(t *testing.T) {
	existing := []string{"Technology/Python"}
	got := categorizeTitle(t, "Learning Python the Hard Way", existing)
	if got != "Technology/Python" {
		t.Fatalf("expected exact existing category, got %q", got)
	}
}

func TestCategorizeUsesExtractedText(t *testing.T) {
	c := New()
	record := &domain.EbookRecord{
		Title:         "Untitled Draft",
		ExtractedText: "This book covers database design and network programming.",
	}
	result, err := c.Categorize(context.Background(), record, nil)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if result.Category != "Technology" {
		t.Fatalf("expected Technology from text, got %q", result.Category)
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	c := New()
	record := &domain.EbookRecord{Title: "The Dragon's Path", ExtractedText: "an epic fantasy"}
	first, err := c.Categorize(context.Background(), record, nil)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	second, err := c.Categorize(context.Background(), record, nil)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if first.Category != second.Category {
		t.Fatalf("non-deterministic categories %q vs %q", first.Category, second.Category)
	}
}

func TestCategorizeCarriesExtractedMetadata(t *testing.T) {
	c := New()
	record := &domain.EbookRecord{Title: "Fluent Python", Author: "Luciano Ramalho", Year: "2015"}
	result, err := c.Categorize(context.Background(), record, nil)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if result.Title != "Fluent Python" || result.Author != "Luciano Ramalho" || result.Year != "2015" {
		t.Fatalf("expected extracted metadata carried over, got %+v", result)
	}
}
