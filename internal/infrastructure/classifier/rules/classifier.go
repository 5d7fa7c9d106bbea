// Package rules implements the deterministic keyword categorizer. Keyword
// groups are evaluated in a fixed order against the lowercased title and
// extracted text; the first group with any match wins, with a secondary pass
// narrowing to a subcategory. No LLM call is involved.
package rules

import (
	"context"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

type keywordGroup struct {
	category string
	keywords []string
	// refinements are checked in order, more specific terms first.
	refinements []refinement
}

type refinement struct {
	category string
	terms    []string
}

// Group order is significant: technology beats fiction beats business.
var keywordGroups = []keywordGroup{
	{
		category: "Technology",
		keywords: []string{
			"programming", "software", "computer", "algorithm", "code",
			"database", "network", "developer", "engineering", "linux",
			"cloud", "python", "javascript", "java", "web",
		},
		refinements: []refinement{
			{category: "Technology/Python", terms: []string{"python"}},
			// javascript before java: the longer term must win.
			{category: "Technology/JavaScript", terms: []string{"javascript", "typescript", "node.js"}},
			{category: "Technology/Java", terms: []string{"java"}},
			{category: "Technology/Web", terms: []string{"web", "html", "css", "http"}},
		},
	},
	{
		category: "Fiction",
		keywords: []string{
			"novel", "fiction", "story", "tale", "fantasy", "mystery",
			"romance", "thriller", "adventure", "dragon", "detective",
			"wizard", "magic",
		},
		refinements: []refinement{
			{category: "Fiction/Fantasy", terms: []string{"fantasy", "dragon", "wizard", "magic"}},
			{category: "Fiction/Science Fiction", terms: []string{"science fiction", "sci-fi", "spaceship", "alien", "robot"}},
			{category: "Fiction/Mystery", terms: []string{"mystery", "detective", "crime", "murder"}},
			{category: "Fiction/Romance", terms: []string{"romance", "love story"}},
		},
	},
	{
		category: "Business",
		keywords: []string{
			"business", "management", "marketing", "finance", "economics",
			"investing", "entrepreneur", "leadership", "startup",
		},
	},
}

type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Categorize is deterministic and side-effect-free. Existing categories are
// consulted before the keyword groups: a known category whose leaf segment
// appears in the title or text is reused as-is, to avoid category
// proliferation across runs.
func (c *Classifier) Categorize(_ context.Context, record *domain.EbookRecord, existing []string) (domain.ClassificationResult, error) {
	haystack := strings.ToLower(record.Title + " " + record.ExtractedText)

	result := domain.DefaultResult(record)
	if record.Year != "" {
		result.Year = record.Year
	}
	result.Category = domain.CanonicalizeCategory(categorize(haystack, existing))
	return result, nil
}

func categorize(haystack string, existing []string) string {
	for _, known := range existing {
		segments := strings.Split(known, "/")
		leaf := strings.ToLower(segments[len(segments)-1])
		if leaf != "" && strings.Contains(haystack, leaf) {
			return known
		}
	}

	for _, group := range keywordGroups {
		if !containsAny(haystack, group.keywords) {
			continue
		}
		for _, ref := range group.refinements {
			if containsAny(haystack, ref.terms) {
				return ref.category
			}
		}
		return group.category
	}
	return domain.DefaultCategory
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
