package llm

import (
	"regexp"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/core/instructions"
)

// Line prefixes the completion service is asked to emit. Scanning is
// case-insensitive and the last occurrence of a prefix wins, so a model that
// restates a field mid-answer still parses.
var fieldPrefixes = []string{"title", "author", "year", "summary", "category", "filename", "format"}

var yearPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// parseFields scans a response for "Prefix: value" lines.
func parseFields(response string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		// Models occasionally bold the field labels.
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		lower := strings.ToLower(trimmed)
		for _, prefix := range fieldPrefixes {
			if strings.HasPrefix(lower, prefix+":") {
				value := strings.TrimSpace(trimmed[len(prefix)+1:])
				if value != "" {
					fields[prefix] = value
				}
				break
			}
		}
	}
	return fields
}

// resultFromFields builds a ClassificationResult from parsed fields, filling
// every gap from the record's extracted metadata per the defaulting contract.
func resultFromFields(fields map[string]string, record *domain.EbookRecord, ins *instructions.Instructions) domain.ClassificationResult {
	result := domain.ClassificationResult{
		Title:    fields["title"],
		Author:   fields["author"],
		Year:     fields["year"],
		Summary:  fields["summary"],
		Category: domain.CanonicalizeCategory(fields["category"]),
	}

	if result.Title == "" {
		result.Title = record.Title
	}
	if result.Title == "" {
		result.Title = domain.UnknownValue
	}
	if result.Author == "" {
		result.Author = record.Author
	}
	if result.Author == "" {
		result.Author = domain.UnknownValue
	}
	if !yearPattern.MatchString(result.Year) {
		if yearPattern.MatchString(record.Year) {
			result.Year = record.Year
		} else {
			result.Year = domain.UnknownValue
		}
	}

	if format, ok := filenameFormat(fields); ok {
		result.FilenameFormat = format
	} else if ins != nil {
		result.FilenameFormat = ins.FilenameFormat
	}
	return result
}

func filenameFormat(fields map[string]string) (string, bool) {
	for _, key := range []string{"filename", "format"} {
		if value, ok := fields[key]; ok && containsPlaceholder(value) {
			return value, true
		}
	}
	return "", false
}

func containsPlaceholder(s string) bool {
	return strings.Contains(s, "{title}") ||
		strings.Contains(s, "{author}") ||
		strings.Contains(s, "{year}")
}
