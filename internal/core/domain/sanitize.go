package domain

import "strings"

// CanonicalizeCategory normalizes a category string for use as an output
// subdirectory path. The hierarchy separator "/" is preserved; ":" and "\"
// are replaced with "-". Empty input collapses to DefaultCategory.
func CanonicalizeCategory(raw string) string {
	category := strings.TrimSpace(raw)
	category = strings.ReplaceAll(category, ":", "-")
	category = strings.ReplaceAll(category, "\\", "-")
	category = strings.Trim(category, "/")
	if category == "" {
		return DefaultCategory
	}
	return category
}

// SanitizeFilenamePart makes a title/author/year fragment safe for a file
// name. Unlike categories, "/" carries no meaning here and is replaced.
func SanitizeFilenamePart(part string) string {
	return strings.ReplaceAll(part, "/", "-")
}

// ExpandFilenameTemplate substitutes {title}, {author} and {year} in format.
// Placeholders are replaced literally; unknown braces are left alone.
func ExpandFilenameTemplate(format, title, author, year string) string {
	expanded := strings.ReplaceAll(format, "{title}", title)
	expanded = strings.ReplaceAll(expanded, "{author}", author)
	expanded = strings.ReplaceAll(expanded, "{year}", year)
	return expanded
}
