package domain

const (
	ExtPDF  = ".pdf"
	ExtEPUB = ".epub"
	ExtMOBI = ".mobi"
	ExtAZW3 = ".azw3"
)

const (
	UnknownValue    = "Unknown"
	DefaultCategory = "Uncategorized"
	NoSummary       = "No summary available"

	// MaxExtractedText caps extracted_text on every record, regardless of format.
	MaxExtractedText = 1000
)

// EbookRecord is the normalized extraction result for one source file.
// Extractors create it; the categorizer may overwrite Title, Author, Year,
// Summary and Category. Everything else is read-only after extraction.
type EbookRecord struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`

	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject,omitempty"`
	Keywords         string `json:"keywords,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
	Producer         string `json:"producer,omitempty"`
	Creator          string `json:"creator,omitempty"`
	NumPages         int    `json:"num_pages,omitempty"`
	ExtractedText    string `json:"extracted_text,omitempty"`
	Year             string `json:"year,omitempty"`

	// Degraded marks a record whose extraction failed and fell back to
	// filename-derived metadata.
	Degraded bool `json:"-"`
}

// ClassificationResult is one categorization outcome, from either keyword
// rules or the completion service. Category is never empty after
// canonicalization.
type ClassificationResult struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     string `json:"year"`
	Summary  string `json:"summary,omitempty"`
	Category string `json:"category"`

	// FilenameFormat holds a {title}/{author}/{year} template when the
	// instructions file supplied one.
	FilenameFormat string `json:"filename_format,omitempty"`
}

// OrganizedFileEntry records one completed copy.
type OrganizedFileEntry struct {
	OriginalPath string `json:"original_path"`
	NewPath      string `json:"new_path"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Category     string `json:"category"`
}

// FileFailure records a file the run could not place.
type FileFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// RunSummary aggregates one organize run.
type RunSummary struct {
	Organized []OrganizedFileEntry `json:"organized"`
	Failures  []FileFailure        `json:"failures,omitempty"`

	ExtractionFallbacks int `json:"extraction_fallbacks"`
	BatchFallbacks      int `json:"batch_fallbacks"`
}

// SupportedExtension reports whether ext (lowercased, with leading dot) has a
// real extraction strategy.
func SupportedExtension(ext string) bool {
	switch ext {
	case ExtPDF, ExtEPUB, ExtMOBI, ExtAZW3:
		return true
	default:
		return false
	}
}

// DefaultResult builds the metadata-only result used when no classification
// output is available for a record.
func DefaultResult(record *EbookRecord) ClassificationResult {
	title := record.Title
	if title == "" {
		title = UnknownValue
	}
	author := record.Author
	if author == "" {
		author = UnknownValue
	}
	return ClassificationResult{
		Title:    title,
		Author:   author,
		Year:     UnknownValue,
		Summary:  NoSummary,
		Category: DefaultCategory,
	}
}
