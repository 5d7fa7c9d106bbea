package extractor

import "regexp"

// Publication-year candidates are accepted in 1900-2099 only. Patterns are
// tried in order against CreationDate first, then ModDate; the first match of
// the first matching pattern wins.
var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`),     // bare year
	regexp.MustCompile(`D:(19\d{2}|20\d{2})`),       // PDF date prefix D:YYYY...
	regexp.MustCompile(`\d{1,2}/(19\d{2}|20\d{2})`), // MM/YYYY
	regexp.MustCompile(`(19\d{2}|20\d{2})/\d{1,2}`), // YYYY/MM
}

func deriveYear(dates ...string) string {
	for _, date := range dates {
		if date == "" {
			continue
		}
		for _, pattern := range yearPatterns {
			if m := pattern.FindStringSubmatch(date); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
