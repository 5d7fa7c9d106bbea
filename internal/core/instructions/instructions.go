// Package instructions loads the optional free-text instructions file. The
// text travels verbatim into every completion prompt, but a few embedded
// directives are also recognized locally: a filename-format line carrying
// {title}/{author}/{year} tokens, and the literal phrases toggling
// custom-vs-default categorization.
package instructions

import (
	"fmt"
	"os"
	"strings"
)

type CategoryMode string

const (
	ModeUnspecified CategoryMode = ""
	ModeCustom      CategoryMode = "custom"
	ModeDefault     CategoryMode = "default"
)

type Instructions struct {
	// Text is the file content, untouched. Appended to every prompt with
	// override priority over the built-in task list.
	Text string

	// FilenameFormat is the extracted {title}/{author}/{year} template, or
	// empty when the file does not supply one.
	FilenameFormat string

	Mode CategoryMode
}

// Load reads and parses the instructions file at path.
func Load(path string) (*Instructions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instructions file: %w", err)
	}
	return Parse(string(raw)), nil
}

// Parse extracts the recognized directives from text. Text itself is kept
// verbatim regardless of what is recognized.
func Parse(text string) *Instructions {
	ins := &Instructions{Text: text}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "use your own categories") {
		ins.Mode = ModeCustom
	}
	if strings.Contains(lower, "use default categories") {
		ins.Mode = ModeDefault
	}

	for _, line := range strings.Split(text, "\n") {
		format, ok := filenameFormatFromLine(line)
		if ok {
			ins.FilenameFormat = format
		}
	}
	return ins
}

func filenameFormatFromLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !containsPlaceholder(trimmed) {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"filename:", "format:", "filename format:"} {
		if strings.HasPrefix(lower, prefix) {
			value := strings.TrimSpace(trimmed[len(prefix):])
			if containsPlaceholder(value) {
				return value, true
			}
			return "", false
		}
	}
	return trimmed, true
}

func containsPlaceholder(s string) bool {
	return strings.Contains(s, "{title}") ||
		strings.Contains(s, "{author}") ||
		strings.Contains(s, "{year}")
}
