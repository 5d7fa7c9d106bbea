package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "librarian", "info", "json")
	logger.Info("hello", "key", "value")

	line := buf.String()
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"service":"librarian"`) {
		t.Fatalf("unexpected json log line: %q", line)
	}
}

func TestNewWithWriterTextFormatAndLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "librarian", "warn", "text")

	logger.Info("suppressed")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info must be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got.String() != "INFO" {
		t.Fatalf("parseLevel = %v, want INFO", got)
	}
}
