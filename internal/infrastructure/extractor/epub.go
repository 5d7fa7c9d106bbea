package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
)

// maxEPUBContentItems bounds how many content documents feed the extracted
// text, mirroring the PDF page cap.
const maxEPUBContentItems = 5

// Deliberately naive: anything between "<" and ">" is dropped. Malformed
// markup may leak residual text; that is the accepted extraction contract.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubPackage struct {
	Metadata struct {
		Titles   []string `xml:"title"`
		Creators []string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []epubManifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func (d *Dispatcher) extractEPUB(_ context.Context, filePath string) (*domain.EbookRecord, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer archive.Close()

	var container epubContainer
	if err := decodeZipXML(&archive.Reader, "META-INF/container.xml", &container); err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, fmt.Errorf("epub container lists no rootfile")
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg epubPackage
	if err := decodeZipXML(&archive.Reader, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("parse opf: %w", err)
	}

	documents := documentItems(&pkg)
	record := &domain.EbookRecord{
		Path:      filePath,
		Extension: domain.ExtEPUB,
		Title:     firstValue(pkg.Metadata.Titles),
		Author:    firstValue(pkg.Metadata.Creators),
		NumPages:  len(documents),
	}
	record.ExtractedText = truncateRunes(
		d.epubText(&archive.Reader, opfPath, documents, filePath),
		domain.MaxExtractedText,
	)
	return record, nil
}

// documentItems returns the content documents in spine order, falling back to
// manifest order when the spine resolves nothing.
func documentItems(pkg *epubPackage) []epubManifestItem {
	byID := make(map[string]epubManifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
	}

	var out []epubManifestItem
	for _, ref := range pkg.Spine.Itemrefs {
		if item, ok := byID[ref.IDRef]; ok && isContentDocument(item.MediaType) {
			out = append(out, item)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, item := range pkg.Manifest.Items {
		if isContentDocument(item.MediaType) {
			out = append(out, item)
		}
	}
	return out
}

func isContentDocument(mediaType string) bool {
	switch mediaType {
	case "application/xhtml+xml", "text/html":
		return true
	default:
		return false
	}
}

func (d *Dispatcher) epubText(reader *zip.Reader, opfPath string, documents []epubManifestItem, filePath string) string {
	opfDir := path.Dir(opfPath)

	var parts []string
	var total int
	for i, item := range documents {
		if i >= maxEPUBContentItems || total >= domain.MaxExtractedText {
			break
		}
		name := item.Href
		if opfDir != "." {
			name = path.Join(opfDir, item.Href)
		}
		raw, err := readZipFile(reader, name)
		if err != nil {
			d.logger.Warn("epub_content_skipped",
				"path", filePath,
				"item", name,
				"error", err,
			)
			continue
		}
		text := stripHTML(string(raw))
		if text == "" {
			continue
		}
		parts = append(parts, text)
		total += len([]rune(text))
	}
	return strings.Join(parts, "\n")
}

func stripHTML(markup string) string {
	text := htmlTagPattern.ReplaceAllString(markup, " ")
	return strings.Join(strings.Fields(text), " ")
}

func decodeZipXML(reader *zip.Reader, name string, out any) error {
	raw, err := readZipFile(reader, name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(raw, out)
}

func readZipFile(reader *zip.Reader, name string) ([]byte, error) {
	f, err := reader.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
