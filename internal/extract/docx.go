package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxDocumentXML = "word/document.xml"

// textNode matches <w:t>text</w:t> including variants with attributes such as
// <w:t xml:space="preserve">. Extracting text nodes directly keeps content
// searchable regardless of paragraph or run attributes.
var textNode = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// extractDOCX extracts text from .docx bytes. DOCX is a ZIP containing the
// OOXML main document at word/document.xml; all <w:t> text nodes are joined
// with spaces.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentXML {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", docxDocumentXML)
	}
	parts := textNode.FindAllStringSubmatch(string(docXML), -1)
	var b strings.Builder
	for _, p := range parts {
		text := strings.TrimSpace(p[1])
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
