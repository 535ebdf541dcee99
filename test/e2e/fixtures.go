package e2e

import (
	"archive/zip"
	"bytes"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions lists the file types exercised by the file-based
// ingestion tests. PDF is omitted because a minimal PDF with extractable
// text cannot be built inline.
var SupportedFileExtensions = []string{".txt", ".md", ".docx", ".xlsx"}

// BuildResumeFile returns the bytes of a minimal resume of the given
// extension containing the given text.
func BuildResumeFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".docx":
		return minimalDocx(text), nil
	case ".xlsx":
		return minimalXlsx(text)
	default:
		return []byte(text), nil
	}
}

func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func minimalXlsx(text string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", text); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
