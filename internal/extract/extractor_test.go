package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractPlain(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("Senior Accountant\nCPA, 5 years GAAP"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "Senior Accountant\nCPA, 5 years GAAP" {
		t.Errorf("got %q", text)
	}
}

func TestExtractPlainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte{0x41, 0xff, 0x42}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text == "" {
		t.Error("expected sanitized text, got empty")
	}
}

func TestExtractUnknownExtensionFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("resume body"), ".resume")
	if err != nil {
		t.Fatal(err)
	}
	if text != "resume body" {
		t.Errorf("got %q", text)
	}
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	xml := `<w:document><w:body><w:p w:rsidR="0"><w:r><w:t>Jane Doe</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve">Certified Public Accountant</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	text, err := e.ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	want := "Jane Doe Certified Public Accountant"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Fatal("expected error for invalid docx")
	}
}

func TestExtractPDFInvalid(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a pdf"), ".pdf"); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestExtractFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.md")
	if err := os.WriteFile(path, []byte("# John Smith"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	text, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "# John Smith" {
		t.Errorf("got %q", text)
	}
}
