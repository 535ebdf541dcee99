package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b.bin"), make([]byte, 50), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := DiskUsageBytes(dir)
	if err != nil {
		t.Fatalf("DiskUsageBytes failed: %v", err)
	}
	if n != 150 {
		t.Errorf("expected 150 bytes, got %d", n)
	}
}

func TestDiskUsageBytesMissingPath(t *testing.T) {
	n, err := DiskUsageBytes("", "/does/not/exist")
	if err != nil {
		t.Fatalf("expected missing paths to be skipped, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
}
