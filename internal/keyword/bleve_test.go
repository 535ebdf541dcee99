package keyword

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hireflow/hireflow/internal/models"
)

func newTestBleve(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex(filepath.Join(t.TempDir(), "keyword.bleve"))
	if err != nil {
		t.Fatalf("NewBleveIndex failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestBleveIndexAndSearch(t *testing.T) {
	idx := newTestBleve(t)
	ctx := context.Background()

	docs := map[string]*models.Document{
		"resume:1": {ID: "resume:1", Source: "/r/alice.pdf", Content: "Alice. Certified Public Accountant, CPA license, audit experience."},
		"resume:2": {ID: "resume:2", Source: "/r/bob.pdf", Content: "Bob. Software engineer, Go and Kubernetes."},
	}
	for id, doc := range docs {
		if err := idx.Index(ctx, id, doc); err != nil {
			t.Fatalf("Index failed: %v", err)
		}
	}

	hits, err := idx.Search(ctx, "CPA", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "resume:1" {
		t.Fatalf("expected resume:1 for CPA, got %+v", hits)
	}
	if hits[0].Score <= 0 {
		t.Errorf("expected positive score, got %f", hits[0].Score)
	}

	// Acronyms must match without stemming interference.
	hits, err = idx.Search(ctx, "kubernetes", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "resume:2" {
		t.Fatalf("expected resume:2 for kubernetes, got %+v", hits)
	}
}

func TestBleveDelete(t *testing.T) {
	idx := newTestBleve(t)
	ctx := context.Background()

	doc := &models.Document{ID: "resume:1", Source: "/r/a.txt", Content: "python developer"}
	if err := idx.Index(ctx, "resume:1", doc); err != nil {
		t.Fatal(err)
	}
	n, _ := idx.DocCount()
	if n != 1 {
		t.Fatalf("expected 1 doc, got %d", n)
	}

	if err := idx.Delete(ctx, "resume:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	hits, err := idx.Search(ctx, "python", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits after delete, got %d", len(hits))
	}
}

func TestBleveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyword.bleve")
	ctx := context.Background()

	idx, err := NewBleveIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Index(ctx, "resume:1", &models.Document{ID: "resume:1", Source: "/r/a.txt", Content: "terraform"}); err != nil {
		t.Fatal(err)
	}
	idx.Close()

	reopened, err := NewBleveIndex(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	hits, err := reopened.Search(ctx, "terraform", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("expected persisted doc after reopen, got %d hits", len(hits))
	}
}
