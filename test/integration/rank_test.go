// Package integration exercises the full ingestion and ranking pipeline
// against real storage and indices.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/embedding"
	"github.com/hireflow/hireflow/internal/indexer"
	"github.com/hireflow/hireflow/internal/keyword"
	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/internal/search"
	"github.com/hireflow/hireflow/internal/storage"
	"github.com/hireflow/hireflow/internal/vector"
)

type pipeline struct {
	cfg     *config.Config
	store   storage.Storage
	vectors vector.VectorIndex
	indexer *indexer.Indexer
	engine  *search.Engine
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DatabasePath:     filepath.Join(dir, "db.sqlite"),
			KeywordIndexPath: filepath.Join(dir, "keyword.bleve"),
			VectorIndexPath:  filepath.Join(dir, "vectors.bin"),
		},
		Embedding: config.EmbeddingConfig{Dimensions: 32},
		Search: config.SearchConfig{
			ChunkSize: 60, ChunkOverlap: 10,
			TopKCandidates: 20, TopN: 5,
			BoostPerMatch: 0.05, BoostCap: 0.20,
		},
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	embedder := embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	vectors, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions, embedder.ModelName())
	if err != nil {
		t.Fatal(err)
	}
	kw, err := keyword.NewBleveIndex(cfg.Storage.KeywordIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
		kw.Close()
	})
	return &pipeline{
		cfg:     cfg,
		store:   store,
		vectors: vectors,
		indexer: indexer.NewIndexer(store, embedder, vectors, kw, &cfg.Search, nil),
		engine:  search.NewEngine(store, embedder, vectors, kw, &cfg.Search),
	}
}

func TestRankFromFiles(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	resumes := t.TempDir()
	files := map[string]string{
		"alice.txt": "Alice Ngo. Staff accountant with a CPA license, eight years of audit and general ledger work.",
		"bob.txt":   "Bob Reyes. Frontend developer, React, TypeScript, design systems.",
		"cara.txt":  "Cara Smith. Backend engineer working in Go and PostgreSQL, some Kubernetes.",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(resumes, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	n, err := p.indexer.IngestDirectory(ctx, resumes, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("ingested %d files, want 3", n)
	}

	resp, err := p.engine.Rank(ctx, &models.RankQuery{
		Query: "Accountant with audit experience and a CPA license",
		TopN:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(resp.Candidates))
	}
	top := resp.Candidates[0]
	if top.Document == nil || filepath.Base(top.Document.Source) != "alice.txt" {
		t.Errorf("top candidate = %+v, want alice.txt", top.Document)
	}
	if top.Rank != 1 {
		t.Errorf("top rank = %d, want 1", top.Rank)
	}
}

func TestBoostTermsChangeOrder(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	docs := []*models.DocumentInput{
		{ID: "kube", Source: "/r/kube.txt", Content: "Platform engineer. Kubernetes Kubernetes Kubernetes operations, cluster upgrades."},
		{ID: "generic", Source: "/r/generic.txt", Content: "Platform engineer. General infrastructure operations and deployments."},
	}
	for _, d := range docs {
		if err := p.indexer.IngestDocument(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	boosted, err := p.engine.Rank(ctx, &models.RankQuery{
		Query:      "Platform engineer for infrastructure operations",
		BoostTerms: []string{"Kubernetes"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if boosted.Candidates[0].Document.ID != "kube" {
		t.Errorf("boosted top = %s, want kube", boosted.Candidates[0].Document.ID)
	}
}

func TestVectorIndexPersistenceAcrossRestart(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	err := p.indexer.IngestDocument(ctx, &models.DocumentInput{
		ID: "r1", Source: "/r/r1.txt", Content: "Machine learning engineer, PyTorch and feature pipelines.",
	})
	if err != nil {
		t.Fatal(err)
	}

	path := p.cfg.Storage.VectorIndexPath
	if err := p.vectors.Save(path); err != nil {
		t.Fatal(err)
	}

	reloaded, err := vector.NewMemoryIndex(p.cfg.Embedding.Dimensions, p.vectors.ModelName())
	if err != nil {
		t.Fatal(err)
	}
	if err := reloaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if reloaded.Size() != p.vectors.Size() {
		t.Fatalf("reloaded size %d, want %d", reloaded.Size(), p.vectors.Size())
	}

	embedder := embedding.NewHashEmbedder(p.cfg.Embedding.Dimensions)
	query, err := embedder.Embed(ctx, "machine learning engineer")
	if err != nil {
		t.Fatal(err)
	}
	before, err := p.vectors.Search(ctx, query, 1)
	if err != nil {
		t.Fatal(err)
	}
	after, err := reloaded.Search(ctx, query, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 1 || len(after) != 1 || before[0].ID != after[0].ID {
		t.Errorf("results differ after reload: %v vs %v", before, after)
	}
}

func TestDeleteRemovesFromAllStores(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	err := p.indexer.IngestDocument(ctx, &models.DocumentInput{
		ID: "gone", Source: "/r/gone.txt", Content: "Security analyst, incident response and SIEM tooling.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.indexer.DeleteDocument(ctx, "gone"); err != nil {
		t.Fatal(err)
	}

	resp, err := p.engine.Rank(ctx, &models.RankQuery{Query: "security analyst"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Candidates) != 0 {
		t.Errorf("expected empty result after delete, got %d", len(resp.Candidates))
	}
	if _, err := p.store.GetDocument(ctx, "gone"); err == nil {
		t.Error("document still present in storage")
	}
}
