// Package indexer ingests candidate resumes into storage, the keyword
// index, and the vector index.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/embedding"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/fileid"
	"github.com/hireflow/hireflow/internal/keyword"
	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/internal/storage"
	"github.com/hireflow/hireflow/internal/vector"
)

// Indexer ingests resumes into storage, keyword index, and vector index.
type Indexer struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	chunker      *Chunker
	config       *config.SearchConfig
	extractor    *extract.Extractor
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
// extractor may be nil; when nil, IngestFile treats all files as plain text.
func NewIndexer(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	cfg *config.SearchConfig,
	extractor *extract.Extractor,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		chunker:      NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		config:       cfg,
		extractor:    extractor,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IngestDocument ingests one candidate document: store, chunk, embed,
// index in vector and keyword. Blank content is rejected before any
// state changes.
func (idx *Indexer) IngestDocument(ctx context.Context, input *models.DocumentInput) error {
	content := Preprocess(input.Content)
	if content == "" {
		return fmt.Errorf("%w: document has no text content", models.ErrEmptyInput)
	}
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	doc := &models.Document{
		ID:       input.ID,
		Source:   input.Source,
		Content:  content,
		Metadata: input.Metadata,
	}

	chunks := idx.chunker.Chunk(doc.ID, doc.Content)
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := idx.storage.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	if err := idx.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := idx.vectorIndex.Add(ctx, chunkIDs, embeddings); err != nil {
		return fmt.Errorf("index vectors: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("index keywords: %w", err)
	}
	return nil
}

const (
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IngestFile reads a resume from path and ingests it. The document ID is
// derived from the absolute path so re-ingesting a changed file replaces
// the candidate instead of duplicating it. Unchanged files (same mtime
// and size) are skipped.
func (idx *Indexer) IngestFile(ctx context.Context, path string, allowedExts []string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}
	docID := fileid.DocID(absPath)
	if idx.unchanged(ctx, docID, info) {
		// Repopulate the keyword index in case it was opened empty.
		if doc, getErr := idx.storage.GetDocument(ctx, docID); getErr == nil {
			_ = idx.keywordIndex.Index(ctx, doc.ID, doc)
		}
		if idx.logger != nil {
			idx.logger.Debug("skipping unchanged resume", zap.String("path", absPath))
		}
		return nil
	}
	text, err := idx.extractContent(absPath)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}
	_ = idx.DeleteDocument(ctx, docID)
	input := &models.DocumentInput{
		ID:      docID,
		Source:  absPath,
		Content: text,
		Metadata: map[string]interface{}{
			// Stored as strings: UnixNano exceeds the 53-bit precision
			// of the float64 that JSON round-trips numbers through.
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	}
	if err := idx.IngestDocument(ctx, input); err != nil {
		return err
	}
	if idx.logger != nil {
		idx.logger.Debug("resume ingested", zap.String("path", absPath), zap.String("doc_id", docID))
	}
	return nil
}

// unchanged reports whether the file is already ingested with the same
// mtime and size.
func (idx *Indexer) unchanged(ctx context.Context, docID string, info os.FileInfo) bool {
	doc, err := idx.storage.GetDocument(ctx, docID)
	if err != nil || doc.Metadata == nil {
		return false
	}
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IngestDirectory walks dir recursively and ingests each regular file
// whose extension is in allowedExts (all files when the list is empty).
// Returns the number of files ingested and the first error encountered.
func (idx *Indexer) IngestDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are ingested.
		finfo, statErr := os.Stat(path)
		if statErr != nil {
			return nil
		}
		if !finfo.Mode().IsRegular() {
			return nil
		}
		if ingestErr := idx.IngestFile(ctx, path, allowedExts); ingestErr != nil {
			return ingestErr
		}
		n++
		return nil
	})
	return n, err
}

func (idx *Indexer) extractContent(path string) (string, error) {
	if idx.extractor != nil {
		return idx.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// DeleteDocument removes a candidate from all indices and storage.
func (idx *Indexer) DeleteDocument(ctx context.Context, id string) error {
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete from keyword index: %w", err)
	}
	chunks, err := idx.storage.GetChunksByDocumentID(ctx, id)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := idx.vectorIndex.Remove(ctx, chunkIDs); err != nil {
		return fmt.Errorf("delete from vector index: %w", err)
	}
	if err := idx.storage.DeleteChunksByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := idx.storage.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if idx.logger != nil {
		idx.logger.Debug("candidate deleted", zap.String("id", id))
	}
	return nil
}
