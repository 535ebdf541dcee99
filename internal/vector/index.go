// Package vector provides vector index and similarity search over
// candidate resume embeddings.
package vector

import (
	"context"
	"errors"
)

// Sentinel errors for index operations. Callers match with errors.Is.
var (
	// ErrDimensionMismatch is returned when a vector's dimension does not
	// match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrIndexNotFound is returned by Load when no index exists at the path.
	ErrIndexNotFound = errors.New("vector index not found")
	// ErrIndexCorrupt is returned by Load when the file exists but cannot
	// be decoded as an index.
	ErrIndexCorrupt = errors.New("vector index corrupt")
	// ErrModelMismatch is returned by Load when the persisted index was
	// built with a different embedding model.
	ErrModelMismatch = errors.New("vector index model mismatch")
)

// VectorIndex defines vector storage and similarity search.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Dimensions() int
	ModelName() string
	Close() error
}

// VectorResult is a single vector search hit (ID is the chunk ID).
type VectorResult struct {
	ID    string
	Score float64 // Cosine similarity for normalized vectors (0-1)
}
