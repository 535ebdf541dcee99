// Package embedding provides text embedding backends and caching.
package embedding

import (
	"context"
	"errors"
)

// ErrEmbedderFailure reports a failure of the embedding backend (model
// inference, remote API). Always surfaced to the caller, never swallowed.
var ErrEmbedderFailure = errors.New("embedder failure")

// Embedder produces vector embeddings for text. Embeddings are deterministic
// for identical input within a process; ModelName identifies the producing
// model so an index can reject queries embedded with an incompatible one.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
	Close() error
}
