package embedding

import (
	"context"
	"math"

	"github.com/hireflow/hireflow/pkg/utils"
)

// HashModelName identifies the deterministic hash embedder in index metadata.
const HashModelName = "hash-v1"

// HashEmbedder is a deterministic embedder for tests and development.
// It derives a fixed-dimension unit vector from the text hash so the same
// text always gets the same embedding without any model on disk.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns an embedder producing deterministic embeddings of
// the given dimension.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic unit-norm embedding derived from the text hash.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := HashString(text)
	emb := make([]float32, e.dimensions)
	for i := 0; i < e.dimensions; i++ {
		emb[i] = float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelName identifies this embedder for index compatibility checks.
func (e *HashEmbedder) ModelName() string {
	return HashModelName
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
