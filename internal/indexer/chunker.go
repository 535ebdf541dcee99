// Package indexer provides resume chunking and ingestion.
package indexer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/models"
)

// Chunker splits text into overlapping word-based chunks. Overlap keeps
// context that would otherwise be cut at a chunk boundary, such as an
// employment entry spanning two chunks.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
// An overlap at or above the chunk size degrades to a step of one word.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into DocumentChunks with overlapping windows.
// Empty or whitespace-only text yields no chunks.
func (c *Chunker) Chunk(docID, text string) []*models.DocumentChunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]*models.DocumentChunk, 0)
	chunkIndex := 0
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := &models.DocumentChunk{
			ID:         fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8]),
			DocumentID: docID,
			Content:    strings.Join(words[i:end], " "),
			ChunkIndex: chunkIndex,
		}
		chunks = append(chunks, chunk)
		chunkIndex++
		if end >= len(words) {
			break
		}
	}
	return chunks
}
