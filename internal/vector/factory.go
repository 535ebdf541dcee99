package vector

import "fmt"

// IndexType selects a vector index implementation.
type IndexType string

const (
	// IndexTypeMemory uses in-memory brute-force search. Exact and fast
	// enough for resume collections well into the tens of thousands.
	IndexTypeMemory IndexType = "memory"
)

// NewVectorIndex creates a vector index of the specified type.
// Supported types: "memory" (default).
func NewVectorIndex(indexType string, dimensions int, modelName string) (VectorIndex, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions, modelName)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory)", indexType)
	}
}
