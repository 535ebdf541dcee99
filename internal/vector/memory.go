package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File format version for persisted indexes.
const indexFormatVersion = 1

var indexMagic = [4]byte{'H', 'F', 'V', 'X'}

// MemoryIndex is an in-memory vector index using brute-force inner product
// search. Exact search is acceptable at resume-collection scale.
type MemoryIndex struct {
	dimensions int
	modelName  string
	ids        []string
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory vector index. The model name is
// persisted with the index and checked on Load so an index built with one
// embedder is never served with another.
func NewMemoryIndex(dimensions int, modelName string) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &MemoryIndex{
		dimensions: dimensions,
		modelName:  modelName,
		ids:        make([]string, 0),
		vectors:    make([][]float32, 0),
	}, nil
}

// Add appends vectors with the given IDs. Every vector must match the
// index dimension or the whole batch is rejected.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch: %d vs %d", len(ids), len(vectors))
	}
	for i := range vectors {
		if len(vectors[i]) != m.dimensions {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vectors[i]), m.dimensions)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		vec := make([]float32, m.dimensions)
		copy(vec, vectors[i])
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, vec)
	}
	return nil
}

// Search returns the top-k vectors by inner product, highest score first.
// For unit-norm vectors the inner product equals cosine similarity.
// An empty index yields an empty result, not an error.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index expects %d", ErrDimensionMismatch, len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.ids) == 0 {
		return []*VectorResult{}, nil
	}
	scores := make([]*VectorResult, len(m.ids))
	for i, vec := range m.vectors {
		var dot float64
		for j := 0; j < m.dimensions; j++ {
			dot += float64(query[j] * vec[j])
		}
		scores[i] = &VectorResult{ID: m.ids[i], Score: dot}
	}
	// Stable sort keeps insertion order among equal scores, so repeated
	// searches over the same index return the same ordering.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}

// Remove removes vectors by ID, rebuilding the backing slices.
func (m *MemoryIndex) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		removeSet[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	newIDs := make([]string, 0, len(m.ids))
	newVectors := make([][]float32, 0, len(m.vectors))
	for i, id := range m.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, m.vectors[i])
		}
	}
	m.ids = newIDs
	m.vectors = newVectors
	return nil
}

// Save persists the index to path, creating parent directories as needed.
// Format: magic (4), version (4), modelLen (4), model bytes, dimension (4),
// count (4), then per vector: idLen (4), id bytes, vector (dimension*4).
func (m *MemoryIndex) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("index path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(indexMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(indexFormatVersion)); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	model := []byte(m.modelName)
	if err := binary.Write(f, binary.LittleEndian, uint32(len(model))); err != nil {
		return fmt.Errorf("write model len: %w", err)
	}
	if _, err := f.Write(model); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(m.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(m.ids))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for i, id := range m.ids {
		idBytes := []byte(id)
		if err := binary.Write(f, binary.LittleEndian, uint32(len(idBytes))); err != nil {
			return fmt.Errorf("write id len: %w", err)
		}
		if _, err := f.Write(idBytes); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		if _, err := f.Write(float32SliceToBytes(m.vectors[i])); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load reads the index from path and replaces the in-memory contents.
// A missing file is ErrIndexNotFound; an undecodable file is
// ErrIndexCorrupt; a model or dimension mismatch leaves the index unchanged.
func (m *MemoryIndex) Load(path string) error {
	if path == "" {
		return fmt.Errorf("index path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return fmt.Errorf("%w: read magic: %v", ErrIndexCorrupt, err)
	}
	if magic != indexMagic {
		return fmt.Errorf("%w: bad magic %q", ErrIndexCorrupt, magic[:])
	}
	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: read version: %v", ErrIndexCorrupt, err)
	}
	if version != indexFormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrIndexCorrupt, version)
	}
	var modelLen uint32
	if err := binary.Read(f, binary.LittleEndian, &modelLen); err != nil {
		return fmt.Errorf("%w: read model len: %v", ErrIndexCorrupt, err)
	}
	if modelLen > 1024 {
		return fmt.Errorf("%w: model name length %d", ErrIndexCorrupt, modelLen)
	}
	modelBytes := make([]byte, modelLen)
	if _, err := io.ReadFull(f, modelBytes); err != nil {
		return fmt.Errorf("%w: read model: %v", ErrIndexCorrupt, err)
	}
	if string(modelBytes) != m.modelName {
		return fmt.Errorf("%w: index built with %q, embedder is %q", ErrModelMismatch, modelBytes, m.modelName)
	}
	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("%w: read dimensions: %v", ErrIndexCorrupt, err)
	}
	if int(dim) != m.dimensions {
		return fmt.Errorf("%w: file has %d, index expects %d", ErrDimensionMismatch, dim, m.dimensions)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("%w: read count: %v", ErrIndexCorrupt, err)
	}

	ids := make([]string, 0, n)
	vectors := make([][]float32, 0, n)
	buf := make([]byte, m.dimensions*4)
	for i := uint32(0); i < n; i++ {
		var idLen uint32
		if err := binary.Read(f, binary.LittleEndian, &idLen); err != nil {
			return fmt.Errorf("%w: read id len: %v", ErrIndexCorrupt, err)
		}
		if idLen > 4096 {
			return fmt.Errorf("%w: id length %d", ErrIndexCorrupt, idLen)
		}
		idBytes := make([]byte, idLen)
		if _, err := io.ReadFull(f, idBytes); err != nil {
			return fmt.Errorf("%w: read id: %v", ErrIndexCorrupt, err)
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("%w: read vector: %v", ErrIndexCorrupt, err)
		}
		ids = append(ids, string(idBytes))
		vectors = append(vectors, bytesToFloat32Slice(buf))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = ids
	m.vectors = vectors
	return nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Dimensions returns the index dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// ModelName returns the embedding model this index was built for.
func (m *MemoryIndex) ModelName() string {
	return m.modelName
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
