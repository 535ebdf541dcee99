package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(384)
	defer e.Close()

	a, err := e.Embed(context.Background(), "senior accountant with CPA")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := e.Embed(context.Background(), "senior accountant with CPA")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(a) != 384 {
		t.Errorf("expected 384 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(64)
	defer e.Close()

	emb, err := e.Embed(context.Background(), "software engineer")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	var sum float64
	for _, v := range emb {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(sum))
	}
}

func TestHashEmbedderDistinctTexts(t *testing.T) {
	e := NewHashEmbedder(128)
	defer e.Close()

	a, _ := e.Embed(context.Background(), "python developer")
	b, _ := e.Embed(context.Background(), "forklift operator")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different embeddings for different texts")
	}
}

func TestHashEmbedderBatch(t *testing.T) {
	e := NewHashEmbedder(32)
	defer e.Close()

	texts := []string{"one", "two", "three"}
	batch, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(batch))
	}
	single, _ := e.Embed(context.Background(), "two")
	for i := range single {
		if batch[1][i] != single[i] {
			t.Fatal("batch embedding differs from single embedding")
		}
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	// Touch "a" so "b" becomes the least recently used entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected cache hit for a")
	}
	c.Set("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
	if c.Len() != 2 {
		t.Errorf("expected cache size 2, got %d", c.Len())
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache(4)
	c.Set("k", []float32{1})
	c.Set("k", []float32{2})
	v, ok := c.Get("k")
	if !ok || v[0] != 2 {
		t.Errorf("expected overwritten value 2, got %v (hit=%v)", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected single entry, got %d", c.Len())
	}
}

func TestSimpleTokenizerSpecialTokens(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, mask, types := tok.Tokenize("hello world", 16)

	if len(ids) != 16 || len(mask) != 16 || len(types) != 16 {
		t.Fatalf("expected length 16, got ids=%d mask=%d types=%d", len(ids), len(mask), len(types))
	}
	if ids[0] != 101 {
		t.Errorf("expected CLS token first, got %d", ids[0])
	}
	// CLS + two words + SEP are attended; the rest is padding.
	for i := 0; i < 4; i++ {
		if mask[i] != 1 {
			t.Errorf("expected attention at position %d", i)
		}
	}
	for i := 4; i < 16; i++ {
		if mask[i] != 0 {
			t.Errorf("expected padding at position %d", i)
		}
		if ids[i] != 0 {
			t.Errorf("expected pad token at position %d, got %d", i, ids[i])
		}
	}
	if ids[3] != 102 {
		t.Errorf("expected SEP token at position 3, got %d", ids[3])
	}
}

func TestSimpleTokenizerTruncation(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, _, _ := tok.Tokenize("a b c d e f g", 4)
	if len(ids) != 4 {
		t.Fatalf("expected length 4, got %d", len(ids))
	}
	if ids[len(ids)-1] != 102 {
		t.Errorf("expected SEP as last token after truncation, got %d", ids[len(ids)-1])
	}
}

func TestGeminiEmbedderEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing API key in query")
		}
		var req embedContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Content.Parts[0].Text != "hello" {
			t.Errorf("unexpected text %q", req.Content.Parts[0].Text)
		}
		json.NewEncoder(w).Encode(embedContentResponse{
			Embedding: embedValues{Values: []float32{3, 4}},
		})
	}))
	defer srv.Close()

	e, err := NewGeminiEmbedder(GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Dimensions: 2,
	})
	if err != nil {
		t.Fatalf("NewGeminiEmbedder failed: %v", err)
	}
	emb, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	// [3,4] normalizes to [0.6,0.8].
	if math.Abs(float64(emb[0])-0.6) > 1e-6 || math.Abs(float64(emb[1])-0.8) > 1e-6 {
		t.Errorf("expected normalized [0.6 0.8], got %v", emb)
	}

	// Second call hits the cache; the server is no longer consulted.
	srv.Close()
	cached, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("cached Embed failed: %v", err)
	}
	if cached[0] != emb[0] {
		t.Error("cached embedding differs")
	}
}

func TestGeminiEmbedderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	e, _ := NewGeminiEmbedder(GeminiConfig{APIKey: "k", BaseURL: srv.URL, Dimensions: 2})
	_, err := e.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from server failure")
	}
}

func TestGeminiEmbedderRequiresKey(t *testing.T) {
	if _, err := NewGeminiEmbedder(GeminiConfig{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
