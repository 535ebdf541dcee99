package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hireflow/hireflow/pkg/utils"
)

// Default configuration values for the Gemini embedding service.
const (
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiEmbedModel = "models/embedding-001"
	DefaultGeminiDimensions = 768
	DefaultGeminiTimeout    = 30 * time.Second
)

// GeminiConfig holds configuration for the Gemini embedding service.
type GeminiConfig struct {
	// APIKey is the Gemini API key (required).
	APIKey string
	// BaseURL is the API base URL (default: the public Gemini endpoint).
	BaseURL string
	// Model is the embedding model (default: models/embedding-001).
	Model string
	// Dimensions is the embedding vector size (default: 768).
	Dimensions int
	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
	// CacheSize bounds the embedding LRU cache (default: 10000).
	CacheSize int
}

// GeminiEmbedder generates embeddings via the Gemini embedContent API.
type GeminiEmbedder struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	cache      *Cache
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type embedContentRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type embedValues struct {
	Values []float32 `json:"values"`
}

type embedContentResponse struct {
	Embedding embedValues     `json:"embedding"`
	Error     *geminiAPIError `json:"error,omitempty"`
}

type batchEmbedResponse struct {
	Embeddings []embedValues   `json:"embeddings"`
	Error      *geminiAPIError `json:"error,omitempty"`
}

type geminiAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiEmbedder creates a Gemini embedding service.
func NewGeminiEmbedder(cfg GeminiConfig) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiEmbedModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultGeminiDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultGeminiTimeout
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 10000
	}
	return &GeminiEmbedder{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		cache:      NewCache(cfg.CacheSize),
	}, nil
}

// Embed returns the unit-norm embedding for text, using the cache when available.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	body, err := json.Marshal(embedContentRequest{
		Model:   e.model,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}
	var resp embedContentResponse
	if err := e.post(ctx, e.model+":embedContent", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: gemini: %s", ErrEmbedderFailure, resp.Error.Message)
	}
	emb := e.fit(resp.Embedding.Values)
	e.cache.Set(text, emb)
	return emb, nil
}

// EmbedBatch embeds all texts in a single batchEmbedContents call.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	reqs := make([]embedContentRequest, len(texts))
	for i, t := range texts {
		reqs[i] = embedContentRequest{
			Model:   e.model,
			Content: geminiContent{Parts: []geminiPart{{Text: t}}},
		}
	}
	body, err := json.Marshal(batchEmbedRequest{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal batch request: %w", err)
	}
	var resp batchEmbedResponse
	if err := e.post(ctx, e.model+":batchEmbedContents", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: gemini: %s", ErrEmbedderFailure, resp.Error.Message)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini: got %d embeddings for %d texts",
			ErrEmbedderFailure, len(resp.Embeddings), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, values := range resp.Embeddings {
		out[i] = e.fit(values.Values)
		e.cache.Set(texts[i], out[i])
	}
	return out, nil
}

func (e *GeminiEmbedder) post(ctx context.Context, path string, body []byte, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s?key=%s", e.baseURL, path, url.QueryEscape(e.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: gemini: %v", ErrEmbedderFailure, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: gemini: read response: %v", ErrEmbedderFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gemini: status %d: %s",
			ErrEmbedderFailure, resp.StatusCode, utils.Truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: gemini: decode response: %v", ErrEmbedderFailure, err)
	}
	return nil
}

// fit pads or truncates values to the configured dimension and normalizes,
// so the index always receives vectors of a consistent size.
func (e *GeminiEmbedder) fit(values []float32) []float32 {
	emb := make([]float32, e.dimensions)
	copy(emb, values)
	utils.NormalizeL2(emb)
	return emb
}

// Dimensions returns the embedding dimension.
func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelName identifies the remote model for index compatibility checks.
func (e *GeminiEmbedder) ModelName() string {
	return e.model
}

// Close is a no-op for GeminiEmbedder.
func (e *GeminiEmbedder) Close() error {
	return nil
}
