package llm

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

	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/pkg/utils"
)

// Default configuration values for the Gemini generation service.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini generation service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string
	// BaseURL is the API base URL (default: the public Gemini endpoint).
	BaseURL string
	// Model is the generation model (default: gemini-2.5-flash).
	Model string
	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// GeminiGenerator implements Generator against the Gemini
// generateContent API.
type GeminiGenerator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      generateContent `json:"content"`
		FinishReason string          `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiGenerator creates a Gemini generation service.
func NewGeminiGenerator(cfg Config) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiGenerator{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate sends the conversation to Gemini and returns the reply text.
// System turns become the system instruction; user and assistant turns
// map to the API's user and model roles.
func (g *GeminiGenerator) Generate(ctx context.Context, turns []*models.ConversationTurn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: no turns to generate from", ErrGeneratorFailure)
	}

	req := generateRequest{}
	for _, turn := range turns {
		switch turn.Role {
		case models.RoleSystem:
			if req.SystemInstruction == nil {
				req.SystemInstruction = &generateContent{Parts: []generatePart{{Text: turn.Text}}}
			} else {
				req.SystemInstruction.Parts = append(req.SystemInstruction.Parts, generatePart{Text: turn.Text})
			}
		case models.RoleAssistant:
			req.Contents = append(req.Contents, generateContent{
				Role:  "model",
				Parts: []generatePart{{Text: turn.Text}},
			})
		default:
			req.Contents = append(req.Contents, generateContent{
				Role:  "user",
				Parts: []generatePart{{Text: turn.Text}},
			})
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrGeneratorFailure, err)
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: read response: %v", ErrGeneratorFailure, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gemini: status %d: %s",
			ErrGeneratorFailure, httpResp.StatusCode, utils.Truncate(string(data), 200))
	}

	var resp generateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: gemini: decode response: %v", ErrGeneratorFailure, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: gemini: %s", ErrGeneratorFailure, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini: empty response", ErrGeneratorFailure)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// ModelName returns the configured model.
func (g *GeminiGenerator) ModelName() string {
	return g.model
}
