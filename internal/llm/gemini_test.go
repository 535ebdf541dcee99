package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hireflow/hireflow/internal/models"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "job context" {
			t.Error("system turn not mapped to systemInstruction")
		}
		if len(req.Contents) != 2 {
			t.Fatalf("expected 2 contents, got %d", len(req.Contents))
		}
		if req.Contents[0].Role != "user" || req.Contents[1].Role != "model" {
			t.Errorf("roles mapped wrong: %s, %s", req.Contents[0].Role, req.Contents[1].Role)
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Alice is a strong fit."}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Generate(context.Background(), []*models.ConversationTurn{
		{Role: models.RoleSystem, Text: "job context"},
		{Role: models.RoleUser, Text: "Who fits best?"},
		{Role: models.RoleAssistant, Text: "Let me check."},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "Alice is a strong fit." {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGeminiGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, _ := NewGeminiGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), []*models.ConversationTurn{
		{Role: models.RoleUser, Text: "hi"},
	})
	if !errors.Is(err, ErrGeneratorFailure) {
		t.Errorf("expected ErrGeneratorFailure, got %v", err)
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g, _ := NewGeminiGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), []*models.ConversationTurn{
		{Role: models.RoleUser, Text: "hi"},
	})
	if !errors.Is(err, ErrGeneratorFailure) {
		t.Errorf("expected ErrGeneratorFailure for empty candidates, got %v", err)
	}
}

func TestGeminiGenerateNoTurns(t *testing.T) {
	g, _ := NewGeminiGenerator(Config{APIKey: "k"})
	if _, err := g.Generate(context.Background(), nil); !errors.Is(err, ErrGeneratorFailure) {
		t.Errorf("expected ErrGeneratorFailure for no turns, got %v", err)
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
