package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hireflow/hireflow/internal/chat"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/models"
)

type fakeGenerator struct {
	reply string
	err   error
	seen  []*models.ConversationTurn
}

func (f *fakeGenerator) Generate(ctx context.Context, turns []*models.ConversationTurn) (string, error) {
	f.seen = turns
	return f.reply, f.err
}

func (f *fakeGenerator) ModelName() string { return "fake" }

func rankResponse(contents ...string) *models.RankResponse {
	resp := &models.RankResponse{Query: "Backend engineer", Total: len(contents)}
	for i, content := range contents {
		resp.Candidates = append(resp.Candidates, &models.ScoredChunk{
			Chunk:    &models.DocumentChunk{ID: "c", Content: content},
			Document: &models.Document{Source: "/resumes/cand.pdf"},
			Score:    0.9 - float64(i)*0.1,
			Rank:     i + 1,
		})
	}
	return resp
}

func TestSummary(t *testing.T) {
	b := NewBuilder(nil, 0)
	out := b.Summary(rankResponse("Go developer, five years.", "Java developer."))

	if !strings.Contains(out, "Backend engineer") {
		t.Error("summary missing query")
	}
	if !strings.Contains(out, "1. /resumes/cand.pdf") || !strings.Contains(out, "0.900") {
		t.Errorf("summary missing ranked entries:\n%s", out)
	}
}

func TestSummaryStrongMatchMarker(t *testing.T) {
	b := NewBuilder(nil, 0).WithThreshold(0.85)
	out := b.Summary(rankResponse("Go developer.", "Java developer."))

	lines := strings.Split(out, "\n")
	var first, second string
	for _, l := range lines {
		if strings.HasPrefix(l, "1.") {
			first = l
		}
		if strings.HasPrefix(l, "2.") {
			second = l
		}
	}
	if !strings.Contains(first, "[strong match]") {
		t.Errorf("top candidate (0.900) not flagged: %q", first)
	}
	if strings.Contains(second, "[strong match]") {
		t.Errorf("runner-up (0.800) wrongly flagged: %q", second)
	}
}

func TestSummaryEmpty(t *testing.T) {
	b := NewBuilder(nil, 0)
	out := b.Summary(&models.RankResponse{Query: "anything"})
	if !strings.Contains(out, "No candidates matched") {
		t.Errorf("empty summary = %q", out)
	}
}

func TestEvaluate(t *testing.T) {
	gen := &fakeGenerator{reply: "Strong fit: relevant Go experience."}
	b := NewBuilder(gen, 1500)

	out, err := b.Evaluate(context.Background(), "Backend engineer, Go.", rankResponse("Go developer."))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if out != "Strong fit: relevant Go experience." {
		t.Errorf("unexpected output %q", out)
	}
	if len(gen.seen) != 2 || gen.seen[0].Role != models.RoleSystem {
		t.Fatal("prompt not assembled as system + user turns")
	}
	if !strings.Contains(gen.seen[1].Text, "Backend engineer, Go.") ||
		!strings.Contains(gen.seen[1].Text, "Go developer.") {
		t.Error("prompt missing job description or candidate excerpt")
	}
}

func TestEvaluateRespectsBudget(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	b := NewBuilder(gen, 200)

	long := strings.Repeat("word ", 2000)
	_, err := b.Evaluate(context.Background(), "role", rankResponse(long, long, long))
	if err != nil {
		t.Fatal(err)
	}
	// Prompt shrinks toward the budget; with three large excerpts it
	// must end well below the untrimmed size.
	if got := chat.EstimateTokens(gen.seen[1].Text); got > 400 {
		t.Errorf("prompt estimate %d tokens, want trimmed", got)
	}
}

func TestEvaluateNoCandidates(t *testing.T) {
	b := NewBuilder(&fakeGenerator{}, 0)
	out, err := b.Evaluate(context.Background(), "role", &models.RankResponse{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No candidates") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEvaluateWithoutGenerator(t *testing.T) {
	b := NewBuilder(nil, 0)
	_, err := b.Evaluate(context.Background(), "role", rankResponse("x"))
	if !errors.Is(err, llm.ErrGeneratorFailure) {
		t.Errorf("expected ErrGeneratorFailure, got %v", err)
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("short", 10); got != "short" {
		t.Errorf("excerpt(short) = %q", got)
	}
	long := strings.Repeat("abcde ", 50)
	got := excerpt(long, 30)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) > 34 {
		t.Errorf("excerpt not truncated: %q", got)
	}
}
