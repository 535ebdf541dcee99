// Package report renders ranking results as a summary report and, with a
// generator, a detailed per-candidate evaluation.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/internal/chat"
	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/models"
)

// Builder renders candidate ranking reports.
type Builder struct {
	generator   llm.Generator
	tokenBudget int
	threshold   float64
}

// NewBuilder creates a report builder. generator may be nil; then only
// Summary is available and Evaluate returns an error.
func NewBuilder(generator llm.Generator, evaluationTokenBudget int) *Builder {
	if evaluationTokenBudget <= 0 {
		evaluationTokenBudget = config.DefaultEvaluationTokenBudget
	}
	return &Builder{
		generator:   generator,
		tokenBudget: evaluationTokenBudget,
		threshold:   config.DefaultSimilarityThreshold,
	}
}

// WithThreshold sets the similarity score at or above which Summary
// flags a candidate as a strong match. Returns b for chaining.
func (b *Builder) WithThreshold(t float64) *Builder {
	if t > 0 {
		b.threshold = t
	}
	return b
}

// Summary renders a plain-text ranking summary without calling the
// generator.
func (b *Builder) Summary(resp *models.RankResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Candidate ranking for: %s\n", resp.Query)
	fmt.Fprintf(&sb, "Matches: %d (%dms)\n", resp.Total, resp.QueryTime)
	if resp.Total == 0 {
		sb.WriteString("\nNo candidates matched. Ingest resumes or broaden the query.\n")
		return sb.String()
	}
	for _, c := range resp.Candidates {
		source := ""
		if c.Document != nil {
			source = c.Document.Source
		}
		marker := ""
		if c.Score >= b.threshold {
			marker = " [strong match]"
		}
		fmt.Fprintf(&sb, "\n%d. %s (score %.3f)%s\n", c.Rank, source, c.Score, marker)
		fmt.Fprintf(&sb, "   %s\n", excerpt(c.Chunk.Content, 200))
	}
	return sb.String()
}

const evaluationInstruction = "You are a recruiting analyst. For each candidate " +
	"excerpt below, assess fit against the job description: cite concrete " +
	"strengths, gaps, and a hire/no-hire leaning. Be specific and concise."

// Evaluate asks the generator for a detailed assessment of the ranked
// candidates. Excerpts are trimmed so the prompt stays within the
// evaluation token budget.
func (b *Builder) Evaluate(ctx context.Context, jobDescription string, resp *models.RankResponse) (string, error) {
	if b.generator == nil {
		return "", fmt.Errorf("%w: no generator configured", llm.ErrGeneratorFailure)
	}
	if resp.Total == 0 {
		return "No candidates to evaluate.", nil
	}

	turns := []*models.ConversationTurn{
		{Role: models.RoleSystem, Text: evaluationInstruction},
		{Role: models.RoleUser, Text: b.evaluationPrompt(jobDescription, resp)},
	}
	return b.generator.Generate(ctx, turns)
}

// evaluationPrompt renders the job description and candidate excerpts,
// shrinking per-candidate excerpts until the estimate fits the budget.
func (b *Builder) evaluationPrompt(jobDescription string, resp *models.RankResponse) string {
	perCandidate := 800
	for {
		prompt := renderPrompt(jobDescription, resp, perCandidate)
		if chat.EstimateTokens(prompt) <= b.tokenBudget || perCandidate <= 50 {
			return prompt
		}
		perCandidate /= 2
	}
}

func renderPrompt(jobDescription string, resp *models.RankResponse, perCandidate int) string {
	var sb strings.Builder
	sb.WriteString("Job description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nCandidates:\n")
	for _, c := range resp.Candidates {
		source := ""
		if c.Document != nil {
			source = c.Document.Source
		}
		fmt.Fprintf(&sb, "\n[%d] %s (similarity %.3f)\n%s\n",
			c.Rank, source, c.Score, excerpt(c.Chunk.Content, perCandidate))
	}
	return sb.String()
}

// excerpt truncates s to at most n runes on a word boundary.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
