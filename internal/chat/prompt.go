package chat

import (
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/internal/models"
)

const contextPreamble = "You are a recruiting assistant evaluating candidates. " +
	"Ground every answer in the resume excerpts provided; say so when the " +
	"excerpts do not contain the answer."

// buildContextTurn renders the system turn from the job context, when
// one was given, and the resume excerpts retrieved for the current
// question.
func buildContextTurn(jobContext string, retrieved []*models.ScoredChunk) string {
	var b strings.Builder
	b.WriteString(contextPreamble)
	if jobContext != "" {
		b.WriteString("\n\nJob description:\n")
		b.WriteString(jobContext)
	}
	if len(retrieved) > 0 {
		b.WriteString("\n\nResume excerpts:\n")
		for _, res := range retrieved {
			fmt.Fprintf(&b, "\n[%d] %s (score %.3f)\n%s\n",
				res.Rank, res.Document.Source, res.Score, res.Chunk.Content)
		}
	}
	return b.String()
}

// retrievalQuery builds the per-turn retrieval query. Prefixing the job
// context keeps retrieval anchored to the role even when the user asks a
// short follow-up like "what about the second one?".
func retrievalQuery(jobContext, userText string) string {
	if jobContext == "" {
		return userText
	}
	return jobContext + "\n" + userText
}
