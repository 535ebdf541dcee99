// Package cli formats ranking output for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/hireflow/hireflow/internal/models"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteRankResults writes a ranking response to w in the given format.
func WriteRankResults(w io.Writer, response *models.RankResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	writeRankResultsText(w, response)
	return nil
}

func writeRankResultsText(w io.Writer, response *models.RankResponse) {
	fmt.Fprintf(w, "\n%d candidates in %dms\n\n", response.Total, response.QueryTime)
	for _, c := range response.Candidates {
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintf(w, "#%d  score %.4f\n", c.Rank, c.Score)
		if c.Document != nil {
			fmt.Fprintf(w, "Candidate: %s\n", c.Document.Source)
		}
		if c.Chunk != nil {
			fmt.Fprintf(w, "\n%s\n", Truncate(c.Chunk.Content, 240))
		}
		fmt.Fprintln(w)
	}
}

// WriteKeywordHits writes keyword search hits to w in the given format.
func WriteKeywordHits(w io.Writer, hits []*models.KeywordHit, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	fmt.Fprintf(w, "\n%d matches\n\n", len(hits))
	for _, h := range hits {
		fmt.Fprintf(w, "#%d  score %.4f  %s\n", h.Rank, h.Score, h.Document.Source)
	}
	return nil
}

// Truncate cuts s to at most maxLen runes on a word boundary and appends
// an ellipsis when anything was removed.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !unicode.IsSpace(runes[cut-1]) {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n") + "..."
}
