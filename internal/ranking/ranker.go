// Package ranking reranks retrieved candidates and applies keyword boosts.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hireflow/hireflow/internal/models"
)

// Ranker truncates retrieval results to the strongest candidates and
// optionally boosts scores by literal keyword occurrences.
type Ranker struct {
	config *RankingConfig
}

// NewRanker creates a Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	return &Ranker{config: config}
}

// Rerank returns the top candidates from results after applying keyword
// boosts. topN must be positive. The input slice is not modified.
//
// Each case-insensitive occurrence of a boost term in a chunk multiplies
// its score by (1 + min(perMatch*matches, cap)), so a boosted candidate
// can overtake an unboosted one but never by more than the cap.
func (r *Ranker) Rerank(results []*models.ScoredChunk, topN int, boostTerms []string) ([]*models.ScoredChunk, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", models.ErrInvalidArgument, topN)
	}

	reranked := make([]*models.ScoredChunk, len(results))
	for i, res := range results {
		boosted := *res
		boosted.Score = r.boostScore(res.Score, res.Chunk.Content, boostTerms)
		reranked[i] = &boosted
	}

	// Stable sort keeps retrieval order among equal scores, so reranking
	// the same results always yields the same ordering.
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	if topN < len(reranked) {
		reranked = reranked[:topN]
	}
	for i, res := range reranked {
		res.Rank = i + 1
	}
	return reranked, nil
}

// boostScore applies the keyword boost policy to a base score.
func (r *Ranker) boostScore(score float64, content string, boostTerms []string) float64 {
	if len(boostTerms) == 0 {
		return score
	}
	matches := CountMatches(content, boostTerms)
	if matches == 0 {
		return score
	}
	boost := r.config.BoostPerMatch * float64(matches)
	if boost > r.config.BoostCap {
		boost = r.config.BoostCap
	}
	return score * (1 + boost)
}

// CountMatches counts case-insensitive literal occurrences of each term
// in content. Blank terms are ignored.
func CountMatches(content string, terms []string) int {
	lower := strings.ToLower(content)
	total := 0
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		total += strings.Count(lower, term)
	}
	return total
}
