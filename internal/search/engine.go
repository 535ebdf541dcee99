// Package search retrieves candidate chunks semantically similar to a
// job description query.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/embedding"
	"github.com/hireflow/hireflow/internal/keyword"
	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/internal/ranking"
	"github.com/hireflow/hireflow/internal/storage"
	"github.com/hireflow/hireflow/internal/vector"
)

// Engine embeds queries and retrieves the most similar chunks, hydrated
// with their parent documents.
type Engine struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	ranker       *ranking.Ranker
	config       *config.SearchConfig
}

// NewEngine creates a retrieval engine with the given dependencies.
func NewEngine(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	cfg *config.SearchConfig,
) *Engine {
	return &Engine{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		ranker:       ranking.NewRanker(ranking.FromSearchConfig(cfg)),
		config:       cfg,
	}
}

// Rank runs the full candidate ranking pipeline: validate the query,
// retrieve the top-k similar chunks, rerank with keyword boosts, and
// truncate to top-n.
func (e *Engine) Rank(ctx context.Context, query *models.RankQuery) (*models.RankResponse, error) {
	start := time.Now()
	if err := query.Validate(e.config.TopKCandidates, e.config.TopN); err != nil {
		return nil, err
	}
	retrieved, err := e.RetrieveTopK(ctx, query.Query, query.TopK)
	if err != nil {
		return nil, err
	}
	candidates, err := e.ranker.Rerank(retrieved, query.TopN, query.BoostTerms)
	if err != nil {
		return nil, err
	}
	return &models.RankResponse{
		Candidates: candidates,
		Total:      len(candidates),
		QueryTime:  time.Since(start).Milliseconds(),
		Query:      query.Query,
	}, nil
}

// Retrieve returns the top candidates for query using the configured
// default candidate count.
func (e *Engine) Retrieve(ctx context.Context, query string) ([]*models.ScoredChunk, error) {
	return e.RetrieveTopK(ctx, query, e.config.TopKCandidates)
}

// RetrieveTopK returns up to k chunks most similar to query, ordered by
// descending score with 1-based ranks. An empty index yields an empty
// slice. k must be positive.
func (e *Engine) RetrieveTopK(ctx context.Context, query string, k int) ([]*models.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", models.ErrInvalidArgument, k)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", models.ErrInvalidArgument)
	}

	queryEmbedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := e.vectorIndex.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]*models.ScoredChunk, 0, len(hits))
	docs := make(map[string]*models.Document)
	for _, hit := range hits {
		chunk, err := e.storage.GetChunk(ctx, hit.ID)
		if err != nil {
			// A vector whose chunk was deleted mid-flight is dropped
			// rather than failing the whole retrieval.
			continue
		}
		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = e.storage.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				continue
			}
			docs[chunk.DocumentID] = doc
		}
		results = append(results, &models.ScoredChunk{
			Chunk:    chunk,
			Document: doc,
			Score:    hit.Score,
			Rank:     len(results) + 1,
		})
	}
	return results, nil
}

// Keywords runs a full-text query over whole documents, for exact-term
// lookups such as certifications. Hits are hydrated with their documents.
func (e *Engine) Keywords(ctx context.Context, query string, limit int) ([]*models.KeywordHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", models.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = e.config.TopKCandidates
	}
	if e.config.MaxLimit > 0 && limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}
	hits, err := e.keywordIndex.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	out := make([]*models.KeywordHit, 0, len(hits))
	for _, hit := range hits {
		doc, err := e.storage.GetDocument(ctx, hit.ID)
		if err != nil {
			continue
		}
		out = append(out, &models.KeywordHit{
			Document: doc,
			Score:    hit.Score,
			Rank:     len(out) + 1,
		})
	}
	return out, nil
}
