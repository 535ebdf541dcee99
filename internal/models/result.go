package models

// ScoredChunk is a retrieved chunk with its similarity score and 1-based rank.
// Produced per query; never persisted. Score is cosine similarity over
// normalized vectors (0-1). After re-ranking with boost terms the score may
// exceed the raw similarity, but never by more than the configured boost cap.
type ScoredChunk struct {
	Chunk    *DocumentChunk `json:"chunk"`
	Document *Document      `json:"document,omitempty"`
	Score    float64        `json:"score"`
	Rank     int            `json:"rank"`
}

// RankResponse is the response for a candidate ranking request.
type RankResponse struct {
	Candidates []*ScoredChunk `json:"candidates"`
	Total      int            `json:"total"`
	QueryTime  int64          `json:"query_time_ms"`
	Query      string         `json:"query"`
}

// KeywordHit is a single keyword search hit at document granularity.
type KeywordHit struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Rank     int       `json:"rank"`
}
