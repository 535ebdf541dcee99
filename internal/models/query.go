package models

import "fmt"

// RankQuery represents a candidate ranking request: a job description plus
// retrieval and re-ranking parameters.
type RankQuery struct {
	Query      string   `json:"query"`
	TopK       int      `json:"top_k,omitempty"`
	TopN       int      `json:"top_n,omitempty"`
	BoostTerms []string `json:"boost_terms,omitempty"`
}

// Validate checks the query and fills unset limits from the given defaults.
// Returns ErrInvalidArgument (wrapped) for an empty query or negative limits;
// zero limits mean "not supplied" and take the defaults.
func (q *RankQuery) Validate(defaultTopK, defaultTopN int) error {
	if q.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidArgument)
	}
	if q.TopK < 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidArgument, q.TopK)
	}
	if q.TopN < 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, q.TopN)
	}
	if q.TopK == 0 {
		q.TopK = defaultTopK
	}
	if q.TopN == 0 {
		q.TopN = defaultTopN
	}
	return nil
}
