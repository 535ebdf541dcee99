// Package keyword provides full-text keyword search over candidate
// documents, complementing the semantic index for exact-term lookups
// such as certifications or tool names.
package keyword

import (
	"context"

	"github.com/hireflow/hireflow/internal/models"
)

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}

// KeywordIndex defines full-text indexing and search of documents.
type KeywordIndex interface {
	Index(ctx context.Context, id string, doc *models.Document) error
	Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error)
	Delete(ctx context.Context, id string) error
	DocCount() (uint64, error)
	Close() error
}
