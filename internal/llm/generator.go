// Package llm provides text generation for candidate evaluation chat
// and reports.
package llm

import (
	"context"
	"errors"

	"github.com/hireflow/hireflow/internal/models"
)

// ErrGeneratorFailure is returned when the generation backend fails.
// Callers match with errors.Is; the session keeps its recorded turns.
var ErrGeneratorFailure = errors.New("generator failure")

// Generator produces a response from an ordered list of conversation
// turns. The first turn typically carries the pinned evaluation context.
type Generator interface {
	Generate(ctx context.Context, turns []*models.ConversationTurn) (string, error)
	ModelName() string
}
