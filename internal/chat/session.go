package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/models"
)

// ErrSessionTerminated is returned by every operation on an ended session.
var ErrSessionTerminated = errors.New("session terminated")

// State is the session lifecycle state.
type State int

const (
	// StateUninitialized is the state before Start.
	StateUninitialized State = iota
	// StateActive accepts turns.
	StateActive
	// StateTerminated is terminal; no operation revives the session.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Retriever fetches candidate chunks for a query. Satisfied by
// search.Engine.
type Retriever interface {
	RetrieveTopK(ctx context.Context, query string, k int) ([]*models.ScoredChunk, error)
}

// Session is one evaluation conversation. The job context is pinned at
// Start and survives memory eviction; candidate context is re-retrieved
// for every turn so answers follow the conversation, not a stale
// snapshot. Safe for concurrent use.
type Session struct {
	id           string
	retriever    Retriever
	generator    llm.Generator
	contextTopK  int
	historyTurns int
	logger       *zap.Logger

	mu         sync.Mutex
	state      State
	jobContext string
	memory     *Memory
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets a logger for debug output.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session in the uninitialized state.
func NewSession(retriever Retriever, generator llm.Generator, cfg *config.ChatConfig, opts ...SessionOption) *Session {
	budget := cfg.TokenBudget
	if budget <= 0 {
		budget = config.DefaultChatTokenBudget
	}
	topK := cfg.ContextTopK
	if topK <= 0 {
		topK = config.DefaultTopKCandidates
	}
	s := &Session{
		id:           uuid.New().String(),
		retriever:    retriever,
		generator:    generator,
		contextTopK:  topK,
		historyTurns: cfg.HistoryTurns,
		memory:       NewMemory(budget),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start activates the session. The job context is optional; when given
// it is pinned, surviving eviction and anchoring retrieval for every
// turn. Without one the session answers from the corpus alone.
func (s *Session) Start(jobContext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminated:
		return fmt.Errorf("%w: cannot start", ErrSessionTerminated)
	case StateActive:
		return fmt.Errorf("%w: session already started", models.ErrInvalidArgument)
	}
	s.jobContext = strings.TrimSpace(jobContext)
	if s.jobContext != "" {
		s.memory.Append(models.RoleSystem, s.jobContext, true)
	}
	s.state = StateActive
	return nil
}

// SubmitTurn records the user's question, retrieves fresh candidate
// context, and returns the generated answer. If generation fails the
// user turn stays recorded, so a retry continues the same conversation.
func (s *Session) SubmitTurn(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminated:
		return "", fmt.Errorf("%w: cannot submit turn", ErrSessionTerminated)
	case StateUninitialized:
		return "", fmt.Errorf("%w: session not started", models.ErrInvalidArgument)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: turn text is empty", models.ErrEmptyInput)
	}

	s.memory.Append(models.RoleUser, text, false)

	retrieved, err := s.retriever.RetrieveTopK(ctx, retrievalQuery(s.jobContext, text), s.contextTopK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("turn context retrieved",
			zap.String("session_id", s.id),
			zap.Int("chunks", len(retrieved)))
	}

	reply, err := s.generator.Generate(ctx, s.promptTurns(retrieved))
	if err != nil {
		return "", err
	}
	s.memory.Append(models.RoleAssistant, reply, false)
	return reply, nil
}

// promptTurns assembles the generator input: a system turn carrying the
// job context plus this turn's resume excerpts, then the unpinned
// transcript, capped to the last historyTurns turns when configured.
// The pinned memory turn holds the raw job context and is replaced by
// the enriched system turn.
func (s *Session) promptTurns(retrieved []*models.ScoredChunk) []*models.ConversationTurn {
	var transcript []*models.ConversationTurn
	for _, turn := range s.memory.Turns() {
		if !turn.Pinned {
			transcript = append(transcript, turn)
		}
	}
	if s.historyTurns > 0 && len(transcript) > s.historyTurns {
		transcript = transcript[len(transcript)-s.historyTurns:]
	}
	turns := []*models.ConversationTurn{{
		Role: models.RoleSystem,
		Text: buildContextTurn(s.jobContext, retrieved),
	}}
	return append(turns, transcript...)
}

// Reset clears the transcript, keeping the session active with the same
// pinned job context.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminated:
		return fmt.Errorf("%w: cannot reset", ErrSessionTerminated)
	case StateUninitialized:
		return fmt.Errorf("%w: session not started", models.ErrInvalidArgument)
	}
	s.memory.Reset()
	if s.jobContext != "" {
		s.memory.Append(models.RoleSystem, s.jobContext, true)
	}
	return nil
}

// End terminates the session. Ending an already-terminated session is a
// no-op, not an error.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminated
}

// History returns a copy of the transcript, including the pinned context
// turn. Valid in any state; an ended session keeps its transcript.
func (s *Session) History() []*models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Turns()
}

// TokenCount returns the estimated token cost of the current transcript.
func (s *Session) TokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.TokenCount()
}
