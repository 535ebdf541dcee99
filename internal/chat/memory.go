package chat

import "github.com/hireflow/hireflow/internal/models"

// Memory holds conversation turns under a token budget. When the budget
// is exceeded, the oldest unpinned user/assistant turns are evicted in
// complete pairs so the transcript never starts mid-exchange. The pinned
// job-context turn and the latest exchange are never evicted, even when
// they alone exceed the budget.
type Memory struct {
	budget int
	turns  []*models.ConversationTurn
	seq    int64
}

// NewMemory creates a memory with the given token budget.
func NewMemory(budget int) *Memory {
	return &Memory{budget: budget}
}

// Append records a turn, assigning it the next sequence number, and
// evicts old turns if the budget is exceeded.
func (m *Memory) Append(role models.Role, text string, pinned bool) *models.ConversationTurn {
	m.seq++
	turn := &models.ConversationTurn{
		Role:   role,
		Text:   text,
		Seq:    m.seq,
		Tokens: EstimateTokens(text),
		Pinned: pinned,
	}
	m.turns = append(m.turns, turn)
	m.evict()
	return turn
}

// evict drops the oldest unpinned exchange pairs until the total token
// cost fits the budget. The latest exchange is never evicted, so the
// session can always answer the question it is currently processing.
func (m *Memory) evict() {
	if m.budget <= 0 {
		return
	}
	for m.totalTokens() > m.budget {
		limit := m.lastExchangeStart()
		idx := m.oldestUnpinned()
		if idx < 0 || idx >= limit {
			return
		}
		// A user turn takes its assistant reply with it.
		end := idx + 1
		if m.turns[idx].Role == models.RoleUser &&
			end < limit &&
			m.turns[end].Role == models.RoleAssistant {
			end++
		}
		m.turns = append(m.turns[:idx], m.turns[end:]...)
	}
}

// lastExchangeStart returns the index where the latest exchange begins.
func (m *Memory) lastExchangeStart() int {
	for i := len(m.turns) - 1; i >= 0; i-- {
		if m.turns[i].Role == models.RoleUser {
			return i
		}
	}
	return len(m.turns)
}

func (m *Memory) oldestUnpinned() int {
	for i, turn := range m.turns {
		if !turn.Pinned {
			return i
		}
	}
	return -1
}

func (m *Memory) totalTokens() int {
	total := 0
	for _, turn := range m.turns {
		total += turn.Tokens
	}
	return total
}

// Turns returns a copy of the current transcript in order.
func (m *Memory) Turns() []*models.ConversationTurn {
	out := make([]*models.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

// TokenCount returns the current total estimated token cost.
func (m *Memory) TokenCount() int {
	return m.totalTokens()
}

// Len returns the number of turns currently held.
func (m *Memory) Len() int {
	return len(m.turns)
}

// Reset drops all turns, keeping the sequence counter monotonic.
func (m *Memory) Reset() {
	m.turns = nil
}
