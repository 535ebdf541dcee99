package chat

import (
	"strings"
	"testing"

	"github.com/hireflow/hireflow/internal/models"
)

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"ab", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, c := range cases {
		if got := EstimateTokens(c.text); got != c.want {
			t.Errorf("EstimateTokens(%d runes) = %d, want %d", len(c.text), got, c.want)
		}
	}
}

func TestMemoryAppendAssignsSequence(t *testing.T) {
	m := NewMemory(1000)
	a := m.Append(models.RoleUser, "first", false)
	b := m.Append(models.RoleAssistant, "second", false)
	if a.Seq >= b.Seq {
		t.Errorf("sequence not increasing: %d, %d", a.Seq, b.Seq)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 turns, got %d", m.Len())
	}
}

func TestMemoryEvictsOldestPair(t *testing.T) {
	// Budget of 100 tokens; each turn below costs 25 (100 runes).
	m := NewMemory(100)
	text := strings.Repeat("x", 100)

	m.Append(models.RoleUser, text, false)      // pair 1
	m.Append(models.RoleAssistant, text, false) // pair 1
	m.Append(models.RoleUser, text, false)      // pair 2
	m.Append(models.RoleAssistant, text, false) // pair 2: total 100, at budget
	m.Append(models.RoleUser, text, false)      // 125: evicts pair 1

	turns := m.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns after eviction, got %d", len(turns))
	}
	// Pair 1 is gone; pair 2 survives intact.
	if turns[0].Role != models.RoleUser || turns[1].Role != models.RoleAssistant {
		t.Errorf("surviving turns not a complete pair: %s, %s", turns[0].Role, turns[1].Role)
	}
	if turns[0].Seq != 3 {
		t.Errorf("expected pair 2 to survive (seq 3), got seq %d", turns[0].Seq)
	}
	if m.TokenCount() > 100 {
		t.Errorf("still over budget: %d", m.TokenCount())
	}
}

func TestMemoryPinnedSurvivesEviction(t *testing.T) {
	m := NewMemory(60)
	pinned := m.Append(models.RoleSystem, strings.Repeat("j", 100), true) // 25 tokens

	for i := 0; i < 6; i++ {
		m.Append(models.RoleUser, strings.Repeat("u", 100), false)
		m.Append(models.RoleAssistant, strings.Repeat("a", 100), false)
	}

	turns := m.Turns()
	if turns[0].Seq != pinned.Seq || !turns[0].Pinned {
		t.Fatal("pinned context turn was evicted")
	}
}

func TestMemoryLatestExchangeSurvives(t *testing.T) {
	// A single exchange larger than the whole budget is kept anyway;
	// evicting it would leave nothing to answer.
	m := NewMemory(10)
	m.Append(models.RoleUser, strings.Repeat("q", 200), false)
	if m.Len() != 1 {
		t.Fatalf("latest exchange must survive, got %d turns", m.Len())
	}
}

func TestMemoryOversizedExchangeStaysOverBudget(t *testing.T) {
	// When the pinned context plus the exchange in flight alone exceed
	// the budget, the count stays over it; earlier exchanges still go.
	m := NewMemory(20)
	pinned := m.Append(models.RoleSystem, strings.Repeat("j", 40), true) // 10 tokens

	m.Append(models.RoleUser, strings.Repeat("u", 40), false)
	m.Append(models.RoleAssistant, strings.Repeat("a", 40), false)

	m.Append(models.RoleUser, strings.Repeat("q", 200), false) // 50 tokens
	m.Append(models.RoleAssistant, strings.Repeat("r", 200), false)

	turns := m.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected pinned + latest exchange, got %d turns", len(turns))
	}
	if turns[0].Seq != pinned.Seq {
		t.Error("pinned context turn was evicted")
	}
	if m.TokenCount() <= 20 {
		t.Errorf("token count = %d, expected it to exceed the budget", m.TokenCount())
	}
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory(1000)
	m.Append(models.RoleUser, "hello", false)
	seqBefore := m.Append(models.RoleAssistant, "hi", false).Seq

	m.Reset()
	if m.Len() != 0 {
		t.Errorf("expected empty memory after reset, got %d", m.Len())
	}
	// Sequence numbers stay monotonic across resets.
	next := m.Append(models.RoleUser, "again", false)
	if next.Seq <= seqBefore {
		t.Errorf("sequence went backwards after reset: %d <= %d", next.Seq, seqBefore)
	}
}
