package models

// Role is the author of a conversation turn.
type Role string

const (
	// RoleSystem marks the pinned job-description context turn.
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one turn of a chat session. Seq is a logical timestamp,
// strictly increasing within a session; turns are never mutated after creation.
// Tokens is the estimated token cost counted against the memory budget.
type ConversationTurn struct {
	Role   Role   `json:"role"`
	Text   string `json:"text"`
	Seq    int64  `json:"seq"`
	Tokens int    `json:"tokens"`
	// Pinned turns (the job context) are evicted only when nothing else remains.
	Pinned bool `json:"pinned,omitempty"`
}
