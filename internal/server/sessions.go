package server

import (
	"sync"

	"github.com/hireflow/hireflow/internal/chat"
)

// sessionStore holds live chat sessions by ID. Ended sessions stay
// retrievable until deleted so transcripts remain readable.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*chat.Session)}
}

func (st *sessionStore) add(s *chat.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID()] = s
}

func (st *sessionStore) get(id string) (*chat.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *sessionStore) remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
