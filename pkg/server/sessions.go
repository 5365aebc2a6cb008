package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
)

// sessionManager holds live conversation sessions in process. Conversations
// are per visitor and never synced across instances.
type sessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

func newSessionManager() *sessionManager {
	return &sessionManager{
		sessions: make(map[string]*chat.Session),
	}
}

func (m *sessionManager) add(session *chat.Session) string {
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = session
	return id
}

func (m *sessionManager) get(id string) (*chat.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}
