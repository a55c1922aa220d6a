package storage

import (
	"sort"
	"sync"

	"github.com/wardrobehub/wardrobehub/internal/canvas"
)

// SessionStore keeps the open canvas sessions, one per client view
type SessionStore struct {
	sessions map[string]*canvas.Canvas
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*canvas.Canvas),
	}
}

func (s *SessionStore) Get(sessionID string) (*canvas.Canvas, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *canvas.Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// IDs returns the open session ids in sorted order.
func (s *SessionStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Delete drops the session and returns it so the caller can tear it down.
func (s *SessionStore) Delete(sessionID string) (*canvas.Canvas, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return session, exists
}
