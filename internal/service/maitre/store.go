package maitre

import (
	"sync"

	"metria/internal/models"
)

// historyCap bounds how many messages are retained per session. Older
// messages are discarded, not summarized.
const historyCap = 10

// SessionStore holds per-session conversation history for the lifetime of
// the process. Histories are created lazily and only leave the store through
// Clear or a restart.
type SessionStore interface {
	// GetOrCreate returns the session history, registering an empty one on
	// first use. Any string is accepted as a session id.
	GetOrCreate(sessionID string) []models.ChatMessage
	// Append adds messages to the history, retaining only the most recent
	// historyCap entries.
	Append(sessionID string, msgs ...models.ChatMessage)
	// Clear removes the session entirely. Clearing an unknown session is a
	// no-op.
	Clear(sessionID string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.ChatMessage
}

// NewMemoryStore returns the in-memory SessionStore implementation.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string][]models.ChatMessage)}
}

func (s *memoryStore) GetOrCreate(sessionID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		s.sessions[sessionID] = []models.ChatMessage{}
		return nil
	}
	cloned := make([]models.ChatMessage, len(history))
	copy(cloned, history)
	return cloned
}

func (s *memoryStore) Append(sessionID string, msgs ...models.ChatMessage) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], msgs...)
	if len(history) > historyCap {
		trimmed := make([]models.ChatMessage, historyCap)
		copy(trimmed, history[len(history)-historyCap:])
		history = trimmed
	}
	s.sessions[sessionID] = history
}

func (s *memoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
