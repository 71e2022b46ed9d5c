package state

import "sync"

// Manager stores one session value of type S per chat. A session exists only
// between Put and Clear; Get reports absence explicitly so callers never
// observe a half-initialized session.
type Manager[S any] struct {
	mu       sync.RWMutex
	sessions map[int64]*S
}

// NewManager constructs an empty in-memory session store.
func NewManager[S any]() *Manager[S] {
	return &Manager[S]{sessions: make(map[int64]*S)}
}

// Get returns the session for a chat if one exists.
func (m *Manager[S]) Get(chatID int64) (*S, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// Put replaces the session for a chat, creating it if necessary.
func (m *Manager[S]) Put(chatID int64, s *S) {
	if s == nil {
		m.Clear(chatID)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
}

// Clear removes the entire session for a chat.
func (m *Manager[S]) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// Active reports whether the chat currently has a session.
func (m *Manager[S]) Active(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[chatID]
	return ok
}

// Update applies fn to the chat's session under the write lock.
// It reports false when no session exists; fn is not called in that case.
func (m *Manager[S]) Update(chatID int64, fn func(*S)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return false
	}
	fn(s)
	return true
}

// Len returns the number of active sessions, for diagnostics.
func (m *Manager[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
