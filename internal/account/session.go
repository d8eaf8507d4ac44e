package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Session represents a logged-in dashboard session.
type Session struct {
	ID        string
	Username  string
	LoginTime time.Time
	ExpiresAt time.Time
}

// SessionStore manages dashboard sessions in memory. Sessions are ephemeral
// process-local state and are not persisted with the profile.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	timeout  time.Duration
}

// NewSessionStore creates a session store.
func NewSessionStore(timeout time.Duration) *SessionStore {
	if timeout == 0 {
		timeout = 24 * time.Hour // Default 24 hours
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		timeout:  timeout,
	}
}

// CreateSession generates a new session for the given username.
func (s *SessionStore) CreateSession(ctx context.Context, username string) (*Session, error) {
	// Random session ID (32 bytes = 64 hex chars)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	id := hex.EncodeToString(b)

	now := time.Now()
	session := &Session{
		ID:        id,
		Username:  username,
		LoginTime: now,
		ExpiresAt: now.Add(s.timeout),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(session.ExpiresAt) {
		s.DeleteSession(ctx, id)
		return nil, false
	}

	return session, true
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Timeout returns the session lifetime.
func (s *SessionStore) Timeout() time.Duration {
	return s.timeout
}

// Cleanup removes expired sessions (call periodically).
func (s *SessionStore) Cleanup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
