package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/dltext/pkg/dltext"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions")
)

// session is one uploaded text file being edited. mu guards file.
type session struct {
	id           string
	name         string
	sourceOffset int
	sourceDigest string
	created      time.Time

	mu   sync.Mutex
	file *dltext.File
}

// SessionStore keeps decoded files in memory. A limit <= 0 means unbounded.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	limit    int
}

func NewSessionStore(limit int) *SessionStore {
	return &SessionStore{sessions: make(map[string]*session), limit: limit}
}

func (s *SessionStore) create(name string, file *dltext.File, digest string, now time.Time) (*session, error) {
	sess := &session{
		id:           uuid.NewString(),
		name:         name,
		sourceOffset: file.TextDefinitionOffset,
		sourceDigest: digest,
		created:      now,
		file:         file,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.sessions) >= s.limit {
		return nil, ErrTooManySessions
	}
	s.sessions[sess.id] = sess
	return sess, nil
}

func (s *SessionStore) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
