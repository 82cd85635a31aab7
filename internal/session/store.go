package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

// Session is one browser's view of the game. Each session owns exactly one
// controller.
type Session struct {
	ID         uuid.UUID
	Controller *viewstate.Controller
	CreatedAt  time.Time

	lastSeen time.Time
}

// Store holds live sessions in memory. Nothing survives a restart.
type Store struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]*Session
	newController func() *viewstate.Controller
	idleTimeout   time.Duration
	now           func() time.Time
}

// NewStore creates a session store. Sessions idle longer than idleTimeout
// are dropped when a new session is created; zero keeps them forever.
func NewStore(newController func() *viewstate.Controller, idleTimeout time.Duration) *Store {
	return &Store{
		sessions:      make(map[uuid.UUID]*Session),
		newController: newController,
		idleTimeout:   idleTimeout,
		now:           time.Now,
	}
}

// Get returns a session by ID and marks it as seen.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// Create starts a new session with a fresh, uninitialized controller.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	sess := &Session{
		ID:         uuid.New(),
		Controller: s.newController(),
		CreatedAt:  now,
		lastSeen:   now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
