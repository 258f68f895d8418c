package agents

import (
	"sync"
	"time"

	"github.com/va6996/ainews/core"
)

const (
	defaultMaxTurns    = 20
	defaultMaxSessions = 1000
	defaultIdleTTL     = time.Hour
)

type session struct {
	turns    []core.Turn
	lastUsed time.Time
}

// SessionStore keeps per-session chat history in memory. Each session holds
// at most maxTurns turns, oldest dropped first. Sessions idle for longer
// than idleTTL are forgotten, and past maxSessions the least recently used
// session is evicted.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxTurns    int
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

// NewSessionStore creates a bounded store. Zero values pick the defaults:
// 20 turns, 1000 sessions, one hour idle expiry.
func NewSessionStore(maxTurns, maxSessions int, idleTTL time.Duration) *SessionStore {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &SessionStore{
		sessions:    make(map[string]*session),
		maxTurns:    maxTurns,
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		now:         time.Now,
	}
}

// History returns a copy of the session's turns, oldest first. An expired
// session has no history.
func (s *SessionStore) History(sessionID string) []core.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, s.now()) {
		return []core.Turn{}
	}
	cp := make([]core.Turn, len(sess.turns))
	copy(cp, sess.turns)
	return cp
}

// Append records turns for the session, trimming it to the window
func (s *SessionStore) Append(sessionID string, turns ...core.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, now) {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	history := append(sess.turns, turns...)
	if over := len(history) - s.maxTurns; over > 0 {
		history = append([]core.Turn(nil), history[over:]...)
	}
	sess.turns = history
	sess.lastUsed = now

	for len(s.sessions) > s.maxSessions {
		s.dropOldestLocked(sessionID)
	}
}

// Reset forgets the session
func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of stored sessions, expired ones included until
// the next Append sweeps them
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.lastUsed) > s.idleTTL
}

func (s *SessionStore) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

// dropOldestLocked evicts the least recently used session other than keep
func (s *SessionStore) dropOldestLocked(keep string) {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if id == keep {
			continue
		}
		if oldestID == "" || sess.lastUsed.Before(oldest) {
			oldestID, oldest = id, sess.lastUsed
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.sessions, oldestID)
}
