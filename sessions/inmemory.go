package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/users"
)

// tokenBytes gives 256 bits of entropy per token
const tokenBytes = 32

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore keeps sessions in process memory. Expiry is lazy: an expired session is
// only removed when it is verified or when DeleteExpired runs.
//
// Sessions are not shared between processes and are lost on restart, so a horizontally
// scaled deployment needs a shared Store implementation instead.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	maxAge   time.Duration
	nowTime  func() time.Time
	random   func([]byte) (int, error)
}

// InMemoryStoreOption modifies an InMemoryStore
type InMemoryStoreOption func(*InMemoryStore)

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.nowTime = nowFunc
	}
}

// WithMaxAge overrides DefaultMaxAge
func WithMaxAge(maxAge time.Duration) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithRandom replaces the token entropy source (primarily for testing)
func WithRandom(random func([]byte) (int, error)) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.random = random
	}
}

func NewInMemoryStore(options ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[string]Session),
		maxAge:   DefaultMaxAge,
		nowTime:  time.Now,
		random:   rand.Read,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Issue(userID int64, email string, role users.Role, orgID int64) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := s.random(b); err != nil {
		return "", fmt.Errorf("[InMemoryStore Issue] failed to generate token: %w", err)
	}
	token := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[token]; exists {
		return "", fmt.Errorf("[InMemoryStore Issue] token collision")
	}
	s.sessions[token] = Session{
		Token:     token,
		UserID:    userID,
		UserEmail: email,
		UserRole:  role,
		OrgID:     orgID,
		CreatedAt: s.nowTime(),
	}
	return token, nil
}

func (s *InMemoryStore) Verify(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if session.Expired(s.nowTime(), s.maxAge) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return session, true
}

func (s *InMemoryStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *InMemoryStore) RevokeUser(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *InMemoryStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	removed := 0
	for token, session := range s.sessions {
		if session.Expired(now, s.maxAge) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
