package session

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultStoreCapacity = 1024

// Store is the bounded in-memory session registry. Old conversations are
// evicted least-recently-used; nothing is persisted.
type Store struct {
	sessions *lru.Cache[string, *Session]
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = defaultStoreCapacity
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{sessions: cache}, nil
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, bool) {
	return s.sessions.Get(id)
}

// GetOrCreate returns the existing session or registers a fresh one. An
// empty ID always creates a new session with a minted ID.
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if sess, ok := s.sessions.Get(id); ok {
			return sess
		}
	}
	sess := New(id)
	s.sessions.Add(sess.ID, sess)
	return sess
}

// Len reports how many sessions are currently held.
func (s *Store) Len() int { return s.sessions.Len() }
