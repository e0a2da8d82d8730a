package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in development and tests, and as
// a fallback when Redis is unreachable at startup.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	// Return a copy so callers can mutate freely before Save.
	sess := entry.sess
	sess.ReadNotifications = append([]int64(nil), entry.sess.ReadNotifications...)
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.ReadNotifications = append([]int64(nil), sess.ReadNotifications...)
	s.sessions[id] = memoryEntry{sess: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
