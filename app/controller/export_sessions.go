package controller

import (
	"sync"
	"time"

	"catalog-studio/service"

	"github.com/google/uuid"
)

// ExportSessionStore keeps PNG export results in memory until they expire
type ExportSessionStore struct {
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*service.MemorySink
}

// NewExportSessionStore creates a store whose sessions expire after ttl
func NewExportSessionStore(ttl time.Duration) *ExportSessionStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ExportSessionStore{
		ttl:      ttl,
		sessions: make(map[string]*service.MemorySink),
	}
}

// Add stores sink under a new session id and schedules its removal
func (s *ExportSessionStore) Add(sink *service.MemorySink) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = sink
	s.mu.Unlock()

	time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	})
	return id
}

// Get returns the session's artifacts
func (s *ExportSessionStore) Get(id string) (*service.MemorySink, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sink, ok := s.sessions[id]
	return sink, ok
}
