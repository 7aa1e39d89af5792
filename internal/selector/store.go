package selector

import (
	"sync"

	"github.com/justestif/mood-music/internal/mood"
)

// Store remembers the last file served for each mood.
type Store interface {
	Last(m mood.Mood) (string, bool)
	Set(m mood.Mood, file string)
}

// MemoryStore keeps last-served files in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	last map[mood.Mood]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		last: make(map[mood.Mood]string),
	}
}

// Last returns the file last served for m, if any.
func (s *MemoryStore) Last(m mood.Mood) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.last[m]
	return file, ok
}

// Set records file as the last one served for m.
func (s *MemoryStore) Set(m mood.Mood, file string) {
	s.mu.Lock()
	s.last[m] = file
	s.mu.Unlock()
}

// Len returns the number of moods with a recorded file.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.last)
}

var _ Store = (*MemoryStore)(nil)
