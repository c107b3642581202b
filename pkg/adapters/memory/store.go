package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/tracebench/pkg/domain"
)

// Store implements ports.TranscriptStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Transcript
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Transcript),
	}
}

// Save stores a copy of the transcript.
func (s *Store) Save(ctx context.Context, transcript *domain.Transcript) error {
	copied := transcript.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[transcript.ID] = copied
	return nil
}

// Load returns a copy so callers can't mutate stored transcripts through the pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.data[id]
	if !ok {
		return nil, domain.ErrTranscriptNotFound
	}
	return tr.Clone(), nil
}

// Delete removes the transcript.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored transcript IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
