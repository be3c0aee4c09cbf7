package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dialbook/internal/domain"
)

// MemoryStore keeps the mapping in process memory. It intentionally favors
// clarity over performance and is used by tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.Record)}
}

func (s *MemoryStore) EnsureInitialized(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Get(_ context.Context, identifier string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[identifier]; ok {
		return record, nil
	}
	return domain.Record{}, ErrNotFound
}

func (s *MemoryStore) Put(_ context.Context, identifier string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[identifier] = record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[identifier]; !ok {
		return ErrNotFound
	}
	delete(s.records, identifier)
	return nil
}

// Snapshot renders the mapping in the same JSON layout the file backend
// persists, so backups look identical regardless of backend.
func (s *MemoryStore) Snapshot(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := json.MarshalIndent(s.records, "", fileIndent)
	if err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	return data, nil
}
