package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dialbook/internal/domain"
)

const fileIndent = "    "

// FileStore keeps the directory mapping in a single JSON file. Every
// operation re-reads the file so the file stays the single source of truth;
// mutations rewrite the whole mapping under one mutex so concurrent writers
// cannot silently discard each other's changes. The rewrite goes through a
// temp file and rename, so readers never observe a partial write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore builds a store around the given JSON file path. The file is
// not touched until EnsureInitialized or a mutation runs.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// EnsureInitialized creates an empty mapping file when none exists. It is
// idempotent and safe to call on every startup and before every backup.
func (s *FileStore) EnsureInitialized(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat mapping file: %w", err)
	}
	if err := s.writeMapping(map[string]domain.Record{}); err != nil {
		return fmt.Errorf("initialize mapping file: %w", err)
	}
	return nil
}

// Get performs an exact-match lookup against the current durable mapping.
func (s *FileStore) Get(_ context.Context, identifier string) (domain.Record, error) {
	mapping, err := s.readMapping()
	if err != nil {
		return domain.Record{}, err
	}
	record, ok := mapping[identifier]
	if !ok {
		return domain.Record{}, ErrNotFound
	}
	return record, nil
}

// Put inserts or overwrites the record for an identifier. The previous value,
// if any, is fully replaced.
func (s *FileStore) Put(_ context.Context, identifier string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, err := s.readMapping()
	if err != nil {
		return err
	}
	mapping[identifier] = record
	return s.writeMapping(mapping)
}

// Delete removes the record for an identifier, reporting ErrNotFound when the
// identifier is absent and leaving the mapping unchanged in that case.
func (s *FileStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, err := s.readMapping()
	if err != nil {
		return err
	}
	if _, ok := mapping[identifier]; !ok {
		return ErrNotFound
	}
	delete(mapping, identifier)
	return s.writeMapping(mapping)
}

// Snapshot returns the durable mapping byte-exact, for backup export.
func (s *FileStore) Snapshot(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return data, nil
}

func (s *FileStore) readMapping() (map[string]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	mapping := map[string]domain.Record{}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("decode mapping file: %w", err)
	}
	return mapping, nil
}

func (s *FileStore) writeMapping(mapping map[string]domain.Record) error {
	data, err := json.MarshalIndent(mapping, "", fileIndent)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp mapping file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp mapping file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp mapping file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("swap mapping file: %w", err)
	}
	return nil
}
