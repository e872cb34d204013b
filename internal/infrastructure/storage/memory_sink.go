package storage

import (
	"context"
	"errors"
	"sync"
)

// MemorySink keeps files in memory. It backs dry runs and tests.
type MemorySink struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
}

// Put stores a copy of data under key
func (s *MemorySink) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	s.contentTypes[key] = contentType
	return nil
}

// Exists reports whether key has been stored
func (s *MemorySink) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Get returns the stored data and content type of key
func (s *MemorySink) Get(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, s.contentTypes[key], ok
}

// Len returns the number of stored objects
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
