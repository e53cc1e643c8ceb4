// Package memory is an in-process translation cache.
package memory

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
)

// Storage keeps at most maxEntries values, evicting the oldest insert first.
type Storage struct {
	mu         sync.RWMutex
	maxEntries int
	values     map[string]string
	order      []string
}

// NewStorage creates a cache. maxEntries <= 0 means unbounded.
func NewStorage(maxEntries int) *Storage {
	return &Storage{maxEntries: maxEntries, values: make(map[string]string)}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", eris.Wrapf(domain.ErrCacheMiss, "key %s", key)
	}
	return v, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
	for s.maxEntries > 0 && len(s.order) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.values, oldest)
	}
	return nil
}

// Len reports the number of cached entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	s.order = nil
}

func (s *Storage) Close() error { return nil }
