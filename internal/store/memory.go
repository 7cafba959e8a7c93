package store

import (
	"sort"
	"sync"
)

// MemoryStore caches loaded tables by source path for the process
// lifetime. Cached slices are shared and must be treated as read-only.
type MemoryStore[T any] struct {
	mu     sync.RWMutex
	tables map[string][]T
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{tables: make(map[string][]T)}
}

func (s *MemoryStore[T]) Get(path string) ([]T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.tables[path]
	return rows, ok
}

func (s *MemoryStore[T]) Put(path string, rows []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[path] = rows
}

// Forget drops a cached table so the next load reads the source again.
func (s *MemoryStore[T]) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, path)
}

func (s *MemoryStore[T]) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tables))
	for p := range s.tables {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
