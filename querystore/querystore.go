package querystore

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when no query is recorded under a key.
var ErrNotFound = errors.New("query not found")

// Store maps a selector's source key to its compiled query document.
// A Store is scoped to one compile session and is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	queries map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		queries: make(map[string]string),
	}
}

// GetOrCompute returns the document recorded under key, computing and
// recording it first when absent. Concurrent callers racing on the same key
// may compute more than once; the value is a pure function of the key, so
// the last write is as good as the first.
func (s *Store) GetOrCompute(key string, compute func() (string, error)) (string, error) {
	s.mu.RLock()
	doc, ok := s.queries[key]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}
	doc, err := compute()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.queries[key] = doc
	s.mu.Unlock()
	return doc, nil
}

// Get returns the document recorded under key.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.queries[key]
	if !ok {
		return "", ErrNotFound
	}
	return doc, nil
}

// Put records a document under key, replacing any earlier value.
func (s *Store) Put(key, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries[key] = doc
}

// Len returns the number of recorded queries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queries)
}

// Keys returns the recorded keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.queries))
	for k := range s.queries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
