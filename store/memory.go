package store

import "sync"

type MemoryStore struct {
	mu           sync.RWMutex
	observations map[string][]Observation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		observations: make(map[string][]Observation),
	}
}

func (s *MemoryStore) Save(observations []Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range observations {
		s.observations[o.Label] = append(s.observations[o.Label], o)
	}
	return nil
}

func (s *MemoryStore) Observations(label string) ([]Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observations[label], nil
}
