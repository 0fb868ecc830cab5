package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileStore keeps observations as JSON lines in a single file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	err = file.Close()
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(observations []Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, o := range observations {
		line, err := json.Marshal(o)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(file, string(line))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) Observations(label string) ([]Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var observations []Observation
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var o Observation
		err := json.Unmarshal(scanner.Bytes(), &o)
		if err != nil {
			return nil, err
		}
		if o.Label == label {
			observations = append(observations, o)
		}
	}
	return observations, scanner.Err()
}
