package id

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for rebuild runs and job dispatches.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Sequence returns fixed ids in order. Tests use it to keep run ids stable.
type Sequence struct {
	IDs []string

	mu   sync.Mutex
	next int
}

func (s *Sequence) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.IDs) {
		return "", fmt.Errorf("id sequence exhausted after %d ids", len(s.IDs))
	}
	v := s.IDs[s.next]
	s.next++
	return v, nil
}
