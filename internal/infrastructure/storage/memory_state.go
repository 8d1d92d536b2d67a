package storage

import (
	"context"
	"sync"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"
)

type memoryState struct {
	mu  sync.RWMutex
	ids *entity.ProcessedIDSet
}

// NewMemoryStateRepository keeps state for the life of the process only.
func NewMemoryStateRepository(ids ...string) repository.StateRepository {
	return &memoryState{
		ids: entity.NewProcessedIDSet(ids...),
	}
}

func (s *memoryState) Load(ctx context.Context) (*entity.ProcessedIDSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ids.Clone(), nil
}

func (s *memoryState) Save(ctx context.Context, ids *entity.ProcessedIDSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = ids.Clone()
	return nil
}
