package memory

import (
	"context"
	"sync"
	"time"

	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu          sync.RWMutex
	contestants []model.Contestant
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Contestant operations

func (s *Storage) AppendContestant(ctx context.Context, name, category string, createdAt time.Time) (*model.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := model.ContestantID(1)
	if n := len(s.contestants); n > 0 {
		id = s.contestants[n-1].ID + 1
	}

	c := model.Contestant{
		ID:        id,
		Name:      name,
		Category:  category,
		CreatedAt: createdAt,
	}
	s.contestants = append(s.contestants, c)
	return &c, nil
}

func (s *Storage) ListContestants(ctx context.Context) ([]model.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Contestant, len(s.contestants))
	copy(result, s.contestants)
	return result, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}
