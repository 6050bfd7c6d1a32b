package mocks

import (
	"fmt"
	"sync"

	"github.com/neu-balayan/pageantscore/internal/dependencies/random"
)

// MockRandom returns queued strings first, then predictable numbered
// tokens ("tok0001", "tok0002", ...) so every generated token stays unique.
type MockRandom struct {
	mu      sync.Mutex
	queued  []string
	counter int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued value, or the next numbered token
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queued) > 0 {
		next := r.queued[0]
		r.queued = r.queued[1:]
		return next
	}
	r.counter++
	return fmt.Sprintf("tok%04d", r.counter)
}

// QueueString adds values to be returned by String before numbered tokens
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.queued = append(r.queued, values...)
	r.mu.Unlock()
}
