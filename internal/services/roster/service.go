package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/neu-balayan/pageantscore/internal/dependencies/clock"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/storage"
)

// Listener is notified after a contestant is added
type Listener func(ctx context.Context, event model.Event)

// Service holds and queries the ordered roster of registered contestants
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu        sync.RWMutex
	listeners []Listener
}

// New creates a new roster Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "roster")),
	}
}

// OnAdd registers a listener called after every successful Add
func (s *Service) OnAdd(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Add registers a contestant. The name is trimmed first; a blank name is
// silently ignored and Add returns (nil, nil) without consuming an id.
// An empty category falls back to model.DefaultCategory, any other value is
// stored verbatim.
func (s *Service) Add(ctx context.Context, name, category string) (*model.Contestant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if category == "" {
		category = model.DefaultCategory
	}

	c, err := s.storage.AppendContestant(ctx, name, category, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("add contestant: %w", err)
	}

	s.logger.Info("contestant registered",
		slog.Int("id", int(c.ID)),
		slog.String("category", c.Category))

	s.notify(ctx, model.Event{
		Type:       model.EventContestantAdded,
		Timestamp:  c.CreatedAt,
		Contestant: *c,
	})

	return c, nil
}

// List returns the roster in insertion order. A non-empty prefix keeps only
// contestants whose category starts with it. Never nil.
func (s *Service) List(ctx context.Context, prefix string) ([]model.Contestant, error) {
	all, err := s.storage.ListContestants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contestants: %w", err)
	}
	return filter(all, prefix), nil
}

// Partition returns the Mr and Ms display groups from a single read.
// Contestants whose category starts with neither prefix appear in neither.
func (s *Service) Partition(ctx context.Context) (mr, ms []model.Contestant, err error) {
	all, err := s.storage.ListContestants(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list contestants: %w", err)
	}
	return filter(all, model.PrefixMr), filter(all, model.PrefixMs), nil
}

// Counts recomputes the dashboard headcount from the current roster
func (s *Service) Counts(ctx context.Context) (model.Counts, error) {
	all, err := s.storage.ListContestants(ctx)
	if err != nil {
		return model.Counts{}, fmt.Errorf("count contestants: %w", err)
	}
	return model.Counts{
		Total: len(all),
		Mr:    len(filter(all, model.PrefixMr)),
		Ms:    len(filter(all, model.PrefixMs)),
	}, nil
}

func (s *Service) notify(ctx context.Context, event model.Event) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, event)
	}
}

func filter(all []model.Contestant, prefix string) []model.Contestant {
	result := make([]model.Contestant, 0, len(all))
	for _, c := range all {
		if c.HasPrefix(prefix) {
			result = append(result, c)
		}
	}
	return result
}
