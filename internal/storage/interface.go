package storage

import (
	"context"
	"time"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// Storage defines the interface for roster persistence
type Storage interface {
	// AppendContestant stores a new contestant at the end of the roster.
	// The id is assigned by the backend: previous maximum + 1, or 1 for an
	// empty roster. No id is consumed if the append fails.
	AppendContestant(ctx context.Context, name, category string, createdAt time.Time) (*model.Contestant, error)

	// ListContestants returns a copy of the roster in insertion order
	ListContestants(ctx context.Context) ([]model.Contestant, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
