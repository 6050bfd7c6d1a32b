package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/storage"
)

// ErrTxConflict is returned when an append keeps losing the optimistic lock
var ErrTxConflict = errors.New("roster append conflicted too many times")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Contestant operations

func (s *Storage) AppendContestant(ctx context.Context, name, category string, createdAt time.Time) (*model.Contestant, error) {
	var created model.Contestant

	// The id counter and the list append commit in one MULTI; a concurrent
	// append touching last_id aborts the transaction and we retry.
	txf := func(tx *redis.Tx) error {
		last, err := tx.Get(ctx, s.lastIDKey()).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		created = model.Contestant{
			ID:        model.ContestantID(last + 1),
			Name:      name,
			Category:  category,
			CreatedAt: createdAt,
		}
		data, err := json.Marshal(created)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.lastIDKey(), int64(created.ID), 0)
			pipe.RPush(ctx, s.contestantsKey(), data)
			return nil
		})
		return err
	}

	for range s.cfg.MaxTxRetries {
		err := s.client.Watch(ctx, txf, s.lastIDKey())
		if err == nil {
			return &created, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrTxConflict
}

func (s *Storage) ListContestants(ctx context.Context) ([]model.Contestant, error) {
	items, err := s.client.LRange(ctx, s.contestantsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	contestants := make([]model.Contestant, 0, len(items))
	for i, item := range items {
		var c model.Contestant
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			return nil, fmt.Errorf("decode roster entry %d: %w", i, err)
		}
		contestants = append(contestants, c)
	}
	return contestants, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
