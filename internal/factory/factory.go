package factory

import (
	"crypto"
	"errors"
	"fmt"
	"io"
	"log/slog"

	// Registers crypto.BLAKE2s_256 for the blake2s digest option
	_ "golang.org/x/crypto/blake2s"

	"github.com/neu-balayan/pageantscore/internal/config"
	"github.com/neu-balayan/pageantscore/internal/dependencies/clock"
	"github.com/neu-balayan/pageantscore/internal/dependencies/random"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
	"github.com/neu-balayan/pageantscore/internal/services/credential"
	"github.com/neu-balayan/pageantscore/internal/services/roster"
	"github.com/neu-balayan/pageantscore/internal/storage"
	"github.com/neu-balayan/pageantscore/internal/storage/memory"
	redisstorage "github.com/neu-balayan/pageantscore/internal/storage/redis"
	"github.com/neu-balayan/pageantscore/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Verifier      *credential.Verifier
	AuthService   *auth.Service
	RosterService *roster.Service

	// Live dashboard feed
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Credential overrides the compiled-in administrator reference (optional)
	Credential *model.CredentialReference
	// Hash selects the credential digest (optional, defaults to SHA-256).
	// Anything other than model.DefaultCredentialHash needs a Credential
	// made with the same hash.
	Hash crypto.Hash
}

// FromServerConfig translates the loaded server configuration into a
// factory Config
func FromServerConfig(c config.Config, logger *slog.Logger) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	hash, err := c.Hash()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AuthConfig: auth.Config{
			SessionDuration: c.SessionDuration,
		},
		Logger:      logger,
		StorageType: c.Storage.Type,
		Hash:        hash,
	}

	if cfg.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.Storage.Redis.URL
		if c.Storage.Redis.PoolSize > 0 {
			redisCfg.PoolSize = c.Storage.Redis.PoolSize
		}
		if c.Storage.Redis.KeyPrefix != "" {
			redisCfg.KeyPrefix = c.Storage.Redis.KeyPrefix
		}
		cfg.RedisConfig = &redisCfg
	}

	return cfg, nil
}

// New creates a new application with all dependencies wired. It fails with
// credential.ErrDigestUnavailable when the configured digest is not linked in
// and with config.ErrDigestMismatch when a non-default digest would be checked
// against the compiled-in reference.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var opts []credential.Option
	if cfg.Hash != 0 {
		opts = append(opts, credential.WithHash(cfg.Hash))
	}

	ref := model.DefaultCredentialReference()
	if cfg.Credential != nil {
		ref = *cfg.Credential
	}
	verifier, err := credential.New(ref, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Credential == nil && cfg.Hash != 0 && cfg.Hash != model.DefaultCredentialHash {
		return nil, fmt.Errorf("%w: %s", config.ErrDigestMismatch, cfg.Hash)
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	logger.Info("application wired",
		slog.String("storage", storageType),
		slog.String("admin", verifier.Reference()))

	return newWithDependencies(store, verifier, clock.New(), random.New(), authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, verifier *credential.Verifier, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(verifier, clk, rnd, authCfg, logger)
	rosterService := roster.New(store, clk, logger)

	hub := sse.NewHub("roster", logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, rosterService, logger)
	rosterService.OnAdd(broadcaster.OnContestantAdded)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		Verifier:      verifier,
		AuthService:   authService,
		RosterService: rosterService,
		Hub:           hub,
		Broadcaster:   broadcaster,
	}
}

// Close stops the live feed and releases storage connections
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
