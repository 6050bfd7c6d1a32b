package config

import (
	"crypto"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Digest names accepted for the credential hash
const (
	DigestSHA256  = "sha256"
	DigestBLAKE2s = "blake2s"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "PAGEANT_CONFIG"

var (
	ErrUnknownStorage = errors.New("unknown storage type")
	ErrUnknownDigest  = errors.New("unknown digest")
	ErrDigestMismatch = errors.New("digest does not match the compiled-in credential reference")
	ErrMissingRedis   = errors.New("redis url required when storage type is redis")
)

// Config is the server configuration. Administrator credentials are not
// part of it; they are compiled into the binary.
type Config struct {
	Port            int           `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	SessionDuration time.Duration `yaml:"session_duration"`
	Digest          string        `yaml:"digest"`
	Storage         StorageConfig `yaml:"storage"`
}

// StorageConfig selects and configures the roster backend
type StorageConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds the redis roster settings
type RedisConfig struct {
	URL       string `yaml:"url"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		LogLevel:        "info",
		SessionDuration: 24 * time.Hour,
		Digest:          DigestSHA256,
		Storage: StorageConfig{
			Type: StorageMemory,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// PAGEANT_CONFIG (if set) and environment overrides, in that order.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// LoadFile reads a YAML config file on top of the defaults, without env overrides
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Storage.Redis.URL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_DURATION %q: %w", v, err)
		}
		c.SessionDuration = d
	}
	if v := getenv("DIGEST"); v != "" {
		c.Digest = v
	}
	return nil
}

// Validate checks the combination of settings
func (c Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.Redis.URL == "" {
			return ErrMissingRedis
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage.Type)
	}
	hash, err := c.Hash()
	if err != nil {
		return err
	}
	// The server always checks against the compiled-in reference
	if hash != model.DefaultCredentialHash {
		return fmt.Errorf("%w: %q", ErrDigestMismatch, c.Digest)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", c.SessionDuration)
	}
	return nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Hash maps the configured digest name to its crypto.Hash
func (c Config) Hash() (crypto.Hash, error) {
	switch strings.ToLower(c.Digest) {
	case "", DigestSHA256:
		return crypto.SHA256, nil
	case DigestBLAKE2s:
		return crypto.BLAKE2s_256, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDigest, c.Digest)
	}
}

// Level parses the configured log level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
