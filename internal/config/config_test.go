package config

import (
	"crypto"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pageant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorageMemory, cfg.Storage.Type)

	hash, err := cfg.Hash()
	require.NoError(t, err)
	assert.Equal(t, crypto.SHA256, hash)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
port: 9090
log_level: debug
session_duration: 2h
digest: SHA256
storage:
  type: redis
  redis:
    url: redis://localhost:6379/0
    key_prefix: pageant-test
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.Redis.URL)
	assert.Equal(t, "pageant-test", cfg.Storage.Redis.KeyPrefix)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	hash, err := cfg.Hash()
	require.NoError(t, err)
	assert.Equal(t, crypto.SHA256, hash)
}

func TestLoadFileRejectsDigestOtherThanReference(t *testing.T) {
	path := writeConfig(t, "digest: blake2s\n")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, "port: 3000\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "port: [not a number\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadAppliesEnvOverFile(t *testing.T) {
	path := writeConfig(t, "port: 3000\nlog_level: warn\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv("PORT", "4000")
	t.Setenv("SESSION_DURATION", "90m")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DIGEST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.SessionDuration)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"redis without url", func(c *Config) { c.Storage.Type = StorageRedis }, ErrMissingRedis},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }, ErrUnknownStorage},
		{"unknown digest", func(c *Config) { c.Digest = "md5" }, ErrUnknownDigest},
		{"digest unlike reference", func(c *Config) { c.Digest = DigestBLAKE2s }, ErrDigestMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateRejectsBadLevelAndDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SessionDuration = 0
	assert.Error(t, cfg.Validate())
}
