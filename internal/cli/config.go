package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables read by DefaultConfig
const (
	EnvServer    = "PAGEANT_SERVER"
	EnvToken     = "PAGEANT_TOKEN"
	EnvTokenFile = "PAGEANT_TOKEN_FILE"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the flags shared by every command. Flags win over the
// environment, which wins over the saved token file.
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig seeds a Config from the environment
func DefaultConfig() *Config {
	c := &Config{
		ServerURL: "http://localhost:8080",
		Token:     os.Getenv(EnvToken),
		TokenFile: filepath.Join(".pageantctl", "token"),
		Output:    FormatText,
	}
	if home, err := os.UserHomeDir(); err == nil {
		c.TokenFile = filepath.Join(home, c.TokenFile)
	}
	if v := os.Getenv(EnvServer); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvTokenFile); v != "" {
		c.TokenFile = v
	}
	return c
}

// Validate rejects settings no command can work with
func (c *Config) Validate() error {
	switch c.Output {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Output, FormatText, FormatJSON)
	}
	if c.ServerURL == "" {
		return errors.New("server URL is empty")
	}
	return nil
}

// LoadToken reads the saved session token unless one was already given.
// A missing token file leaves the token empty.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}
	data, err := os.ReadFile(c.TokenFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read token file: %w", err)
	}
	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken remembers token for later invocations
func (c *Config) SaveToken(token string) error {
	c.Token = token
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
