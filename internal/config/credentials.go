package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = appName
	keyringUser    = "api-token"
	credFileName   = ".credentials"
)

// TokenOrigin names where a stored token was found.
type TokenOrigin string

const (
	OriginNone    TokenOrigin = ""
	OriginEnv     TokenOrigin = "env"
	OriginKeyring TokenOrigin = "keyring"
	OriginFile    TokenOrigin = "file"
	OriginConfig  TokenOrigin = "config"
)

// DataDir returns $XDG_DATA_HOME/taskboard (or ~/.local/share/taskboard),
// creating it when missing. Logs, snapshots and the credentials fallback
// file live there.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// TokenStore keeps the personal API token in the system keyring, with a
// 0600 file under DataDir for machines without a secret service.
type TokenStore struct {
	service string
	user    string
	dir     func() (string, error)
}

// NewTokenStore returns the store used by the CLI.
func NewTokenStore() *TokenStore {
	return &TokenStore{service: keyringService, user: keyringUser, dir: DataDir}
}

func (s *TokenStore) filePath() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Lookup returns the token and where it came from. TASKBOARD_TOKEN wins
// over anything saved. A missing token is not an error.
func (s *TokenStore) Lookup() (string, TokenOrigin, error) {
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		return v, OriginEnv, nil
	}

	if v, err := keyring.Get(s.service, s.user); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), OriginKeyring, nil
	}

	path, err := s.filePath()
	if err != nil {
		return "", OriginNone, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", OriginNone, nil
	case err != nil:
		return "", OriginNone, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if v := strings.TrimSpace(string(data)); v != "" {
		return v, OriginFile, nil
	}
	return "", OriginNone, nil
}

// Save writes the token to the keyring, or to the fallback file when the
// keyring refuses it. It reports where the token ended up.
func (s *TokenStore) Save(token string) (TokenOrigin, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return OriginNone, errors.New("token cannot be empty")
	}

	if err := keyring.Set(s.service, s.user, token); err == nil {
		return OriginKeyring, nil
	}

	path, err := s.filePath()
	if err != nil {
		return OriginNone, err
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return OriginNone, fmt.Errorf("failed to write credentials file: %w", err)
	}
	return OriginFile, nil
}

// Clear forgets the token in both the keyring and the fallback file.
func (s *TokenStore) Clear() error {
	// Machines without a secret service still clear the file.
	_ = keyring.Delete(s.service, s.user)

	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// GetToken returns the saved or env token, or "" when there is none.
func GetToken() (string, error) {
	token, _, err := NewTokenStore().Lookup()
	return token, err
}

// SaveToken stores token with the default store.
func SaveToken(token string) error {
	_, err := NewTokenStore().Save(token)
	return err
}

// ClearToken removes the token from the default store.
func ClearToken() error {
	return NewTokenStore().Clear()
}

// HasToken reports whether any stored or env token exists.
func HasToken() bool {
	token, _ := GetToken()
	return token != ""
}

// ResolveToken picks the token for API calls: a stored credential first,
// then whatever the config file carries. It returns ErrNoAuth when nothing
// is available.
func ResolveToken(cfg *Config) (string, error) {
	token, _, err := ResolveTokenOrigin(cfg)
	return token, err
}

// ResolveTokenOrigin is ResolveToken that also names the source.
func ResolveTokenOrigin(cfg *Config) (string, TokenOrigin, error) {
	token, origin, err := NewTokenStore().Lookup()
	if err != nil {
		return "", OriginNone, err
	}
	if token != "" {
		return token, origin, nil
	}
	if token := cfg.GetToken(); token != "" {
		return token, OriginConfig, nil
	}
	return "", OriginNone, fmt.Errorf("%w: set %s, add api_token to the config file, or run \"taskboard login\"", ErrNoAuth, EnvToken)
}
