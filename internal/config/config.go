// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
)

const appName = "taskboard"

// Environment variables that override the config file.
const (
	EnvAPIURL   = "TASKBOARD_API_URL"
	EnvToken    = "TASKBOARD_TOKEN"
	EnvLogLevel = "TASKBOARD_LOG_LEVEL"
)

// ErrNoAuth is returned when no credential is available from any source.
var ErrNoAuth = errors.New("no authentication configured")

// Config represents the application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	UI            UIConfig            `yaml:"ui"`
	Board         BoardConfig         `yaml:"board"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Serve         ServeConfig         `yaml:"serve"`
	Log           LogConfig           `yaml:"log"`
}

// ServerConfig points the client at the collaboration backend.
type ServerConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// AuthConfig holds authentication-related settings.
type AuthConfig struct {
	// APIToken is a personal API token (for simple auth without OAuth)
	APIToken string `yaml:"api_token,omitempty"`

	// OAuth2 client registration
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	AuthURL      string `yaml:"auth_url,omitempty"`
	TokenURL     string `yaml:"token_url,omitempty"`

	// OAuth2 tokens (obtained after successful auth)
	AccessToken  string    `yaml:"access_token,omitempty"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode             bool   `yaml:"vim_mode"`
	DefaultTab          string `yaml:"default_tab,omitempty"`
	CalendarDefaultView string `yaml:"calendar_default_view,omitempty"` // "compact" or "expanded"
	DefaultWorkspace    string `yaml:"default_workspace,omitempty"`
	BoardSort           string `yaml:"board_sort,omitempty"`
}

// BoardConfig overrides the kanban column layout.
type BoardConfig struct {
	Columns []projection.ColumnConfig `yaml:"columns,omitempty"`
}

// NotificationsConfig controls desktop reminders.
type NotificationsConfig struct {
	Desktop bool `yaml:"desktop"`
}

// ServeConfig configures the HTTP projection service.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:  api.DefaultBaseURL,
			Timeout:  api.DefaultTimeout,
			CacheTTL: api.DefaultCacheTTL,
		},
		UI: UIConfig{
			VimMode:             true,
			DefaultTab:          "today",
			CalendarDefaultView: "compact",
			BoardSort:           string(projection.SortPriority),
		},
		Notifications: NotificationsConfig{Desktop: true},
		Serve:         ServeConfig{Addr: ":8080"},
		Log:           LogConfig{Level: "info"},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads .env, the config file and environment overrides, in that order.
// If the file doesn't exist, defaults are used.
func Load() (*Config, error) {
	LoadDotEnv(".env")

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

// LoadFile reads the configuration from path.
// If the file doesn't exist, returns a default configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(cfg.Board.Columns) > 0 {
		if err := projection.ValidateColumns(cfg.Board.Columns); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Auth.APIToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes the configuration to path.
func SaveFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasValidAuth returns true if the config has valid authentication credentials.
func (c *Config) HasValidAuth() bool {
	return c.Auth.APIToken != "" || c.Auth.AccessToken != ""
}

// HasOAuthCredentials returns true if OAuth client credentials are configured.
func (c *Config) HasOAuthCredentials() bool {
	return c.Auth.ClientID != "" && c.Auth.AuthURL != "" && c.Auth.TokenURL != ""
}

// GetToken returns the best available token for API authentication.
// Prefers AccessToken (from OAuth) over APIToken.
func (c *Config) GetToken() string {
	if c.Auth.AccessToken != "" {
		return c.Auth.AccessToken
	}
	return c.Auth.APIToken
}

// Columns returns the configured board columns, or the default layout.
func (c *Config) Columns() []projection.ColumnConfig {
	if len(c.Board.Columns) == 0 {
		return projection.DefaultColumns()
	}
	return c.Board.Columns
}

// NewClient builds an API client from the server settings.
func (c *Config) NewClient(token string) *api.Client {
	return api.NewClient(token,
		api.WithBaseURL(c.Server.BaseURL),
		api.WithTimeout(c.Server.Timeout),
		api.WithCacheTTL(c.Server.CacheTTL),
	)
}

// ParseLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (c *Config) ParseLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

const configTemplate = `# taskboard configuration
server:
  # Collaboration backend REST API (override with TASKBOARD_API_URL)
  base_url: http://localhost:3000/api
  timeout: 30s
  cache_ttl: 30s

auth:
  # Personal API token (or set TASKBOARD_TOKEN, or run "taskboard login")
  # api_token: ""
  # OAuth2 client for "taskboard login"
  # client_id: ""
  # client_secret: ""
  # auth_url: http://localhost:3000/oauth/authorize
  # token_url: http://localhost:3000/oauth/token

ui:
  vim_mode: true
  default_tab: today        # today, calendar, board, tasks, inbox
  calendar_default_view: compact
  board_sort: priority      # priority, aging, recent, comments
  # default_workspace: ""

# board:
#   columns:
#     - id: backlog
#       title: Backlog
#       statuses: [TODO]
#       wip_limit: 20

notifications:
  desktop: true

serve:
  addr: ":8080"

log:
  level: info               # debug, info, warn, error
  # file: ""
`

// WriteTemplate writes a commented starter config to path unless a file
// already exists there.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
