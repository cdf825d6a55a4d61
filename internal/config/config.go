// Package config handles the XDG configuration directory, the settings
// file and stored credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// AppName is the application directory name.
	AppName = "todosync"

	// SettingsFile is the settings filename.
	SettingsFile = "config.yaml"

	// CredentialsFile holds the API key and bearer token for the http backend.
	CredentialsFile = "credentials.yaml"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendHTTP   = "http"
	BackendGoogle = "google"
)

// Environment overrides.
const (
	EnvAPIKey  = "TODOSYNC_API_KEY"
	EnvBaseURL = "TODOSYNC_BASE_URL"
	EnvBackend = "TODOSYNC_BACKEND"
)

// DefaultTimeout bounds every API call unless config.yaml says otherwise.
const DefaultTimeout = 10 * time.Second

// Settings is the content of config.yaml.
type Settings struct {
	Backend  string        `yaml:"backend"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
}

// Credentials is the content of credentials.yaml.
type Credentials struct {
	APIKey string `yaml:"api_key"`
	Token  string `yaml:"token,omitempty"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings is loaded from config.yaml, with defaults and environment
	// overrides applied.
	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todosync or $HOME/.config/todosync.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Backend:  BackendHTTP,
		Timeout:  DefaultTimeout,
		LogLevel: "error",
	}
}

// LoadSettings reads path, fills defaults and applies environment
// overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	default:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	if v := os.Getenv(EnvBackend); v != "" {
		settings.Backend = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		settings.BaseURL = v
	}
	if settings.Backend == "" {
		settings.Backend = BackendHTTP
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks the settings for unsupported values.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendHTTP, BackendGoogle:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// CredentialsPath returns the path to credentials.yaml.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Dir, CredentialsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// HasCredentials reports whether the active backend has what it needs to
// authenticate.
func (c *Config) HasCredentials() bool {
	if c.Settings.Backend == BackendGoogle {
		return c.HasOAuthClient() && c.HasToken()
	}
	creds, err := c.LoadCredentials()
	return err == nil && (creds.APIKey != "" || creds.Token != "")
}

// LoadCredentials reads credentials.yaml. TODOSYNC_API_KEY overrides the
// stored key; a missing file yields empty credentials.
func (c *Config) LoadCredentials() (Credentials, error) {
	var creds Credentials
	data, err := os.ReadFile(c.CredentialsPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Credentials{}, fmt.Errorf("failed to read %s: %w", CredentialsFile, err)
	default:
		if err := yaml.Unmarshal(data, &creds); err != nil {
			return Credentials{}, fmt.Errorf("invalid %s: %w", CredentialsFile, err)
		}
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		creds.APIKey = v
	}
	return creds, nil
}

// SaveCredentials writes credentials.yaml with mode 0600.
func (c *Config) SaveCredentials(creds Credentials) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredentialsPath(), data, 0600)
}

// RemoveCredentials deletes every stored credential file. Missing files
// are ignored; it reports whether anything was removed.
func (c *Config) RemoveCredentials() (bool, error) {
	removed := false
	for _, path := range []string{c.TokenPath(), c.CredentialsPath()} {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = true
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, err
		}
	}
	return removed, nil
}
