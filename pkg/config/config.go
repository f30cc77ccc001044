package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Defaults.
const (
	DefaultBackendURL         = "http://localhost:8080"
	DefaultStorageDriver      = "sqlite"
	DefaultPageSize           = 10
	DefaultMaxSuggestions     = 10
	DefaultRequestTimeout     = 10 * time.Second
	DefaultSuggestionCacheTTL = time.Minute
	DefaultSessionTTL         = 30 * time.Minute

	minSuggestions = 5
	maxSuggestions = 10
	maxPageSize    = 100
)

type Config struct {
	BackendURL         string   `toml:"backend_url"`
	StorageDir         string   `toml:"storage_dir"`
	StorageDriver      string   `toml:"storage_driver"`
	PageSize           int      `toml:"page_size"`
	MaxSuggestions     int      `toml:"max_suggestions"`
	RequestTimeout     Duration `toml:"request_timeout"`
	SuggestionCacheTTL Duration `toml:"suggestion_cache_ttl"`
	SessionTTL         Duration `toml:"session_ttl"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir}
	c.applyDefaults()
	return c, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills zero values and clamps max_suggestions into 5..10.
func (c *Config) applyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.StorageDriver == "" {
		c.StorageDriver = DefaultStorageDriver
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > maxPageSize {
		c.PageSize = maxPageSize
	}
	switch {
	case c.MaxSuggestions == 0:
		c.MaxSuggestions = DefaultMaxSuggestions
	case c.MaxSuggestions < minSuggestions:
		c.MaxSuggestions = minSuggestions
	case c.MaxSuggestions > maxSuggestions:
		c.MaxSuggestions = maxSuggestions
	}
	if c.RequestTimeout.Duration <= 0 {
		c.RequestTimeout = Duration{DefaultRequestTimeout}
	}
	if c.SuggestionCacheTTL.Duration <= 0 {
		c.SuggestionCacheTTL = Duration{DefaultSuggestionCacheTTL}
	}
	if c.SessionTTL.Duration <= 0 {
		c.SessionTTL = Duration{DefaultSessionTTL}
	}
}

// Validate checks the values defaults cannot repair.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an http(s) URL", c.BackendURL)
	}
	switch c.StorageDriver {
	case "sqlite", "badger":
	default:
		return fmt.Errorf("invalid storage_driver %q: must be sqlite or badger", c.StorageDriver)
	}
	return nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/falcony", storageDir, 1)
	if c.BackendURL != "" && c.BackendURL != DefaultBackendURL {
		template = strings.Replace(template, DefaultBackendURL, c.BackendURL, 1)
	}
	return template, nil
}

// GetDefaultStorageDir returns the default storage directory for history and settings
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "falcony")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory for falcony
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "falcony")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
