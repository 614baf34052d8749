package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Book     BookConfig     `toml:"book"`
	Storage  StorageConfig  `toml:"storage"`
	Upload   UploadConfig   `toml:"upload"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// BookConfig contains photobook presentation settings.
type BookConfig struct {
	Title        string `toml:"title"`
	PageSize     int    `toml:"page_size"`
	FlipDelayMS  int    `toml:"flip_delay_ms"`
	CloseDelayMS int    `toml:"close_delay_ms"`
	SeedPath     string `toml:"seed_path"`
}

// FlipDelay is the page-turn transition time.
func (b BookConfig) FlipDelay() time.Duration {
	return time.Duration(b.FlipDelayMS) * time.Millisecond
}

// CloseDelay is the cover-closing transition time.
func (b BookConfig) CloseDelay() time.Duration {
	return time.Duration(b.CloseDelayMS) * time.Millisecond
}

// StorageConfig selects and configures the object-storage backend.
type StorageConfig struct {
	Backend string      `toml:"backend"`
	Timeout int         `toml:"timeout"`
	Azure   AzureConfig `toml:"azure"`
	Local   LocalConfig `toml:"local"`
	Proxy   ProxyConfig `toml:"proxy"`
}

// AzureConfig contains Azure Blob Storage settings.
type AzureConfig struct {
	Account      string `toml:"account"`
	Container    string `toml:"container"`
	AccessToken  string `toml:"access_token"`
	Endpoint     string `toml:"endpoint"`
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// UsesClientCredentials reports whether bearer tokens should be requested instead of using a SAS.
func (a AzureConfig) UsesClientCredentials() bool {
	return a.TenantID != "" && a.ClientID != "" && a.ClientSecret != ""
}

// LocalConfig contains settings for the SQLite-backed object store.
type LocalConfig struct {
	PublicURL string `toml:"public_url"`
}

// ProxyConfig points at a `photobook serve` instance that holds the storage credentials.
type ProxyConfig struct {
	URL string `toml:"url"`
}

// RequestTimeout returns the per-request timeout, zero meaning none.
func (s StorageConfig) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// UploadConfig limits uploads.
type UploadConfig struct {
	MaxBytes  int64   `toml:"max_bytes"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the values the book cannot run without.
func (c *Config) Validate() error {
	if c.Book.PageSize <= 0 {
		return fmt.Errorf("%w: book.page_size must be positive, got %d", ErrInvalidConfig, c.Book.PageSize)
	}
	if c.Book.FlipDelayMS < 0 || c.Book.CloseDelayMS < 0 {
		return fmt.Errorf("%w: book delays must not be negative", ErrInvalidConfig)
	}

	switch c.Storage.Backend {
	case "azure":
		if c.Storage.Azure.Account == "" && c.Storage.Azure.Endpoint == "" {
			return fmt.Errorf("%w: storage.azure.account is required", ErrInvalidConfig)
		}
		if c.Storage.Azure.Container == "" {
			return fmt.Errorf("%w: storage.azure.container is required", ErrInvalidConfig)
		}
	case "proxy":
		if c.Storage.Proxy.URL == "" {
			return fmt.Errorf("%w: storage.proxy.url is required", ErrInvalidConfig)
		}
	case "local":
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload.max_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
