package shared

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment overrides. They win over config.toml and lose to flags.
const (
	EnvStorageBackend    = "PHOTOBOOK_STORAGE_BACKEND"
	EnvAzureAccount      = "PHOTOBOOK_AZURE_ACCOUNT"
	EnvAzureContainer    = "PHOTOBOOK_AZURE_CONTAINER"
	EnvAzureAccessToken  = "PHOTOBOOK_AZURE_ACCESS_TOKEN"
	EnvAzureEndpoint     = "PHOTOBOOK_AZURE_ENDPOINT"
	EnvAzureTenantID     = "PHOTOBOOK_AZURE_TENANT_ID"
	EnvAzureClientID     = "PHOTOBOOK_AZURE_CLIENT_ID"
	EnvAzureClientSecret = "PHOTOBOOK_AZURE_CLIENT_SECRET"
	EnvProxyURL          = "PHOTOBOOK_PROXY_URL"
	EnvPageSize          = "PHOTOBOOK_PAGE_SIZE"
	EnvLogLevel          = "PHOTOBOOK_LOG_LEVEL"
)

// LoadEnv loads KEY=VALUE pairs from the given dotenv files into the process environment.
//
// Missing files are skipped; variables already set in the environment are not overwritten.
func LoadEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv copies PHOTOBOOK_* environment variables over the matching config fields.
func ApplyEnv(c *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(EnvStorageBackend, &c.Storage.Backend)
	setString(EnvAzureAccount, &c.Storage.Azure.Account)
	setString(EnvAzureContainer, &c.Storage.Azure.Container)
	setString(EnvAzureAccessToken, &c.Storage.Azure.AccessToken)
	setString(EnvAzureEndpoint, &c.Storage.Azure.Endpoint)
	setString(EnvAzureTenantID, &c.Storage.Azure.TenantID)
	setString(EnvAzureClientID, &c.Storage.Azure.ClientID)
	setString(EnvAzureClientSecret, &c.Storage.Azure.ClientSecret)
	setString(EnvProxyURL, &c.Storage.Proxy.URL)
	setString(EnvLogLevel, &c.Log.Level)

	if v, ok := os.LookupEnv(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvPageSize, v)
		}
		c.Book.PageSize = n
	}

	return nil
}
