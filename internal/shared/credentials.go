package shared

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "photobook"

// TokenStore keeps storage access tokens outside of config files.
type TokenStore interface {
	Get(account string) (string, error)
	Set(account, token string) error
	Delete(account string) error
}

// KeyringStore implements [TokenStore] on top of the OS keyring.
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a [KeyringStore] scoped to the photobook service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

// Get returns the token stored for account, or an empty string when none is stored.
func (k *KeyringStore) Get(account string) (string, error) {
	token, err := keyring.Get(k.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return token, nil
}

// Set stores token for account.
func (k *KeyringStore) Set(account, token string) error {
	if account == "" {
		return fmt.Errorf("%w: storage account", ErrMissingArgument)
	}
	if err := keyring.Set(k.service, account, token); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// Delete removes the token stored for account. Deleting a missing token is not an error.
func (k *KeyringStore) Delete(account string) error {
	err := keyring.Delete(k.service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

// ResolveAccessToken fills the Azure access token from store when the config leaves it empty.
func ResolveAccessToken(c *AzureConfig, store TokenStore) error {
	if c.AccessToken != "" || c.UsesClientCredentials() || store == nil {
		return nil
	}

	token, err := store.Get(c.Account)
	if err != nil {
		return err
	}
	c.AccessToken = token
	return nil
}
