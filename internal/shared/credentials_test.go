package shared

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()

	t.Run("Get Missing", func(t *testing.T) {
		token, err := store.Get("nobody")
		if err != nil {
			t.Fatalf("expected no error for missing token, got %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %q", token)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		if err := store.Set("neumann", "sig=abc"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		token, err := store.Get("neumann")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if token != "sig=abc" {
			t.Errorf("expected sig=abc, got %q", token)
		}
	})

	t.Run("Set Without Account", func(t *testing.T) {
		if err := store.Set("", "sig=abc"); err == nil {
			t.Error("expected error for empty account")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete("neumann"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := store.Delete("neumann"); err != nil {
			t.Errorf("deleting twice should not fail, got %v", err)
		}
	})
}

func TestResolveAccessToken(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()
	if err := store.Set("neumann", "sig=stored"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	t.Run("fills empty token", func(t *testing.T) {
		c := AzureConfig{Account: "neumann"}
		if err := ResolveAccessToken(&c, store); err != nil {
			t.Fatalf("ResolveAccessToken() error = %v", err)
		}
		if c.AccessToken != "sig=stored" {
			t.Errorf("expected sig=stored, got %q", c.AccessToken)
		}
	})

	t.Run("keeps configured token", func(t *testing.T) {
		c := AzureConfig{Account: "neumann", AccessToken: "sig=config"}
		if err := ResolveAccessToken(&c, store); err != nil {
			t.Fatalf("ResolveAccessToken() error = %v", err)
		}
		if c.AccessToken != "sig=config" {
			t.Errorf("expected sig=config, got %q", c.AccessToken)
		}
	})

	t.Run("skips client credentials", func(t *testing.T) {
		c := AzureConfig{Account: "neumann", TenantID: "t", ClientID: "c", ClientSecret: "s"}
		if err := ResolveAccessToken(&c, store); err != nil {
			t.Fatalf("ResolveAccessToken() error = %v", err)
		}
		if c.AccessToken != "" {
			t.Errorf("expected no SAS with client credentials, got %q", c.AccessToken)
		}
	})
}
