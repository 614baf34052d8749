package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/photobook/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSetToken stores the Azure SAS token for the configured account in the OS keyring.
func (r *Runner) AuthSetToken(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimPrefix(strings.TrimSpace(cmd.StringArg("token")), "?")
	if token == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}

	account := r.config.Storage.Azure.Account
	if err := r.tokens.Set(account, token); err != nil {
		return err
	}

	r.logger.Info("access token stored", "account", account)
	return r.writePlain("✓ Token stored in the OS keyring for account %s\n", account)
}

// AuthClearToken removes the stored Azure SAS token.
func (r *Runner) AuthClearToken(ctx context.Context, cmd *cli.Command) error {
	account := r.config.Storage.Azure.Account
	if err := r.tokens.Delete(account); err != nil {
		return err
	}
	return r.writePlain("✓ Token removed for account %s\n", account)
}

// AuthStatus reports which credential the configured backend will use. Secrets are never printed.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	storage := r.config.Storage
	r.writePlain("Backend: %s\n", storage.Backend)

	switch storage.Backend {
	case "azure":
		azure := storage.Azure
		r.writePlain("Account: %s\n", azure.Account)
		r.writePlain("Container: %s\n", azure.Container)

		switch {
		case azure.UsesClientCredentials():
			r.writePlain("Credentials: ✓ client credentials (tenant %s)\n", azure.TenantID)
		case azure.AccessToken != "":
			r.writePlain("Credentials: ✓ SAS token from configuration\n")
		default:
			token, err := r.tokens.Get(azure.Account)
			if err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
			}
			if token == "" {
				r.writePlain("Credentials: ✗ none (run 'photobook auth set-token')\n")
				return nil
			}
			r.writePlain("Credentials: ✓ SAS token from OS keyring\n")
		}
	case "proxy":
		r.writePlain("Server: %s\n", storage.Proxy.URL)
		r.writePlain("Credentials: held by the server\n")
	case "local":
		r.writePlain("Database: %s\n", r.config.Database.Path)
		r.writePlain("Credentials: not required\n")
	}
	return nil
}
