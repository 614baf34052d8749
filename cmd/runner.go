package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/repositories"
	"github.com/desertthunder/photobook/internal/services"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and the book are opened lazily so that setup and auth commands work without a reachable backend.
type Runner struct {
	config     *shared.Config
	configPath string
	storage    services.Storage
	book       *book.Book
	db         *sql.DB
	tokens     shared.TokenStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Storage    services.Storage
	Tokens     shared.TokenStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Tokens == nil {
		opts.Tokens = shared.NewKeyringStore()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		storage:    opts.Storage,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		openCommand, listCommand, uploadCommand, watchCommand, exportCommand, serveCommand, setupCommand, authCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration for every command.
//
// Precedence is config file, then PHOTOBOOK_* environment, then global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := shared.ApplyEnv(r.config); err != nil {
		return ctx, err
	}
	if backend := cmd.String("storage"); backend != "" {
		r.config.Storage.Backend = backend
	}
	if level := cmd.String("log-level"); level != "" {
		r.config.Log.Level = level
	}

	if err := r.config.Validate(); err != nil {
		return ctx, err
	}
	if err := shared.SetLogLevelString(r.logger, r.config.Log.Level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// After releases the database handle, if one was opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases resources opened by commands.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger used by the runner and anything it opens afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openStorage builds the configured storage backend once.
func (r *Runner) openStorage(ctx context.Context) (services.Storage, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	var err error
	switch r.config.Storage.Backend {
	case "azure":
		cfg := r.config.Storage.Azure
		if err := shared.ResolveAccessToken(&cfg, r.tokens); err != nil {
			return nil, err
		}
		if cfg.AccessToken == "" && !cfg.UsesClientCredentials() {
			return nil, fmt.Errorf("%w: set storage.azure.access_token or run 'photobook auth set-token'", shared.ErrMissingCredentials)
		}
		r.storage, err = services.NewAzureBlobService(ctx, cfg, r.httpClient)
	case "local":
		if r.db == nil {
			if r.db, err = shared.OpenDatabase(r.config.Database); err != nil {
				return nil, err
			}
		}
		r.storage = services.NewLocalBlobService(repositories.NewObjectRepository(r.db), r.config.Storage.Local.PublicURL)
	case "proxy":
		r.storage = services.NewProxyService(r.config.Storage.Proxy.URL, r.httpClient)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, r.config.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("storage ready", "backend", r.storage.Name())
	return r.storage, nil
}

// openBook builds the photobook over the configured storage once.
func (r *Runner) openBook(ctx context.Context) (*book.Book, error) {
	if r.book != nil {
		return r.book, nil
	}

	storage, err := r.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	defaults, err := models.LoadSeed(r.config.Book.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	r.book = book.New(storage, book.Options{
		Title:    r.config.Book.Title,
		PageSize: r.config.Book.PageSize,
		MaxBytes: r.config.Upload.MaxBytes,
		Timeout:  r.config.Storage.RequestTimeout(),
		Defaults: defaults,
		Logger:   r.logger,
	})
	return r.book, nil
}

// sync refreshes the catalog. Listing failures are reported but never fatal.
func (r *Runner) sync(ctx context.Context, b *book.Book) {
	if err := b.Refresh(ctx); err != nil {
		r.writePlain("! could not list remote photos, showing bundled photos only\n")
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// exitCode maps command errors to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrInvalidConfig), errors.Is(err, shared.ErrMissingCredentials):
		return 2
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrMissingArgument):
		return 3
	default:
		return 1
	}
}
