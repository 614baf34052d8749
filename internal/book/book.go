package book

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/services"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
)

// UploadedDescription is the caption of every uploaded photo.
const UploadedDescription = "Uploaded photo"

// Options configure a [Book].
type Options struct {
	Title    string
	PageSize int
	// MaxBytes rejects larger uploads; zero disables the check.
	MaxBytes int64
	// Timeout bounds each storage call; zero means no deadline.
	Timeout  time.Duration
	Defaults []models.PhotoRecord
	Logger   *log.Logger
}

// State is the snapshot handed to presentation.
type State struct {
	Title            string               `json:"title"`
	Phase            Phase                `json:"-"`
	IsOpen           bool                 `json:"is_open"`
	IsClosing        bool                 `json:"is_closing"`
	CurrentPage      int                  `json:"current_page"`
	TotalPages       int                  `json:"total_pages"`
	DisplayTotal     int                  `json:"display_total"`
	VisiblePhotos    []models.PhotoRecord `json:"visible_photos"`
	SelectedCategory models.Category      `json:"selected_category"`
	IsFlipping       bool                 `json:"is_flipping"`
	IsUploading      bool                 `json:"is_uploading"`
	CatalogSize      int                  `json:"catalog_size"`
}

// File is an upload candidate.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile loads path and sniffs its content type, falling back to the extension.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), ContentType: DetectContentType(path, data), Data: data}, nil
}

// DetectContentType returns the sniffed MIME type of data, or one guessed from name.
func DetectContentType(name string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if kind := filetype.GetType(strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")); kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "application/octet-stream"
}

// Book is the photobook store.
type Book struct {
	mu        sync.Mutex
	title     string
	session   Session
	catalog   *Catalog
	storage   services.Storage
	pageSize  int
	maxBytes  int64
	timeout   time.Duration
	opened    bool
	uploading int
	logger    *log.Logger
}

// New creates a closed book over storage. A nil Defaults uses the bundled photos.
func New(storage services.Storage, opts Options) *Book {
	if opts.PageSize <= 0 {
		opts.PageSize = 4
	}
	if opts.Defaults == nil {
		opts.Defaults = models.DefaultPhotos()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Book{
		title:    opts.Title,
		session:  NewSession(),
		catalog:  NewCatalog(opts.Defaults),
		storage:  storage,
		pageSize: opts.PageSize,
		maxBytes: opts.MaxBytes,
		timeout:  opts.Timeout,
		logger:   shared.WithLogger(opts.Logger, "component", "book"),
	}
}

// PageSize returns the configured page size.
func (b *Book) PageSize() int { return b.pageSize }

// Photos returns the whole catalog.
func (b *Book) Photos() []models.PhotoRecord { return b.catalog.Photos() }

// Snapshot returns the current view state.
func (b *Book) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.session
	view := Paginate(b.catalog.Photos(), s.Category, s.Page, b.pageSize)
	return State{
		Title:            b.title,
		Phase:            s.Phase,
		IsOpen:           s.Phase == Open,
		IsClosing:        s.Phase == Closing,
		CurrentPage:      s.Page,
		TotalPages:       view.TotalPages,
		DisplayTotal:     view.DisplayTotal,
		VisiblePhotos:    view.Photos,
		SelectedCategory: s.Category,
		IsFlipping:       s.Flipping,
		IsUploading:      b.uploading > 0,
		CatalogSize:      b.catalog.Len(),
	}
}

// View paginates any chapter without touching the session.
func (b *Book) View(category string, page int) (View, error) {
	c, err := parseCategory(category)
	if err != nil {
		return View{}, err
	}
	if page < 0 {
		return View{}, fmt.Errorf("%w: page must not be negative", shared.ErrValidation)
	}
	return Paginate(b.catalog.Photos(), c, page, b.pageSize), nil
}

// Open opens the cover and reports whether this was the first open, after which callers run [Book.Refresh].
func (b *Book) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.session.Phase
	b.session = b.session.Open()
	if prev == Closing {
		b.logger.Debug("open ignored while closing")
	}

	first := b.session.Phase == Open && !b.opened
	if first {
		b.opened = true
	}
	return first
}

// Close starts closing; the caller schedules [Book.FinishClose] after the close delay.
func (b *Book) Close() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	var started bool
	b.session, started = b.session.Close()
	return started
}

// FinishClose completes a close.
func (b *Book) FinishClose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = b.session.FinishClose()
}

// SelectCategory switches chapter by id.
func (b *Book) SelectCategory(id string) error {
	c, err := parseCategory(id)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = b.session.SelectCategory(c)
	return nil
}

// NextPage starts a forward flip; the caller schedules [Book.FinishFlip].
func (b *Book) NextPage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := TotalPages(len(Filter(b.catalog.Photos(), b.session.Category)), b.pageSize)
	var started bool
	b.session, started = b.session.NextPage(total)
	return started
}

// PrevPage starts a backward flip; the caller schedules [Book.FinishFlip].
func (b *Book) PrevPage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	var started bool
	b.session, started = b.session.PrevPage()
	return started
}

// FinishFlip commits the pending page.
func (b *Book) FinishFlip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = b.session.FinishFlip()
}

// Refresh lists remote objects once and replaces the listed segment of the catalog.
//
// Failures are logged and leave the catalog as it was; the error is returned for status display only.
func (b *Book) Refresh(ctx context.Context) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	objects, err := b.storage.ListObjects(ctx)
	if err != nil {
		b.logger.Warn("listing failed, keeping current catalog", "storage", b.storage.Name(), "error", err)
		return err
	}

	records := make([]models.PhotoRecord, 0, len(objects))
	for _, o := range objects {
		records = append(records, models.PhotoRecord{
			ID:          o.Key,
			Category:    models.CategoryAll,
			Description: DescribeKey(o.Key),
			ImageRef:    StripQuery(o.URL),
		})
	}
	b.catalog.ReplaceRemote(records)

	b.mu.Lock()
	total := TotalPages(len(Filter(b.catalog.Photos(), b.session.Category)), b.pageSize)
	b.session = b.session.Clamp(total)
	b.mu.Unlock()

	b.logger.Info("catalog synced", "storage", b.storage.Name(), "remote", len(records))
	return nil
}

// UploadPhoto validates and stores f, then appends it to the catalog.
//
// Validation failures wrap [shared.ErrValidation] and happen before any network call.
// Storage failures wrap [shared.ErrTransport], or [shared.ErrValidation] when the backend rejects the
// object itself; the catalog is unchanged on any error.
func (b *Book) UploadPhoto(ctx context.Context, f File) (models.PhotoRecord, error) {
	if err := ValidateFile(f, b.maxBytes); err != nil {
		return models.PhotoRecord{}, err
	}

	key := UploadKey(f.Name, f.Data)
	b.setUploading(1)
	defer b.setUploading(-1)

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	result, err := b.storage.UploadObject(ctx, key, f.Data, f.ContentType)
	if err != nil {
		b.logger.Error("upload failed", "key", key, "error", err)
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrTransport) {
			err = fmt.Errorf("%w: %v", shared.ErrTransport, err)
		}
		return models.PhotoRecord{}, fmt.Errorf("upload %s: %w", f.Name, err)
	}

	record := models.PhotoRecord{
		ID:          key,
		Category:    models.CategoryAll,
		Description: UploadedDescription,
		ImageRef:    StripQuery(result.PublicURL),
	}
	b.catalog.Append(record)
	b.logger.Info("photo uploaded", "key", key, "bytes", len(f.Data))
	return record, nil
}

// ValidateFile checks that f declares and contains an image no larger than maxBytes (zero disables the limit).
func ValidateFile(f File, maxBytes int64) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("%w: %s is %q, not an image", shared.ErrValidation, f.Name, f.ContentType)
	}
	if len(f.Data) == 0 {
		return fmt.Errorf("%w: %s is empty", shared.ErrValidation, f.Name)
	}
	if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
		return fmt.Errorf("%w: %s is larger than %d bytes", shared.ErrValidation, f.Name, maxBytes)
	}
	if !filetype.IsImage(f.Data) {
		return fmt.Errorf("%w: %s does not contain image data", shared.ErrValidation, f.Name)
	}
	return nil
}

func (b *Book) setUploading(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploading += delta
}

func (b *Book) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(ctx, b.timeout)
	}
	return context.WithCancel(ctx)
}

func parseCategory(id string) (models.Category, error) {
	if strings.TrimSpace(id) == "" {
		return models.CategoryAll, nil
	}
	c, err := models.ParseCategory(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return c, nil
}

// UploadKey builds "<uuid>-<slug><ext>" from the original file name.
func UploadKey(name string, data []byte) string {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			ext = "." + kind.Extension
		}
	}

	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "photo"
	}
	return shared.GenerateID() + "-" + stem + ext
}

var uuidPrefix = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-`)

// DescribeKey turns an object key into a caption: "garden/big-pond_2.jpg" reads "big pond 2".
func DescribeKey(key string) string {
	base := uuidPrefix.ReplaceAllString(filepath.Base(key), "")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}), " ")
	if base == "" {
		return key
	}
	return base
}

// StripQuery drops the query and fragment of a URL so signatures never reach the catalog.
func StripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
