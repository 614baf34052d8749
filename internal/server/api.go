package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/services"
	"github.com/desertthunder/photobook/internal/shared"
)

const multipartMemory = 8 << 20

// API serves the photobook over JSON. It holds the storage credentials so clients never see them.
type API struct {
	book      *book.Book
	storage   services.Storage
	scheduler *book.Scheduler
	maxBytes  int64
	logger    *log.Logger
}

// NewAPI creates the JSON API over b and storage. scheduler drives the shared session's timed transitions.
func NewAPI(b *book.Book, storage services.Storage, scheduler *book.Scheduler, maxBytes int64, logger *log.Logger) *API {
	return &API{
		book:      b,
		storage:   storage,
		scheduler: scheduler,
		maxBytes:  maxBytes,
		logger:    shared.WithLogger(logger, "component", "api"),
	}
}

// Register adds every API route to r.
func (a *API) Register(r *BasicRouter) {
	r.HandleFunc(http.MethodGet, "/api/health", a.health)
	r.HandleFunc(http.MethodGet, "/api/categories", a.categories)
	r.HandleFunc(http.MethodGet, "/api/photos", a.listPhotos)
	r.HandleFunc(http.MethodPost, "/api/photos", a.uploadPhoto)
	r.HandleFunc(http.MethodGet, "/api/objects", a.listObjects)
	r.HandleFunc(http.MethodPut, "/api/objects/{key...}", a.putObject)
	r.HandleFunc(http.MethodGet, "/api/book", a.snapshot)
	r.HandleFunc(http.MethodPost, "/api/book/category/{id}", a.selectCategory)
	r.HandleFunc(http.MethodPost, "/api/book/{action}", a.bookAction)
}

// NewRouter builds the full photobook router: API routes, the local object handler when the
// storage can open objects, and logging/recovery middleware.
func NewRouter(api *API, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Recover(logger), Logging(logger))
	api.Register(r)

	if opener, ok := api.storage.(ObjectOpener); ok {
		r.Handler(NewObjectHandler(opener))
	}
	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "storage": a.storage.Name()})
}

func (a *API) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": models.Categories()})
}

func (a *API) listPhotos(w http.ResponseWriter, r *http.Request) {
	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: page must be a number", shared.ErrValidation))
			return
		}
		page = n
	}

	view, err := a.book.View(r.URL.Query().Get("category"), page)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if a.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.maxBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: missing file field", shared.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}

	record, err := a.book.UploadPhoto(r.Context(), book.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (a *API) listObjects(w http.ResponseWriter, r *http.Request) {
	objects, err := a.storage.ListObjects(r.Context())
	if err != nil {
		a.logger.Warn("listing failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, services.ObjectList{Objects: objects})
}

func (a *API) putObject(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || strings.Contains(key, "..") {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid key %q", shared.ErrValidation, key))
		return
	}

	var body io.Reader = r.Body
	if a.maxBytes > 0 {
		body = io.LimitReader(r.Body, a.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}

	f := book.File{Name: key, ContentType: r.Header.Get("Content-Type"), Data: data}
	if err := book.ValidateFile(f, a.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.storage.UploadObject(r.Context(), key, data, f.ContentType)
	if err != nil {
		a.logger.Error("object upload failed", "key", key, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (a *API) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.book.Snapshot())
}

func (a *API) selectCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.book.SelectCategory(r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a.book.Snapshot())
}

func (a *API) bookAction(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("action") {
	case "open":
		if a.book.Open() {
			a.book.Refresh(r.Context())
		}
	case "close":
		a.scheduler.Close()
	case "next":
		a.scheduler.NextPage()
	case "prev":
		a.scheduler.PrevPage()
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: unknown action %q", shared.ErrNotFound, r.PathValue("action")))
		return
	}
	writeJSON(w, http.StatusOK, a.book.Snapshot())
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
