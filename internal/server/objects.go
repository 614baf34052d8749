package server

import (
	"net/http"
	"strconv"

	"github.com/desertthunder/photobook/internal/models"
)

// ObjectOpener returns stored bytes by key; [services.LocalBlobService] implements it.
type ObjectOpener interface {
	Open(key string) (*models.StoredObject, error)
}

// ObjectHandler serves objects from the local store at /objects/{key}.
type ObjectHandler struct {
	store ObjectOpener
}

// NewObjectHandler creates a handler over store.
func NewObjectHandler(store ObjectOpener) *ObjectHandler {
	return &ObjectHandler{store: store}
}

// Routes returns the HTTP routes this handler serves.
func (h *ObjectHandler) Routes() []string {
	return []string{"GET /objects/{key...}"}
}

// ServeHTTP writes the object body with its stored content type.
func (h *ObjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	obj, err := h.store.Open(r.PathValue("key"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType())
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(obj.Data())), 10))
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data())
}
