package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/photobook/internal/shared"
)

type routesHandler struct{ routes []string }

func (h *routesHandler) Routes() []string { return h.routes }

func (h *routesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("custom:" + r.PathValue("key")))
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Routing", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc(http.MethodGet, "/things", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("get")) })
		r.HandleFunc(http.MethodPost, "/things", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("post")) })

		for method, want := range map[string]string{http.MethodGet: "get", http.MethodPost: "post"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/things", nil))
			if rec.Body.String() != want {
				t.Errorf("%s: expected %s, got %s", method, want, rec.Body.String())
			}
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/things", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, _ *http.Request) { order = append(order, "handler") })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Custom Handler", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(&routesHandler{routes: []string{"GET /files/{key...}"}})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/a/b.png", nil))
		if rec.Body.String() != "custom:a/b.png" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)

		h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte("short and stout"))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pot", nil))

		out := buf.String()
		if !strings.Contains(out, "/pot") || !strings.Contains(out, "418") {
			t.Errorf("expected path and status in log, got %q", out)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		h := Recover(shared.NewLogger(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "boom") {
			t.Error("panic value should not leak to clients")
		}
	})
}
