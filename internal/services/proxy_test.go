package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/photobook/internal/services"
	"github.com/desertthunder/photobook/internal/shared"
	tu "github.com/desertthunder/photobook/internal/testing"
)

func TestProxyService(t *testing.T) {
	t.Run("Name", func(t *testing.T) {
		if services.NewProxyService("", nil).Name() == "" {
			t.Error("expected a provider name")
		}
	})

	t.Run("ListObjects", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/objects" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			json.NewEncoder(w).Encode(services.ObjectList{Objects: []services.Object{
				{Key: "nap.jpg", URL: "http://srv/objects/nap.jpg", Size: 10},
			}})
		}))
		defer server.Close()

		objects, err := services.NewProxyService(server.URL+"/", nil).ListObjects(context.Background())
		if err != nil {
			t.Fatalf("ListObjects() error = %v", err)
		}
		if len(objects) != 1 || objects[0].Key != "nap.jpg" {
			t.Errorf("unexpected objects %+v", objects)
		}
	})

	t.Run("ListObjects Empty Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		objects, err := services.NewProxyService(server.URL, nil).ListObjects(context.Background())
		if err != nil {
			t.Fatalf("ListObjects() error = %v", err)
		}
		if objects == nil {
			t.Error("expected an empty slice, got nil")
		}
	})

	t.Run("ListObjects Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := services.NewProxyService(server.URL, nil).ListObjects(context.Background())
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("UploadObject", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/api/objects/cat.png" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if r.Header.Get("Content-Type") != "image/png" {
				t.Errorf("expected image/png, got %s", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "pixels" {
				t.Errorf("unexpected body %q", body)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(services.UploadResult{Key: "cat.png", PublicURL: "http://srv/objects/cat.png"})
		}))
		defer server.Close()

		result, err := services.NewProxyService(server.URL, nil).UploadObject(context.Background(), "cat.png", []byte("pixels"), "image/png")
		if err != nil {
			t.Fatalf("UploadObject() error = %v", err)
		}
		if result.PublicURL != "http://srv/objects/cat.png" {
			t.Errorf("unexpected public URL %s", result.PublicURL)
		}
	})

	t.Run("UploadObject Status Mapping", func(t *testing.T) {
		tc := []struct {
			name   string
			status int
			want   error
		}{
			{name: "bad request", status: http.StatusBadRequest, want: shared.ErrValidation},
			{name: "bad gateway", status: http.StatusBadGateway, want: shared.ErrTransport},
			{name: "unauthorized", status: http.StatusUnauthorized, want: shared.ErrTransport},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "nope", tt.status)
				}))
				defer server.Close()

				_, err := services.NewProxyService(server.URL, nil).UploadObject(context.Background(), "a.png", []byte("x"), "image/png")
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Network Error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial tcp: refused"))}

		_, err := services.NewProxyService("http://srv", client).ListObjects(context.Background())
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("Body Read Error", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		_, err := services.NewProxyService("http://srv", client).ListObjects(context.Background())
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}
