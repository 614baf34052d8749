// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/photobook/internal/services"
)

// Upload records one call to [MockStorage.UploadObject].
type Upload struct {
	Key         string
	Data        []byte
	ContentType string
}

// MockStorage is a test double for [services.Storage]
type MockStorage struct {
	mu sync.Mutex

	Objects   []services.Object
	ListErr   error
	UploadErr error
	// BaseURL prefixes upload URLs; a "?sig=..." suffix is added to mimic signed URLs.
	BaseURL string
	// BeforeList, when set, runs at the start of ListObjects (e.g. to block on a channel).
	BeforeList func()

	Uploads   []Upload
	ListCalls int
}

func (m *MockStorage) ListObjects(ctx context.Context) ([]services.Object, error) {
	if m.BeforeList != nil {
		m.BeforeList()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]services.Object, len(m.Objects))
	copy(out, m.Objects)
	return out, nil
}

func (m *MockStorage) UploadObject(ctx context.Context, key string, data []byte, contentType string) (*services.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	m.Uploads = append(m.Uploads, Upload{Key: key, Data: data, ContentType: contentType})

	base := m.BaseURL
	if base == "" {
		base = "https://mock.blob.example/photos"
	}
	return &services.UploadResult{Key: key, PublicURL: fmt.Sprintf("%s/%s?sv=2022&sig=secret", base, key)}, nil
}

func (m *MockStorage) Name() string { return "mock" }

// UploadCount returns the number of successful uploads.
func (m *MockStorage) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

// PNGBytes encodes a w×h opaque PNG.
func PNGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 150, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
