// Photobook server implementation of [Storage]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/photobook/internal/shared"
)

// ProxyService implements [Storage] by forwarding to the /api/objects routes of `photobook serve`.
type ProxyService struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyService creates a new proxy client for the server at baseURL.
func NewProxyService(baseURL string, client *http.Client) *ProxyService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ProxyService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ObjectList is the body of GET /api/objects.
type ObjectList struct {
	Objects []Object `json:"objects"`
}

// Name returns the provider name.
func (p *ProxyService) Name() string { return "Photobook server" }

// ListObjects fetches the server's object listing.
func (p *ProxyService) ListObjects(ctx context.Context) ([]Object, error) {
	resp, err := p.send(ctx, http.MethodGet, "/api/objects", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list objects returned %d", shared.ErrTransport, resp.StatusCode)
	}

	var list ObjectList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, fmt.Errorf("%w: failed to parse object list: %v", shared.ErrTransport, err)
	}
	if list.Objects == nil {
		list.Objects = []Object{}
	}
	return list.Objects, nil
}

// UploadObject sends data with PUT /api/objects/{key}.
//
// A 400 from the server maps to [shared.ErrValidation]; other failures to [shared.ErrTransport].
func (p *ProxyService) UploadObject(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	resp, err := p.send(ctx, http.MethodPut, "/api/objects/"+escapeKey(key), data, contentType)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, strings.TrimSpace(string(resp.Body)))
	default:
		return nil, fmt.Errorf("%w: upload returned %d", shared.ErrTransport, resp.StatusCode)
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse upload result: %v", shared.ErrTransport, err)
	}
	return &result, nil
}

// send performs a request against the server and returns the raw response.
func (p *ProxyService) send(ctx context.Context, method, path string, body []byte, contentType string) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}
