// Azure Blob Storage implementation of [Storage]
//
// Blob REST API reference: https://learn.microsoft.com/rest/api/storageservices/blob-service-rest-api
package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/photobook/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	azureAPIVersion = "2021-08-06"
	azureScope      = "https://storage.azure.com/.default"
)

// azureAuthority is the Microsoft identity platform host; tests point it at an httptest server.
var azureAuthority = "https://login.microsoftonline.com"

type azureBlobProperties struct {
	ContentLength int64  `xml:"Content-Length"`
	ContentType   string `xml:"Content-Type"`
}

type azureBlob struct {
	Name       string              `xml:"Name"`
	Properties azureBlobProperties `xml:"Properties"`
}

// azureEnumerationResults is the body of a List Blobs response.
type azureEnumerationResults struct {
	XMLName xml.Name `xml:"EnumerationResults"`
	Blobs   struct {
		Blob []azureBlob `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// AzureBlobService implements the [Storage] interface for one Azure Blob Storage container.
type AzureBlobService struct {
	endpoint   string
	container  string
	sas        url.Values
	httpClient *http.Client
}

// NewAzureBlobService creates a service for the configured account and container.
//
// With client credentials configured, requests carry bearer tokens from [clientcredentials.Config] and the
// SAS token is ignored. client is the base transport and defaults to [http.DefaultClient].
func NewAzureBlobService(ctx context.Context, cfg shared.AzureConfig, client *http.Client) (*AzureBlobService, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("%w: missing container", shared.ErrInvalidConfig)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		if cfg.Account == "" {
			return nil, fmt.Errorf("%w: missing storage account", shared.ErrInvalidConfig)
		}
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.Account)
	}

	if client == nil {
		client = http.DefaultClient
	}

	svc := &AzureBlobService{
		endpoint:   endpoint,
		container:  cfg.Container,
		httpClient: client,
	}

	if cfg.UsesClientCredentials() {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", azureAuthority, cfg.TenantID),
			Scopes:       []string{azureScope},
		}
		svc.httpClient = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, client))
		return svc, nil
	}

	sas, err := url.ParseQuery(strings.TrimPrefix(cfg.AccessToken, "?"))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed access token: %v", shared.ErrInvalidConfig, err)
	}
	svc.sas = sas
	return svc, nil
}

// Name returns the provider name.
func (s *AzureBlobService) Name() string { return "Azure Blob Storage" }

// ObjectURL builds the unsigned URL of key.
func (s *AzureBlobService) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.container, escapeKey(key))
}

// signed returns base with the SAS parameters merged into its query.
func (s *AzureBlobService) signed(base string, extra url.Values) string {
	q := url.Values{}
	for k, v := range s.sas {
		q[k] = v
	}
	for k, v := range extra {
		q[k] = v
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// ListObjects lists every blob in the container, following NextMarker pages.
func (s *AzureBlobService) ListObjects(ctx context.Context) ([]Object, error) {
	objects := []Object{}
	marker := ""

	for {
		params := url.Values{"restype": {"container"}, "comp": {"list"}}
		if marker != "" {
			params.Set("marker", marker)
		}

		page, err := s.listPage(ctx, s.signed(fmt.Sprintf("%s/%s", s.endpoint, s.container), params))
		if err != nil {
			return nil, err
		}

		for _, b := range page.Blobs.Blob {
			objects = append(objects, Object{Key: b.Name, URL: s.ObjectURL(b.Name), Size: b.Properties.ContentLength})
		}

		if page.NextMarker == "" {
			return objects, nil
		}
		marker = page.NextMarker
	}
}

func (s *AzureBlobService) listPage(ctx context.Context, reqURL string) (*azureEnumerationResults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-ms-version", azureAPIVersion)

	body, err := s.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	// Azure prefixes XML bodies with a UTF-8 byte order mark.
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	var page azureEnumerationResults
	if err := xml.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: failed to parse blob listing: %v", shared.ErrTransport, err)
	}
	return &page, nil
}

// UploadObject writes data as a block blob. The returned PublicURL includes the SAS when one is configured.
func (s *AzureBlobService) UploadObject(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty object key", shared.ErrValidation)
	}

	target := s.signed(s.ObjectURL(key), nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-ms-version", azureAPIVersion)
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", contentType)

	if _, err := s.do(req, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("put blob %s: %w", key, err)
	}

	return &UploadResult{Key: key, PublicURL: target}, nil
}

// do sends req and reads the body, failing with [shared.ErrTransport] unless the status matches want.
func (s *AzureBlobService) do(req *http.Request, want int) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode != want {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrTransport, resp.StatusCode, azureErrorCode(body))
	}
	return body, nil
}

// azureErrorCode pulls the <Code> element out of an error body, falling back to a trimmed body.
func azureErrorCode(body []byte) string {
	var e struct {
		Code    string `xml:"Code"`
		Message string `xml:"Message"`
	}
	if err := xml.Unmarshal(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")), &e); err == nil && e.Code != "" {
		return e.Code
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
