// package services defines interface Storage for object-storage providers
//
// Azure Blob Storage, local SQLite, photobook server (proxy)
package services

import (
	"context"
	"net/url"
	"strings"
)

// Storage defines the object-storage collaborator the photobook lists from and uploads to.
type Storage interface {
	// ListObjects returns every object in the configured container, following pagination.
	// An empty container yields an empty slice and no error.
	ListObjects(ctx context.Context) ([]Object, error)

	// UploadObject stores data under key and returns where it can be fetched.
	UploadObject(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)

	// Name returns the name of the provider (e.g., "Azure Blob Storage")
	Name() string
}

// Object is one listed blob.
type Object struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// UploadResult describes a stored blob. PublicURL may carry a signature in its query string.
type UploadResult struct {
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
}

// escapeKey escapes each path segment of an object key.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
