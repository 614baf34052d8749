package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/repositories"
	"github.com/desertthunder/photobook/internal/shared"
)

// LocalBlobService implements [Storage] on the SQLite object repository.
type LocalBlobService struct {
	repo      *repositories.ObjectRepository
	publicURL string
}

// NewLocalBlobService creates a local store whose object URLs are rooted at publicURL.
func NewLocalBlobService(repo *repositories.ObjectRepository, publicURL string) *LocalBlobService {
	return &LocalBlobService{repo: repo, publicURL: strings.TrimRight(publicURL, "/")}
}

// Name returns the provider name.
func (s *LocalBlobService) Name() string { return "Local" }

// ObjectURL returns the URL `photobook serve` answers for key.
func (s *LocalBlobService) ObjectURL(key string) string {
	return fmt.Sprintf("%s/objects/%s", s.publicURL, escapeKey(key))
}

// ListObjects lists stored objects in upload order.
func (s *LocalBlobService) ListObjects(ctx context.Context) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	stored, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	objects := make([]Object, 0, len(stored))
	for _, o := range stored {
		objects = append(objects, Object{Key: o.Key(), URL: s.ObjectURL(o.Key()), Size: o.Size()})
	}
	return objects, nil
}

// UploadObject stores data under key.
func (s *LocalBlobService) UploadObject(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	if err := s.repo.Create(models.NewStoredObject(key, contentType, data)); err != nil {
		if errors.Is(err, shared.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	return &UploadResult{Key: key, PublicURL: s.ObjectURL(key)}, nil
}

// Open returns a stored object with its bytes.
func (s *LocalBlobService) Open(key string) (*models.StoredObject, error) {
	return s.repo.Get(key)
}
